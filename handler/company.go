package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/malazinvestment/backend/middleware"
	"github.com/malazinvestment/backend/model"
	"github.com/malazinvestment/backend/pkg/logger"
	"github.com/malazinvestment/backend/service"
)

// CompanyHandler serves the admin company endpoints
type CompanyHandler struct {
	companies service.CompanyRepository
	uploads   *service.UploadService
}

// NewCompanyHandler creates a company handler. Uploaded logos and attachments
// are stored through uploads.
func NewCompanyHandler(companies service.CompanyRepository, uploads *service.UploadService) *CompanyHandler {
	return &CompanyHandler{
		companies: companies,
		uploads:   uploads,
	}
}

// createForm is the multipart form of POST /admin/companies/add. List
// fields arrive as JSON-encoded strings.
type createForm struct {
	Name         string `form:"name" binding:"required"`
	Category     string `form:"category" binding:"required"`
	Size         string `form:"size" binding:"required"`
	Location     string `form:"location" binding:"required"`
	Description  string `form:"description" binding:"required"`
	Website      string `form:"website" binding:"required"`
	Revenue      *int64 `form:"revenue" binding:"required"`
	Employees    int64  `form:"employees"`
	Profit       int64  `form:"profit"`
	Assets       int64  `form:"assets"`
	Liabilities  int64  `form:"liabilities"`
	Founded      string `form:"founded" binding:"required"`
	Headquarters string `form:"headquarters" binding:"required"`
	Mission      string `form:"mission" binding:"required"`

	CompanyValues      string `form:"company_values" binding:"required"`
	Investors          string `form:"investors" binding:"required"`
	FinancialStatement string `form:"financialStatement" binding:"required"`
	Assessment         string `form:"assessment" binding:"required"`
	Portfolio          string `form:"portfolio" binding:"required"`
	TransformationPlan string `form:"transformation_plan"`
	DynamicSections    string `form:"dynamicSections" binding:"required"`
}

// Create handles company creation with an optional logo and attachments
func (h *CompanyHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var form createForm
	if err := c.ShouldBind(&form); err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	company := &model.Company{
		Name:         form.Name,
		Category:     form.Category,
		Size:         form.Size,
		Location:     form.Location,
		Description:  form.Description,
		Website:      form.Website,
		Revenue:      *form.Revenue,
		Employees:    form.Employees,
		Profit:       form.Profit,
		Assets:       form.Assets,
		Liabilities:  form.Liabilities,
		Founded:      form.Founded,
		Headquarters: form.Headquarters,
		Mission:      form.Mission,
	}

	// All JSON fields decode before anything is written.
	fields := []struct {
		name string
		raw  string
		dst  any
	}{
		{"company_values", form.CompanyValues, &company.CompanyValues},
		{"investors", form.Investors, &company.Investors},
		{"financialStatement", form.FinancialStatement, &company.FinancialStatement},
		{"assessment", form.Assessment, &company.Assessment},
		{"portfolio", form.Portfolio, &company.Portfolio},
		{"transformation_plan", form.TransformationPlan, &company.TransformationPlan},
		{"dynamicSections", form.DynamicSections, &company.DynamicSections},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			abortDetail(c, http.StatusBadRequest, (&fieldError{field: f.name, err: err}).detail())
			return
		}
	}
	company.Normalize()
	if err := binding.Validator.ValidateStruct(company); err != nil {
		abortDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.uploads.ResolveUploadTokens(ctx, company); err != nil {
		if errors.Is(err, service.ErrUnknownToken) {
			abortDetail(c, http.StatusBadRequest, "Unknown upload token")
			return
		}
		internalError(c, err)
		return
	}

	logo, err := formFile(c, "logo")
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if logo != nil {
		stored, err := h.uploads.Save(ctx, logo)
		if errors.Is(err, service.ErrUnsupportedType) {
			abortDetail(c, http.StatusBadRequest, "Invalid logo file type")
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}
		company.Logo = stored.URL
	}

	files, err := formFiles(c, "request_files")
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	for _, header := range files {
		stored, err := h.uploads.Save(ctx, header)
		if errors.Is(err, service.ErrUnsupportedType) {
			abortDetail(c, http.StatusBadRequest, "Invalid file type for "+header.Filename)
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}
		if n := service.LinkAttachments(company, stored); n == 0 {
			logger.Warn(ctx, "uploaded file matches no item", "file", stored.OriginalName, "stored_as", stored.Name)
		}
	}

	id, err := h.companies.Create(ctx, company)
	if err != nil {
		internalError(c, err)
		return
	}

	logger.Info(ctx, "company created", "company_id", id.Hex(), "name", company.Name, "files", len(files))

	c.JSON(http.StatusOK, gin.H{"id": id.Hex()})
}

// Update applies a partial update. Fields come from a JSON body, or from the
// query string and form with lists as JSON strings.
func (h *CompanyHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := objectID(c, "Invalid company ID format")
	if !ok {
		return
	}

	var update model.CompanyUpdate
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&update); err != nil {
			abortDetail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	} else if err := bindUpdateParams(c, &update); err != nil {
		var fe *fieldError
		if errors.As(err, &fe) {
			abortDetail(c, http.StatusBadRequest, fe.detail())
			return
		}
		abortDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	logo, err := formFile(c, "logo")
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if logo != nil {
		stored, err := h.uploads.Save(ctx, logo)
		if errors.Is(err, service.ErrUnsupportedType) {
			abortDetail(c, http.StatusBadRequest, "Invalid file type")
			return
		}
		if err != nil {
			_ = c.Error(err)
			logger.Error(ctx, "failed to save logo", "error", err)
			abortDetail(c, http.StatusInternalServerError, "Error saving file: "+err.Error())
			return
		}
		update.Logo = &stored.URL
	}

	fields := update.Fields()
	if len(fields) == 0 {
		abortDetail(c, http.StatusBadRequest, "No update data provided")
		return
	}

	if err := h.companies.Update(ctx, id, fields); err != nil {
		storeError(c, err, "Company not found")
		return
	}

	logger.Info(ctx, "company updated", "company_id", id.Hex(), "fields", len(fields))

	c.JSON(http.StatusOK, gin.H{"message": "Company updated successfully"})
}

// Delete removes a company by identity. Its uploaded files stay on disk.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "Invalid company ID format")
	if !ok {
		return
	}

	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "Company not found")
		return
	}

	logger.Info(c.Request.Context(), "company deleted", "company_id", id.Hex())

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}

type listQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Size     string `form:"size"`
	Location string `form:"location"`
	Limit    int64  `form:"limit,default=100" binding:"min=0"`
	Skip     int64  `form:"skip,default=0" binding:"min=0"`
}

// List returns one page of companies; the unpaginated total goes in a header
func (h *CompanyHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	filter := service.CompanyFilter{
		Search:   q.Search,
		Category: q.Category,
		Size:     q.Size,
		Location: q.Location,
	}
	companies, total, err := h.companies.List(c.Request.Context(), filter, service.Page{Limit: q.Limit, Skip: q.Skip})
	if err != nil {
		internalError(c, err)
		return
	}
	for i := range companies {
		companies[i].Normalize()
	}

	c.Header(middleware.TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, companies)
}

// Get returns the full stored document
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "Invalid company ID format")
	if !ok {
		return
	}

	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "Company not found")
		return
	}
	company.Normalize()

	c.JSON(http.StatusOK, company)
}

// fieldError reports a form or query field that failed to parse. A nil err
// means the value was not a valid integer.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	if e.err == nil {
		return "invalid value for " + e.field
	}
	return fmt.Sprintf("invalid JSON in field %s: %v", e.field, e.err)
}

func (e *fieldError) Unwrap() error { return e.err }

func (e *fieldError) detail() string {
	if e.err == nil {
		return "Invalid value for " + e.field
	}
	return fmt.Sprintf("Invalid JSON in field %s: %v", e.field, e.err)
}

// bindUpdateParams collects the supplied fields from the form and query
// string, then validates them the way a JSON body would be.
func bindUpdateParams(c *gin.Context, u *model.CompanyUpdate) error {
	strs := []struct {
		key string
		dst **string
	}{
		{"name", &u.Name},
		{"category", &u.Category},
		{"size", &u.Size},
		{"location", &u.Location},
		{"description", &u.Description},
		{"website", &u.Website},
		{"founded", &u.Founded},
		{"headquarters", &u.Headquarters},
		{"mission", &u.Mission},
	}
	for _, s := range strs {
		if v, ok := param(c, s.key); ok {
			*s.dst = &v
		}
	}

	ints := []struct {
		key string
		dst **int64
	}{
		{"revenue", &u.Revenue},
		{"employees", &u.Employees},
		{"profit", &u.Profit},
		{"assets", &u.Assets},
		{"liabilities", &u.Liabilities},
	}
	for _, i := range ints {
		v, ok := param(c, i.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return &fieldError{field: i.key}
		}
		*i.dst = &n
	}

	if values, ok := paramArray(c, "company_values"); ok {
		list, err := stringList(values)
		if err != nil {
			return &fieldError{field: "company_values", err: err}
		}
		u.CompanyValues = &list
	}

	lists := []struct {
		key string
		dst **[]model.KeyValuePair
	}{
		{"investors", &u.Investors},
		{"financialStatement", &u.FinancialStatement},
		{"assessment", &u.Assessment},
		{"portfolio", &u.Portfolio},
		{"transformation_plan", &u.TransformationPlan},
	}
	for _, l := range lists {
		v, ok := param(c, l.key)
		if !ok {
			continue
		}
		var items []model.KeyValuePair
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			return &fieldError{field: l.key, err: err}
		}
		*l.dst = &items
	}

	if v, ok := param(c, "dynamicSections"); ok {
		var sections []model.DynamicSection
		if err := json.Unmarshal([]byte(v), &sections); err != nil {
			return &fieldError{field: "dynamicSections", err: err}
		}
		u.DynamicSections = &sections
	}
	return binding.Validator.ValidateStruct(u)
}

// param looks a field up in the form first, then the query string
func param(c *gin.Context, key string) (string, bool) {
	if v, ok := c.GetPostForm(key); ok {
		return v, true
	}
	return c.GetQuery(key)
}

func paramArray(c *gin.Context, key string) ([]string, bool) {
	if v, ok := c.GetPostFormArray(key); ok {
		return v, true
	}
	return c.GetQueryArray(key)
}

// stringList accepts either one JSON array or repeated plain values
func stringList(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(values[0]), &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return values, nil
}

// formFiles returns the files uploaded under name; a non-multipart request
// simply has none.
func formFiles(c *gin.Context, name string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return form.File[name], nil
}

func formFile(c *gin.Context, name string) (*multipart.FileHeader, error) {
	files, err := formFiles(c, name)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return files[0], nil
}
