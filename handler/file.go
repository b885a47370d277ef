package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/pkg/logger"
	"github.com/malazinvestment/backend/service"
)

// FileHandler accepts standalone uploads and serves stored files
type FileHandler struct {
	uploads *service.UploadService
	files   service.FileStore
}

// NewFileHandler creates a file handler. Uploads are validated by uploads
// and read back from files.
func NewFileHandler(uploads *service.UploadService, files service.FileStore) *FileHandler {
	return &FileHandler{
		uploads: uploads,
		files:   files,
	}
}

// Upload stores a single file without linking it to any company. The stored
// name doubles as an upload token for later company creation.
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "No file provided")
		return
	}

	stored, err := h.uploads.Save(c.Request.Context(), header)
	if errors.Is(err, service.ErrUnsupportedType) {
		abortDetail(c, http.StatusBadRequest, "Invalid file type")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	logger.Info(c.Request.Context(), "file uploaded", "file", stored.OriginalName, "stored_as", stored.Name)

	c.JSON(http.StatusOK, gin.H{
		"filename":  stored.OriginalName,
		"file_url":  stored.URL,
		"file_type": stored.ContentType,
		"token":     stored.Name,
	})
}

// Serve streams a stored file, honoring range and conditional requests
func (h *FileHandler) Serve(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	obj, info, err := h.files.Open(c.Request.Context(), name)
	if errors.Is(err, service.ErrFileNotFound) {
		abortDetail(c, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	defer obj.Close()

	if info.ContentType != "" {
		c.Header("Content-Type", info.ContentType)
	}
	http.ServeContent(c.Writer, c.Request, info.Name, info.ModTime, obj)
}
