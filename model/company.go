package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileAttachment describes an uploaded document embedded in a list item
type FileAttachment struct {
	Filename string `json:"filename" bson:"filename"`
	FileURL  string `json:"file_url" bson:"file_url"`
	FileType string `json:"file_type" bson:"file_type"` // MIME type
}

// KeyValuePair is one labeled fact about a company, optionally backed by a
// document and a call-to-action.
type KeyValuePair struct {
	Key   string `json:"key" bson:"key" binding:"required"`
	Value string `json:"value" bson:"value"`
	// FileName holds the client's original filename until a matching upload
	// replaces it with the stored file's URL.
	FileName    string          `json:"fileName,omitempty" bson:"fileName,omitempty"`
	UploadToken string          `json:"uploadToken,omitempty" bson:"uploadToken,omitempty"`
	File        *FileAttachment `json:"file,omitempty" bson:"file,omitempty"`
	Action      *string         `json:"action,omitempty" bson:"action,omitempty"`
	Link        *string         `json:"link,omitempty" bson:"link,omitempty"`
}

// DynamicSectionItem has the same shape as KeyValuePair
type DynamicSectionItem = KeyValuePair

// DynamicSection is an admin-defined named group of facts
type DynamicSection struct {
	Key   string               `json:"key" bson:"key" binding:"required"` // section title
	Value []DynamicSectionItem `json:"value" bson:"value" binding:"dive"`
}

// Company is a company profile document
type Company struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	Category           string             `json:"category" bson:"category"`
	Size               string             `json:"size" bson:"size"`
	Location           string             `json:"location" bson:"location"`
	Description        string             `json:"description" bson:"description"`
	Logo               string             `json:"logo" bson:"logo"`
	Website            string             `json:"website" bson:"website"`
	Revenue            int64              `json:"revenue" bson:"revenue"`
	Employees          int64              `json:"employees" bson:"employees"`
	Profit             int64              `json:"profit" bson:"profit"`
	Assets             int64              `json:"assets" bson:"assets"`
	Liabilities        int64              `json:"liabilities" bson:"liabilities"`
	Founded            string             `json:"founded" bson:"founded"`
	Headquarters       string             `json:"headquarters" bson:"headquarters"`
	Mission            string             `json:"mission" bson:"mission"`
	CompanyValues      []string           `json:"company_values" bson:"company_values"`
	Investors          []KeyValuePair     `json:"investors" bson:"investors" binding:"dive"`
	FinancialStatement []KeyValuePair     `json:"financialStatement" bson:"financialStatement" binding:"dive"`
	Assessment         []KeyValuePair     `json:"assessment" bson:"assessment" binding:"dive"`
	Portfolio          []KeyValuePair     `json:"portfolio" bson:"portfolio" binding:"dive"`
	TransformationPlan []KeyValuePair     `json:"transformation_plan" bson:"transformation_plan" binding:"dive"`
	DynamicSections    []DynamicSection   `json:"dynamicSections" bson:"dynamicSections" binding:"dive"`
}

// Normalize replaces nil lists with empty ones so they encode as [] rather
// than null.
func (c *Company) Normalize() {
	if c.CompanyValues == nil {
		c.CompanyValues = []string{}
	}
	for _, list := range c.ItemLists() {
		if *list == nil {
			*list = []KeyValuePair{}
		}
	}
	if c.DynamicSections == nil {
		c.DynamicSections = []DynamicSection{}
	}
	for i := range c.DynamicSections {
		if c.DynamicSections[i].Value == nil {
			c.DynamicSections[i].Value = []DynamicSectionItem{}
		}
	}
}

// ItemLists returns pointers to every top-level KeyValuePair list.
func (c *Company) ItemLists() []*[]KeyValuePair {
	return []*[]KeyValuePair{
		&c.Investors,
		&c.FinancialStatement,
		&c.Assessment,
		&c.Portfolio,
		&c.TransformationPlan,
	}
}

// EachItem calls fn for every list item and every dynamic-section item, in
// document order.
func (c *Company) EachItem(fn func(item *KeyValuePair)) {
	for _, list := range c.ItemLists() {
		for i := range *list {
			fn(&(*list)[i])
		}
	}
	for s := range c.DynamicSections {
		items := c.DynamicSections[s].Value
		for i := range items {
			fn(&items[i])
		}
	}
}
