package model

import (
	"go.mongodb.org/mongo-driver/bson"
)

// CompanyUpdate is a partial update; nil fields are left untouched.
type CompanyUpdate struct {
	Name               *string           `json:"name,omitempty"`
	Category           *string           `json:"category,omitempty"`
	Size               *string           `json:"size,omitempty"`
	Location           *string           `json:"location,omitempty"`
	Description        *string           `json:"description,omitempty"`
	Logo               *string           `json:"logo,omitempty"`
	Website            *string           `json:"website,omitempty"`
	Revenue            *int64            `json:"revenue,omitempty"`
	Employees          *int64            `json:"employees,omitempty"`
	Profit             *int64            `json:"profit,omitempty"`
	Assets             *int64            `json:"assets,omitempty"`
	Liabilities        *int64            `json:"liabilities,omitempty"`
	Founded            *string           `json:"founded,omitempty"`
	Headquarters       *string           `json:"headquarters,omitempty"`
	Mission            *string           `json:"mission,omitempty"`
	CompanyValues      *[]string         `json:"company_values,omitempty"`
	Investors          *[]KeyValuePair   `json:"investors,omitempty" binding:"omitempty,dive"`
	FinancialStatement *[]KeyValuePair   `json:"financialStatement,omitempty" binding:"omitempty,dive"`
	Assessment         *[]KeyValuePair   `json:"assessment,omitempty" binding:"omitempty,dive"`
	Portfolio          *[]KeyValuePair   `json:"portfolio,omitempty" binding:"omitempty,dive"`
	TransformationPlan *[]KeyValuePair   `json:"transformation_plan,omitempty" binding:"omitempty,dive"`
	DynamicSections    *[]DynamicSection `json:"dynamicSections,omitempty" binding:"omitempty,dive"`
}

// Fields returns the supplied fields keyed by their stored names, ready for
// a $set.
func (u *CompanyUpdate) Fields() bson.M {
	set := bson.M{}
	putString(set, "name", u.Name)
	putString(set, "category", u.Category)
	putString(set, "size", u.Size)
	putString(set, "location", u.Location)
	putString(set, "description", u.Description)
	putString(set, "logo", u.Logo)
	putString(set, "website", u.Website)
	putInt(set, "revenue", u.Revenue)
	putInt(set, "employees", u.Employees)
	putInt(set, "profit", u.Profit)
	putInt(set, "assets", u.Assets)
	putInt(set, "liabilities", u.Liabilities)
	putString(set, "founded", u.Founded)
	putString(set, "headquarters", u.Headquarters)
	putString(set, "mission", u.Mission)
	if u.CompanyValues != nil {
		set["company_values"] = nonNilStrings(*u.CompanyValues)
	}
	putItems(set, "investors", u.Investors)
	putItems(set, "financialStatement", u.FinancialStatement)
	putItems(set, "assessment", u.Assessment)
	putItems(set, "portfolio", u.Portfolio)
	putItems(set, "transformation_plan", u.TransformationPlan)
	if u.DynamicSections != nil {
		sections := make([]DynamicSection, len(*u.DynamicSections))
		for i, s := range *u.DynamicSections {
			sections[i] = DynamicSection{Key: s.Key, Value: withoutTokens(s.Value)}
		}
		set["dynamicSections"] = sections
	}
	return set
}

func putString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func putInt(set bson.M, key string, v *int64) {
	if v != nil {
		set[key] = *v
	}
}

func putItems(set bson.M, key string, v *[]KeyValuePair) {
	if v == nil {
		return
	}
	set[key] = withoutTokens(*v)
}

// withoutTokens copies items with upload tokens cleared. Tokens are only
// resolved on create, so an update must not persist them.
func withoutTokens(items []KeyValuePair) []KeyValuePair {
	out := make([]KeyValuePair, len(items))
	for i, item := range items {
		item.UploadToken = ""
		out[i] = item
	}
	return out
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
