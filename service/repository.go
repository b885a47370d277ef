package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/malazinvestment/backend/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches an identity
	ErrNotFound = errors.New("not found")
)

// CompanyRepository persists company documents
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Company, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter CompanyFilter, page Page) ([]model.Company, int64, error)
}

// UserRepository persists admin accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CompanyFilter narrows a company listing. Empty fields match everything.
type CompanyFilter struct {
	Search   string // case-insensitive substring of name
	Category string
	Size     string
	Location string
}

// Page selects a window of a listing. Limit 0 means no limit.
type Page struct {
	Limit int64
	Skip  int64
}

// BSON renders the filter as a MongoDB query document.
func (f CompanyFilter) BSON() bson.M {
	query := bson.M{}
	if f.Search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Size != "" {
		query["size"] = f.Size
	}
	if f.Location != "" {
		query["location"] = f.Location
	}
	return query
}

// Match reports whether c satisfies the filter.
func (f CompanyFilter) Match(c *model.Company) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Size != "" && c.Size != f.Size {
		return false
	}
	if f.Location != "" && c.Location != f.Location {
		return false
	}
	return true
}

// window returns the [start, end) bounds of page over n items.
func (p Page) window(n int) (int, int) {
	start := n
	if p.Skip < int64(n) {
		start = int(p.Skip)
	}
	end := n
	if p.Limit > 0 && p.Limit < int64(n-start) {
		end = start + int(p.Limit)
	}
	return start, end
}
