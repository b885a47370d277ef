package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/malazinvestment/backend/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCompanyStoreCreateAndGet(t *testing.T) {
	store := NewMemoryCompanyStore()
	ctx := context.Background()

	company := &model.Company{
		Name:      "Acme Corp",
		Revenue:   1000,
		Investors: []model.KeyValuePair{{Key: "Lead", Value: "Fund A"}},
	}

	id, err := store.Create(ctx, company)
	if err != nil {
		t.Fatalf("Failed to create company: %v", err)
	}
	if id.IsZero() {
		t.Fatal("Expected generated id")
	}

	retrieved, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Expected to retrieve company: %v", err)
	}
	if retrieved.Name != "Acme Corp" || retrieved.Revenue != 1000 {
		t.Errorf("Unexpected company %+v", retrieved)
	}
	if retrieved.ID != id {
		t.Errorf("Expected id %s, got %s", id.Hex(), retrieved.ID.Hex())
	}

	// Stored copy is isolated from the caller's value
	company.Investors[0].Value = "changed"
	again, _ := store.Get(ctx, id)
	if again.Investors[0].Value != "Fund A" {
		t.Errorf("Expected stored investors to be unaffected, got %s", again.Investors[0].Value)
	}

	if _, err := store.Get(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCompanyStoreUpdate(t *testing.T) {
	store := NewMemoryCompanyStore()
	ctx := context.Background()

	id, _ := store.Create(ctx, &model.Company{Name: "Old", Category: "Tech", Revenue: 5})

	err := store.Update(ctx, id, bson.M{
		"name":      "New",
		"investors": []model.KeyValuePair{{Key: "k", Value: "v"}},
	})
	if err != nil {
		t.Fatalf("Failed to update: %v", err)
	}

	got, _ := store.Get(ctx, id)
	if got.Name != "New" {
		t.Errorf("Expected name New, got %s", got.Name)
	}
	if got.Category != "Tech" || got.Revenue != 5 {
		t.Errorf("Expected untouched fields to survive, got %+v", got)
	}
	if len(got.Investors) != 1 || got.Investors[0].Key != "k" {
		t.Errorf("Expected investors to be replaced, got %+v", got.Investors)
	}

	if err := store.Update(ctx, primitive.NewObjectID(), bson.M{"name": "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCompanyStoreDelete(t *testing.T) {
	store := NewMemoryCompanyStore()
	ctx := context.Background()

	id, _ := store.Create(ctx, &model.Company{Name: "delete-me"})

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Expected delete to succeed: %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected second delete to return ErrNotFound, got %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("Expected empty store, got %d", store.Count())
	}
}

func TestMemoryCompanyStoreList(t *testing.T) {
	store := NewMemoryCompanyStore()
	ctx := context.Background()

	for _, c := range []model.Company{
		{Name: "Acme Corp", Category: "Tech", Location: "Dubai"},
		{Name: "ACME Holdings", Category: "Finance", Location: "Dubai"},
		{Name: "Globex", Category: "Tech", Location: "Riyadh"},
		{Name: "little acme", Category: "Tech", Location: "Dubai"},
	} {
		c := c
		store.Create(ctx, &c)
	}

	tests := []struct {
		name   string
		filter CompanyFilter
		want   []string
	}{
		{"no filter", CompanyFilter{}, []string{"Acme Corp", "ACME Holdings", "Globex", "little acme"}},
		{"search is case-insensitive", CompanyFilter{Search: "Acme"}, []string{"Acme Corp", "ACME Holdings", "little acme"}},
		{"search with category", CompanyFilter{Search: "acme", Category: "Tech"}, []string{"Acme Corp", "little acme"}},
		{"location", CompanyFilter{Location: "Riyadh"}, []string{"Globex"}},
		{"no match", CompanyFilter{Size: "Large"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := store.List(ctx, tt.filter, Page{})
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if int(total) != len(tt.want) {
				t.Errorf("Expected total %d, got %d", len(tt.want), total)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d companies, got %d", len(tt.want), len(got))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("Position %d: expected %s, got %s", i, name, got[i].Name)
				}
			}
		})
	}
}

func TestMemoryCompanyStorePagination(t *testing.T) {
	store := NewMemoryCompanyStore()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		store.Create(ctx, &model.Company{Name: fmt.Sprintf("company-%d", i)})
	}

	all, _, _ := store.List(ctx, CompanyFilter{}, Page{})

	var paged []model.Company
	for skip := int64(0); ; skip += 3 {
		page, total, err := store.List(ctx, CompanyFilter{}, Page{Limit: 3, Skip: skip})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 7 {
			t.Errorf("Expected total 7 regardless of page, got %d", total)
		}
		if len(page) == 0 {
			break
		}
		paged = append(paged, page...)
	}

	if len(paged) != len(all) {
		t.Fatalf("Expected %d companies across pages, got %d", len(all), len(paged))
	}
	for i := range all {
		if paged[i].ID != all[i].ID {
			t.Errorf("Position %d: pages diverge from unpaginated listing", i)
		}
	}

	beyond, _, _ := store.List(ctx, CompanyFilter{}, Page{Limit: 3, Skip: 100})
	if len(beyond) != 0 {
		t.Errorf("Expected empty page past the end, got %d", len(beyond))
	}
}

func TestMemoryUserStore(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &model.User{Username: "ops", Password: "hash", Role: "admin"})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	users, _ := store.List(ctx)
	if len(users) != 1 || users[0].ID != id {
		t.Fatalf("Expected one listed user, got %+v", users)
	}

	updated, err := store.Update(ctx, id, bson.M{"role": "user"})
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.Role != "user" || updated.Username != "ops" || updated.Password != "hash" {
		t.Errorf("Unexpected updated user %+v", updated)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), bson.M{"role": "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
