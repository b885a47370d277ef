package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/malazinvestment/backend/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCompanyStore is an in-memory CompanyRepository for development and
// tests. Documents are kept in insertion order, which matches identity order.
type MemoryCompanyStore struct {
	mu        sync.RWMutex
	companies map[primitive.ObjectID]*model.Company
	order     []primitive.ObjectID
}

func NewMemoryCompanyStore() *MemoryCompanyStore {
	return &MemoryCompanyStore{
		companies: make(map[primitive.ObjectID]*model.Company),
	}
}

func (s *MemoryCompanyStore) Create(_ context.Context, company *model.Company) (primitive.ObjectID, error) {
	stored, err := clone(company)
	if err != nil {
		return primitive.NilObjectID, err
	}
	stored.ID = primitive.NewObjectID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return stored.ID, nil
}

func (s *MemoryCompanyStore) Get(_ context.Context, id primitive.ObjectID) (*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c)
}

func (s *MemoryCompanyStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[id]
	if !ok {
		return ErrNotFound
	}
	updated, err := applySet(c, fields)
	if err != nil {
		return err
	}
	updated.ID = id
	s.companies[id] = updated
	return nil
}

func (s *MemoryCompanyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return ErrNotFound
	}
	delete(s.companies, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryCompanyStore) List(_ context.Context, filter CompanyFilter, page Page) ([]model.Company, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Company
	for _, id := range s.order {
		if c := s.companies[id]; filter.Match(c) {
			matched = append(matched, c)
		}
	}

	start, end := page.window(len(matched))
	result := make([]model.Company, 0, end-start)
	for _, c := range matched[start:end] {
		cp, err := clone(c)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *cp)
	}
	return result, int64(len(matched)), nil
}

// Count returns the number of companies in the store
func (s *MemoryCompanyStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.companies)
}

// MemoryUserStore is an in-memory UserRepository
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*model.User
	order []primitive.ObjectID
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[primitive.ObjectID]*model.User),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	stored := *user
	stored.ID = primitive.NewObjectID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	return stored.ID, nil
}

func (s *MemoryUserStore) Get(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.users[id])
	}
	return result, nil
}

func (s *MemoryUserStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated, err := applySet(u, fields)
	if err != nil {
		return nil, err
	}
	updated.ID = id
	s.users[id] = updated
	cp := *updated
	return &cp, nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// clone deep-copies a document through its BSON encoding so callers never
// share nested slices with the store.
func clone[T any](doc *T) (*T, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var out T
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &out, nil
}

// applySet mirrors a MongoDB $set of top-level fields on doc.
func applySet[T any](doc *T, fields bson.M) (*T, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	for k, v := range fields {
		raw[k] = v
	}
	data, err = bson.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}
	var out T
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to apply update: %w", err)
	}
	return &out, nil
}
