package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
)

// MockRecipeStore is a mock implementation of store.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockRecipeStore) Create(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

// Find mocks the Find method
func (m *MockRecipeStore) Find(ctx context.Context, filter query.Filter, skip int64, limit int) ([]model.Recipe, int64, error) {
	args := m.Called(ctx, filter, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Recipe), args.Get(1).(int64), args.Error(2)
}

// FindByID mocks the FindByID method
func (m *MockRecipeStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// FindByIDAndUpdate mocks the FindByIDAndUpdate method
func (m *MockRecipeStore) FindByIDAndUpdate(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// FindByIDAndRemove mocks the FindByIDAndRemove method
func (m *MockRecipeStore) FindByIDAndRemove(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Ping mocks the Ping method
func (m *MockRecipeStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
