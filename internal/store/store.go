// Package store holds the persistence backends for recipes. Every backend
// assigns identifiers, maintains createdAt/updatedAt and the version marker,
// and reports both missing and malformed identifiers as ErrNotFound.
package store

import (
	"context"
	"errors"

	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
)

// ErrNotFound is returned when no recipe matches the given identifier
var ErrNotFound = errors.New("recipe not found")

// RecipeStore is the storage surface the recipe service consumes
type RecipeStore interface {
	// Create persists recipe and fills in its ID, timestamps and version
	Create(ctx context.Context, recipe *model.Recipe) error
	// Find returns up to limit records matching filter after skipping skip
	// of them, together with the total number of matches
	Find(ctx context.Context, filter query.Filter, skip int64, limit int) ([]model.Recipe, int64, error)
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	// FindByIDAndUpdate applies patch and returns the updated record
	FindByIDAndUpdate(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error)
	// FindByIDAndRemove deletes the record and returns what was removed
	FindByIDAndRemove(ctx context.Context, id string) (*model.Recipe, error)
	Ping(ctx context.Context) error
}
