package service

import (
	"context"

	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
	"github.com/pageza/recipe-service/internal/types"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, req types.CreateRecipeRequest) (*model.Recipe, error)
	ListRecipes(ctx context.Context, params query.ListParams) (*query.RecipePage, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
