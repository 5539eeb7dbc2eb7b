package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
	"github.com/pageza/recipe-service/internal/store"
	"github.com/pageza/recipe-service/internal/types"
)

// Client-facing messages
const (
	MsgNameRequired        = "Name can not be empty!"
	MsgIngredientsRequired = "Ingredients can not be empty!"
	MsgDataRequired        = "Data can not be empty!"
	MsgCreateFailed        = "Some error occurred while creating the Recipe."
	MsgListFailed          = "Error while retrieving recipes"
)

// RecipeService handles recipe operations
type RecipeService struct {
	store  store.RecipeStore
	logger *slog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s store.RecipeStore, logger *slog.Logger) *RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{
		store:  s,
		logger: logger.With("component", "recipe_service"),
	}
}

var _ IRecipeService = (*RecipeService)(nil)

// CreateRecipe validates and persists a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, req types.CreateRecipeRequest) (*model.Recipe, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Message: MsgNameRequired}
	}
	if len(req.Ingredients) == 0 {
		return nil, &ValidationError{Message: MsgIngredientsRequired}
	}

	recipe := &model.Recipe{
		Name:        req.Name,
		Description: req.Description,
		Ingredients: model.StringArray(req.Ingredients),
	}
	if err := s.store.Create(ctx, recipe); err != nil {
		s.logger.ErrorContext(ctx, "create recipe failed", "error", err)
		msg := err.Error()
		if msg == "" {
			msg = MsgCreateFailed
		}
		return nil, &StorageError{Message: msg, Err: err}
	}

	s.logger.DebugContext(ctx, "recipe created", "id", recipe.ID)
	return recipe, nil
}

// ListRecipes returns one page of recipes matching the filter
func (s *RecipeService) ListRecipes(ctx context.Context, params query.ListParams) (*query.RecipePage, error) {
	p := params.Pagination
	recipes, total, err := s.store.Find(ctx, params.Filter, p.Skip(), p.Limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "list recipes failed", "error", err, "name", params.Filter.Name, "ingredient", params.Filter.Ingredient)
		return nil, &StorageError{Message: MsgListFailed, Err: err}
	}

	page := query.NewRecipePage(recipes, total, p)
	return &page, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err, id, "Error while retrieving recipe with id "+id)
	}
	return recipe, nil
}

// UpdateRecipe applies a partial update. Only the presence of some field is
// checked; the supplied values are stored as given.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	if patch.IsEmpty() {
		return nil, &ValidationError{Message: MsgDataRequired}
	}

	recipe, err := s.store.FindByIDAndUpdate(ctx, id, patch)
	if err != nil {
		return nil, s.translate(ctx, err, id, "Error while updating recipe with id "+id)
	}
	return recipe, nil
}

// DeleteRecipe permanently removes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.store.FindByIDAndRemove(ctx, id); err != nil {
		return s.translate(ctx, err, id, "Error while deleting recipe with id "+id)
	}
	return nil
}

// Ping checks the backing store
func (s *RecipeService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *RecipeService) translate(ctx context.Context, err error, id, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	s.logger.ErrorContext(ctx, "recipe storage failure", "id", id, "error", err)
	return &StorageError{Message: msg, Err: err}
}
