package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-service/internal/query"
	"github.com/pageza/recipe-service/internal/service"
	"github.com/pageza/recipe-service/internal/types"
)

const (
	MsgInvalidBody = "Request body must be a valid JSON object"
	MsgUpdated     = "Recipe has been updated."
	MsgDeleted     = "Recipe has been deleted"
)

// RecipeHandler serves the recipe CRUD routes
type RecipeHandler struct {
	recipes service.IRecipeService
	logger  *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.IRecipeService, logger *slog.Logger) *RecipeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeHandler{
		recipes: recipes,
		logger:  logger.With("component", "recipe_handler"),
	}
}

// CreateRecipe handles POST /api/recipe/create
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if _, err := decodeBody(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: recipe})
}

// ListRecipes handles GET /api/recipe/
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params := query.ParseListParams(c.Request.URL.Query())

	page, err := h.recipes.ListRecipes(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: page})
}

// GetRecipe handles GET /api/recipe/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: recipe})
}

// UpdateRecipe handles PUT /api/recipe/update/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.UpdateRecipeRequest
	present, err := decodeBody(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
		return
	}
	if !present {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: service.MsgDataRequired})
		return
	}

	if _, err := h.recipes.UpdateRecipe(c.Request.Context(), c.Param("id"), req.Patch()); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: MsgUpdated})
}

// DeleteRecipe handles DELETE /api/recipe/delete/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: MsgDeleted})
}

// decodeBody unmarshals the request body into dst. An absent or blank body
// leaves dst untouched and reports present=false.
func decodeBody(c *gin.Context, dst interface{}) (bool, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return false, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, err
	}
	return true, nil
}

func (h *RecipeHandler) writeError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		storageErr    *service.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &storageErr):
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", storageErr.Unwrap(),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: storageErr.Message})
	default:
		h.logger.ErrorContext(c.Request.Context(), "unclassified error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}
