package types

import "github.com/pageza/recipe-service/internal/model"

// CreateRecipeRequest is the body of POST /api/recipe/create. Unknown
// fields are ignored.
type CreateRecipeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

// UpdateRecipeRequest is the body of PUT /api/recipe/update/:id. Absent or
// null fields are left untouched.
type UpdateRecipeRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Ingredients *[]string `json:"ingredients"`
}

// Patch converts the request into a store patch
func (r UpdateRecipeRequest) Patch() model.RecipePatch {
	return model.RecipePatch{
		Name:        r.Name,
		Description: r.Description,
		Ingredients: r.Ingredients,
	}
}
