// Package query turns list-endpoint query strings into an immutable filter
// and pagination window, and shapes matched records into a page object.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/recipe-service/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// Filter selects recipes for listing. Empty fields impose no constraint, so
// the zero value matches every record. Matching is a case-insensitive
// substring test against the literal text.
type Filter struct {
	Name       string
	Ingredient string
}

// IsEmpty reports whether the filter matches everything
func (f Filter) IsEmpty() bool {
	return f.Name == "" && f.Ingredient == ""
}

// Pagination is a 1-based page window
type Pagination struct {
	Page  int
	Limit int
}

// Skip is the number of matching records before the first one on the page
func (p Pagination) Skip() int64 {
	page, limit := int64(p.Page), int64(p.Limit)
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}

// ListParams is everything the list endpoint reads from the query string
type ListParams struct {
	Filter     Filter
	Pagination Pagination
}

// ParseListParams reads name, ingredient, page and limit. Filter text is kept
// verbatim, surrounding whitespace included. Page and limit fall back to
// their defaults when missing, malformed or not positive.
func ParseListParams(values url.Values) ListParams {
	return ListParams{
		Filter: Filter{
			Name:       values.Get("name"),
			Ingredient: values.Get("ingredient"),
		},
		Pagination: Pagination{
			Page:  positiveInt(values.Get("page"), DefaultPage),
			Limit: positiveInt(values.Get("limit"), DefaultLimit),
		},
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// RecipePage is the paginated list result
type RecipePage struct {
	Recipes       []model.Recipe `json:"recipes"`
	TotalRecipes  int64          `json:"totalRecipes"`
	Limit         int            `json:"limit"`
	Page          int            `json:"page"`
	TotalPages    int64          `json:"totalPages"`
	PagingCounter int64          `json:"pagingCounter"`
	HasPrevPage   bool           `json:"hasPrevPage"`
	HasNextPage   bool           `json:"hasNextPage"`
	PrevPage      *int           `json:"prevPage"`
	NextPage      *int           `json:"nextPage"`
}

// NewRecipePage computes page metadata for one window of a result set of
// size total
func NewRecipePage(recipes []model.Recipe, total int64, p Pagination) RecipePage {
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	limit := int64(p.Limit)
	totalPages := int64(1)
	if limit > 0 && total > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}

	page := RecipePage{
		Recipes:       recipes,
		TotalRecipes:  total,
		Limit:         p.Limit,
		Page:          p.Page,
		TotalPages:    totalPages,
		PagingCounter: pagingCounter(p),
		HasPrevPage:   p.Page > 1,
		HasNextPage:   int64(p.Page) < totalPages,
	}
	if page.HasPrevPage {
		prev := p.Page - 1
		page.PrevPage = &prev
	}
	if page.HasNextPage {
		next := p.Page + 1
		page.NextPage = &next
	}
	return page
}

func pagingCounter(p Pagination) int64 {
	skip := p.Skip()
	if skip == math.MaxInt64 {
		return skip
	}
	return skip + 1
}
