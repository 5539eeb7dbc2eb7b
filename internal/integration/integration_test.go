package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-service/internal/api"
	"github.com/pageza/recipe-service/internal/middleware"
	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
	"github.com/pageza/recipe-service/internal/router"
	"github.com/pageza/recipe-service/internal/service"
	"github.com/pageza/recipe-service/internal/store"
	"github.com/pageza/recipe-service/internal/testhelpers"
)

// Each backend runs the same HTTP flow end to end

func TestPostgresBackend(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	runRecipeFlow(t, store.NewGormStore(db), nil)
}

func TestMongoBackend(t *testing.T) {
	coll := testhelpers.SetupMongoCollection(t)
	runRecipeFlow(t, store.NewMongoStore(coll), nil)
}

func TestMongoBackendWithRedisRateLimit(t *testing.T) {
	coll := testhelpers.SetupMongoCollection(t)
	redisClient := testhelpers.SetupRedis(t)
	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{Window: time.Hour, Limit: 100})
	runRecipeFlow(t, store.NewMongoStore(coll), limiter)
}

func runRecipeFlow(t *testing.T, s store.RecipeStore, limiter middleware.Limiter) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewRecipeService(s, nil)
	r := router.SetupRouter(router.Options{
		Recipes: api.NewRecipeHandler(svc, nil),
		Health:  svc,
		Limiter: limiter,
	})

	w := request(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ids []string
	for i, name := range []string{"Pizza Margherita", "Pizza Marinara", "Pasta 50% Off"} {
		w := request(t, r, http.MethodPost, "/api/recipe/create", map[string]interface{}{
			"name":        name,
			"ingredients": []string{"flour", fmt.Sprintf("topping-%d", i)},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		created := successRecipe(t, w)
		assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
		ids = append(ids, created.ID)
	}

	page := successPage(t, request(t, r, http.MethodGet, "/api/recipe/?name=PIZZA&limit=1&page=2", nil))
	assert.Equal(t, int64(2), page.TotalRecipes)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Pizza Marinara", page.Recipes[0].Name)
	assert.False(t, page.HasNextPage)

	page = successPage(t, request(t, r, http.MethodGet, "/api/recipe/?name=50%25", nil))
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, ids[2], page.Recipes[0].ID)

	page = successPage(t, request(t, r, http.MethodGet, "/api/recipe/?ingredient=topping-1", nil))
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, ids[1], page.Recipes[0].ID)

	before := successRecipe(t, request(t, r, http.MethodGet, "/api/recipe/"+ids[0], nil))
	w = request(t, r, http.MethodPut, "/api/recipe/update/"+ids[0], map[string]interface{}{"ingredients": []string{"dough"}})
	require.Equal(t, http.StatusOK, w.Code)
	after := successRecipe(t, request(t, r, http.MethodGet, "/api/recipe/"+ids[0], nil))
	assert.Equal(t, model.StringArray{"dough"}, after.Ingredients)
	assert.Equal(t, before.Name, after.Name)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.Version+1, after.Version)

	w = request(t, r, http.MethodGet, "/api/recipe/not-an-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, id := range ids {
		assert.Equal(t, http.StatusOK, request(t, r, http.MethodDelete, "/api/recipe/delete/"+id, nil).Code)
		assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodDelete, "/api/recipe/delete/"+id, nil).Code)
		assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodGet, "/api/recipe/"+id, nil).Code)
	}

	page = successPage(t, request(t, r, http.MethodGet, "/api/recipe/", nil))
	assert.Equal(t, int64(0), page.TotalRecipes)
	assert.Empty(t, page.Recipes)
}

func request(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func successRecipe(t *testing.T, w *httptest.ResponseRecorder) model.Recipe {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Success model.Recipe `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Success
}

func successPage(t *testing.T, w *httptest.ResponseRecorder) query.RecipePage {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Success query.RecipePage `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Success
}
