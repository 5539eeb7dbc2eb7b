package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
)

// runRecipeStoreContract exercises the behaviour every backend must share
func runRecipeStoreContract(t *testing.T, newStore func(t *testing.T) RecipeStore) {
	t.Run("CreateAssignsIdentityAndTimestamps", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := &model.Recipe{Name: "Pizza", Ingredients: model.StringArray{"flour", "water"}}
		second := &model.Recipe{Name: "Pizza", Ingredients: model.StringArray{"flour"}}
		require.NoError(t, s.Create(ctx, first))
		require.NoError(t, s.Create(ctx, second))

		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, first.CreatedAt.IsZero())
		assert.True(t, first.CreatedAt.Equal(first.UpdatedAt))
		assert.Equal(t, int64(0), first.Version)
	})

	t.Run("FindByIDReturnsStoredRecord", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created := &model.Recipe{Name: "Soup", Description: "warm", Ingredients: model.StringArray{"leek", "potato"}}
		require.NoError(t, s.Create(ctx, created))

		got, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Soup", got.Name)
		assert.Equal(t, "warm", got.Description)
		assert.Equal(t, model.StringArray{"leek", "potato"}, got.Ingredients)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("MalformedIDIsNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.FindByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.FindByIDAndUpdate(ctx, "not-an-id", model.RecipePatch{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.FindByIDAndRemove(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("FindFiltersAndPaginates", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s,
			&model.Recipe{Name: "Pizza", Ingredients: model.StringArray{"Flour", "water"}},
			&model.Recipe{Name: "Pasta", Ingredients: model.StringArray{"flour", "eggs"}},
			&model.Recipe{Name: "Green Salad", Ingredients: model.StringArray{"lettuce"}},
		)

		all, total, err := s.Find(ctx, query.Filter{}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Pizza", "Pasta", "Green Salad"}, names(all))

		byName, total, err := s.Find(ctx, query.Filter{Name: "PIZ"}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"Pizza"}, names(byName))

		byIngredient, total, err := s.Find(ctx, query.Filter{Ingredient: "FLOUR"}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{"Pizza", "Pasta"}, names(byIngredient))

		both, total, err := s.Find(ctx, query.Filter{Name: "pa", Ingredient: "egg"}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"Pasta"}, names(both))

		window, total, err := s.Find(ctx, query.Filter{}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Pasta"}, names(window))

		past, total, err := s.Find(ctx, query.Filter{}, 30, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, past)
	})

	t.Run("FindMatchesFilterTextLiterally", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s,
			&model.Recipe{Name: "100% Rye", Ingredients: model.StringArray{"rye_flour"}},
			&model.Recipe{Name: "Plain", Ingredients: model.StringArray{"ryeXflour"}},
		)

		cases := []struct {
			filter query.Filter
			want   int64
		}{
			{query.Filter{Name: "%"}, 1},
			{query.Filter{Ingredient: "e_f"}, 1},
			{query.Filter{Name: "0."}, 0},
			{query.Filter{Name: ".*"}, 0},
		}
		for _, c := range cases {
			got, total, err := s.Find(ctx, c.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, c.want, total, "filter %+v", c.filter)
			assert.Len(t, got, int(total))
		}

		none, total, err := s.Find(ctx, query.Filter{Name: "dsasdadasdsadasdasdasdas"}, 0, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("FindKeepsInsertionOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var want []string
		for i := 0; i < 40; i++ {
			name := fmt.Sprintf("Recipe %02d", i)
			want = append(want, name)
			require.NoError(t, s.Create(ctx, &model.Recipe{Name: name, Ingredients: model.StringArray{"salt"}}))
		}

		all, total, err := s.Find(ctx, query.Filter{}, 0, len(want))
		require.NoError(t, err)
		assert.Equal(t, int64(len(want)), total)
		assert.Equal(t, want, names(all))
	})

	t.Run("FindFoldsUnicodeCase", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s,
			&model.Recipe{Name: "Ćevapi", Ingredients: model.StringArray{"Šljivovica", "lamb"}},
			&model.Recipe{Name: "Cevapi", Ingredients: model.StringArray{"beef"}},
		)

		cases := []struct {
			filter query.Filter
			want   []string
		}{
			{query.Filter{Name: "ćevapi"}, []string{"Ćevapi"}},
			{query.Filter{Name: "ĆEVAP"}, []string{"Ćevapi"}},
			{query.Filter{Ingredient: "šljiv"}, []string{"Ćevapi"}},
			{query.Filter{Ingredient: "ŠLJIVOVICA"}, []string{"Ćevapi"}},
			{query.Filter{Name: "cevapi"}, []string{"Cevapi"}},
		}
		for _, c := range cases {
			got, total, err := s.Find(ctx, c.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, int64(len(c.want)), total, "filter %+v", c.filter)
			assert.Equal(t, c.want, names(got), "filter %+v", c.filter)
		}
	})

	t.Run("UpdateAppliesPartialPatch", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created := &model.Recipe{Name: "Bread", Description: "crusty", Ingredients: model.StringArray{"flour"}}
		require.NoError(t, s.Create(ctx, created))

		updated, err := s.FindByIDAndUpdate(ctx, created.ID, model.RecipePatch{Name: strPtr("Sourdough")})
		require.NoError(t, err)
		assert.Equal(t, "Sourdough", updated.Name)
		assert.Equal(t, "crusty", updated.Description)
		assert.Equal(t, model.StringArray{"flour"}, updated.Ingredients)
		assert.Equal(t, int64(1), updated.Version)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		ingredients := []string{"flour", "starter", "salt"}
		again, err := s.FindByIDAndUpdate(ctx, created.ID, model.RecipePatch{Ingredients: &ingredients, Description: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, model.StringArray{"flour", "starter", "salt"}, again.Ingredients)
		assert.Equal(t, "", again.Description)
		assert.Equal(t, int64(2), again.Version)
		assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
	})

	t.Run("RemoveDeletesOnce", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created := &model.Recipe{Name: "Tea", Ingredients: model.StringArray{"leaves"}}
		require.NoError(t, s.Create(ctx, created))

		removed, err := s.FindByIDAndRemove(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, removed.ID)

		_, err = s.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.FindByIDAndRemove(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.FindByIDAndUpdate(ctx, created.ID, model.RecipePatch{Name: strPtr("Coffee")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func seed(t *testing.T, s RecipeStore, recipes ...*model.Recipe) {
	t.Helper()
	for _, r := range recipes {
		require.NoError(t, s.Create(context.Background(), r))
	}
}

func names(recipes []model.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
