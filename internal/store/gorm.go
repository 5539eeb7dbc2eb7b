package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-service/internal/database"
	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, case-folded
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// GormStore keeps recipes in a relational table through gorm. Postgres stores
// ingredients as jsonb, sqlite as JSON text.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore instance
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new recipe
func (s *GormStore) Create(ctx context.Context, recipe *model.Recipe) error {
	now := storeNow(sqlPrecision)
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate recipe id: %w", err)
	}
	recipe.ID = id.String()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	recipe.Version = 0
	if recipe.Ingredients == nil {
		recipe.Ingredients = model.StringArray{}
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// Find lists recipes matching filter in insertion order
func (s *GormStore) Find(ctx context.Context, filter query.Filter, skip int64, limit int) ([]model.Recipe, int64, error) {
	var total int64
	if err := s.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	recipes := []model.Recipe{}
	if total == 0 || skip >= total || limit <= 0 {
		return recipes, total, nil
	}

	err := s.filtered(ctx, filter).
		Order("created_at ASC").
		Order("id ASC").
		Offset(int(skip)).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find recipes: %w", err)
	}
	return recipes, total, nil
}

// filtered starts a fresh query with the filter's predicates applied
func (s *GormStore) filtered(ctx context.Context, filter query.Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Recipe{})

	postgres := s.db.Dialector.Name() == "postgres"
	lower := "LOWER"
	if !postgres {
		lower = database.SQLiteLowerFunc
	}

	if filter.Name != "" {
		q = q.Where(lower+`(name) LIKE ? ESCAPE '\'`, containsPattern(filter.Name))
	}

	if filter.Ingredient != "" {
		like := containsPattern(filter.Ingredient)
		if postgres {
			q = q.Where(`EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.ingredients) AS ing(value) WHERE LOWER(ing.value) LIKE ? ESCAPE '\')`, like)
		} else {
			q = q.Where(`EXISTS (SELECT 1 FROM json_each(recipes.ingredients) WHERE `+lower+`(json_each.value) LIKE ? ESCAPE '\')`, like)
		}
	}

	return q
}

// FindByID retrieves a recipe by ID
func (s *GormStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	key, ok := parseUUID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", key).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &recipe, nil
}

// FindByIDAndUpdate applies a partial update, bumping updatedAt and the version
func (s *GormStore) FindByIDAndUpdate(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	key, ok := parseUUID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var updated model.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Recipe
		if err := tx.First(&current, "id = ?", key).Error; err != nil {
			return translateGormError(err)
		}

		updates := map[string]interface{}{
			"updated_at": nextUpdatedAt(current.UpdatedAt, sqlPrecision),
			"version":    gorm.Expr("version + ?", 1),
		}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Ingredients != nil {
			updates["ingredients"] = model.StringArray(*patch.Ingredients)
		}

		res := tx.Model(&model.Recipe{}).Where("id = ?", key).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.First(&updated, "id = ?", key).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipe %s: %w", id, err)
	}
	return &updated, nil
}

// FindByIDAndRemove deletes a recipe, returning the removed row
func (s *GormStore) FindByIDAndRemove(ctx context.Context, id string) (*model.Recipe, error) {
	key, ok := parseUUID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var removed model.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&removed, "id = ?", key).Error; err != nil {
			return translateGormError(err)
		}
		res := tx.Delete(&model.Recipe{}, "id = ?", key)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete recipe %s: %w", id, err)
	}
	return &removed, nil
}

// Ping checks that the database is reachable
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func parseUUID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// sqlPrecision is the finest timestamp resolution postgres round-trips
const sqlPrecision = time.Microsecond

// storeNow is the timestamp source for the backends, truncated to what the
// backend can store so values read back compare equal to values written
func storeNow(precision time.Duration) time.Time {
	return time.Now().UTC().Truncate(precision)
}

// nextUpdatedAt returns a timestamp strictly after previous so that two
// writes inside one tick still move updatedAt forward
func nextUpdatedAt(previous time.Time, precision time.Duration) time.Time {
	now := storeNow(precision)
	if !now.After(previous) {
		return previous.Add(precision)
	}
	return now
}
