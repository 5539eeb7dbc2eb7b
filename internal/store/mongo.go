package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/pageza/recipe-service/internal/model"
	"github.com/pageza/recipe-service/internal/query"
)

// mongoPrecision is the resolution of BSON datetimes
const mongoPrecision = time.Millisecond

// recipeDocument is the stored shape of a recipe in MongoDB
type recipeDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Ingredients []string      `bson:"ingredients"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
	Version     int64         `bson:"__v"`
}

func (d recipeDocument) toModel() model.Recipe {
	ingredients := model.StringArray(d.Ingredients)
	if ingredients == nil {
		ingredients = model.StringArray{}
	}
	return model.Recipe{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Ingredients: ingredients,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		Version:     d.Version,
	}
}

// MongoStore keeps recipes as documents in a single collection
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a new MongoStore instance
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Create inserts a new recipe document
func (s *MongoStore) Create(ctx context.Context, recipe *model.Recipe) error {
	now := storeNow(mongoPrecision)
	ingredients := []string(recipe.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	doc := recipeDocument{
		ID:          bson.NewObjectID(),
		Name:        recipe.Name,
		Description: recipe.Description,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	*recipe = doc.toModel()
	return nil
}

// Find lists recipes matching filter in insertion order
func (s *MongoStore) Find(ctx context.Context, filter query.Filter, skip int64, limit int) ([]model.Recipe, int64, error) {
	match := matchFilter(filter)

	total, err := s.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	recipes := []model.Recipe{}
	if total == 0 || skip >= total || limit <= 0 {
		return recipes, total, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, match, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find recipes: %w", err)
	}

	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode recipes: %w", err)
	}
	for _, d := range docs {
		recipes = append(recipes, d.toModel())
	}
	return recipes, total, nil
}

// matchFilter translates a list filter into a conjunctive match document.
// Filter text is quoted so it is matched literally.
func matchFilter(filter query.Filter) bson.D {
	match := bson.D{}
	if filter.Name != "" {
		match = append(match, bson.E{Key: "name", Value: containsRegex(filter.Name)})
	}
	if filter.Ingredient != "" {
		// a regex against an array field matches when any element matches
		match = append(match, bson.E{Key: "ingredients", Value: containsRegex(filter.Ingredient)})
	}
	return match
}

func containsRegex(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// FindByID retrieves a recipe by its ObjectID hex string
func (s *MongoStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc recipeDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "find recipe "+id)
	}
	recipe := doc.toModel()
	return &recipe, nil
}

// FindByIDAndUpdate applies a partial update in a single round trip. The
// update pipeline moves updatedAt strictly forward and bumps __v.
func (s *MongoStore) FindByIDAndUpdate(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.D{
		{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{
			storeNow(mongoPrecision),
			bson.D{{Key: "$add", Value: bson.A{"$updatedAt", 1}}},
		}}}},
		{Key: "__v", Value: bson.D{{Key: "$add", Value: bson.A{"$__v", 1}}}},
	}
	// values go through $literal so user text starting with "$" is not read as a field path
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: literal(*patch.Name)})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: literal(*patch.Description)})
	}
	if patch.Ingredients != nil {
		ingredients := *patch.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		set = append(set, bson.E{Key: "ingredients", Value: literal(ingredients)})
	}

	update := mongo.Pipeline{{{Key: "$set", Value: set}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc recipeDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		return nil, translateMongoError(err, "update recipe "+id)
	}
	recipe := doc.toModel()
	return &recipe, nil
}

// FindByIDAndRemove deletes a recipe document, returning what was removed
func (s *MongoStore) FindByIDAndRemove(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc recipeDocument
	if err := s.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "delete recipe "+id)
	}
	recipe := doc.toModel()
	return &recipe, nil
}

// Ping checks that the primary is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func literal(v interface{}) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

func translateMongoError(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
