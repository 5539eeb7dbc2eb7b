package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/pageza/recipe-service/config"
)

// NewMongoClient connects to MongoDB and verifies the primary is reachable
func NewMongoClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	slog.Info("successfully connected to MongoDB", "database", cfg.MongoDatabase)
	return client, nil
}

// RecipeCollection returns the configured recipe collection
func RecipeCollection(client *mongo.Client, cfg *config.Config) *mongo.Collection {
	return client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
}
