package store

import (
	"context"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/database"
)

// CloseFunc releases the connections behind a store
type CloseFunc func(context.Context) error

// Open connects the backend selected by cfg.StoreDriver. SQL backends are
// migrated from migrationsDir before use.
func Open(ctx context.Context, cfg *config.Config, migrationsDir string) (RecipeStore, CloseFunc, error) {
	if cfg.StoreDriver == config.DriverMongo {
		client, err := database.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closer := func(ctx context.Context) error { return client.Disconnect(ctx) }
		return NewMongoStore(database.RecipeCollection(client, cfg)), closer, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db, migrationsDir); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	closer := func(context.Context) error { return database.Close(db) }
	return NewGormStore(db), closer, nil
}
