package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/server"
	"github.com/pageza/recipe-service/internal/service"
	"github.com/pageza/recipe-service/internal/store"
	"github.com/pageza/recipe-service/internal/types"
)

func main() {
	file := flag.String("file", "seed/recipes.json", "JSON array of recipes to insert")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := server.NewLogger(cfg)

	recipes, err := loadRecipes(*file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	recipeStore, closeStore, err := store.Open(ctx, cfg, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	svc := service.NewRecipeService(recipeStore, logger)

	created, skipped := 0, 0
	for i, req := range recipes {
		recipe, err := svc.CreateRecipe(ctx, req)
		if err != nil {
			logger.Warn("skipping recipe", "index", i, "name", req.Name, "error", err)
			skipped++
			continue
		}
		logger.Info("seeded recipe", "id", recipe.ID, "name", recipe.Name)
		created++
	}

	fmt.Printf("Seeded %d recipes (%d skipped)\n", created, skipped)
}

func loadRecipes(path string) ([]types.CreateRecipeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recipes []types.CreateRecipeRequest
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recipes, nil
}
