package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pageza/recipe-service/internal/api"
	"github.com/pageza/recipe-service/internal/middleware"
)

// Options carries everything the route table needs
type Options struct {
	Recipes     *api.RecipeHandler
	Health      api.Pinger
	Limiter     middleware.Limiter // nil disables rate limiting
	Logger      *slog.Logger
	CORSOrigins []string
	ServiceName string // enables tracing spans when set
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(opts.Logger))
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/health", api.HealthCheck(opts.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Only the mutating routes are rate limited
	var limited []gin.HandlerFunc
	if opts.Limiter != nil {
		limited = append(limited, middleware.RateLimit(opts.Limiter, opts.Logger))
	}

	recipes := router.Group("/api/recipe")
	{
		recipes.POST("/create", append(limited, opts.Recipes.CreateRecipe)...)
		recipes.GET("", opts.Recipes.ListRecipes)
		recipes.GET("/", opts.Recipes.ListRecipes)
		recipes.GET("/:id", opts.Recipes.GetRecipe)
		recipes.PUT("/update/:id", append(limited, opts.Recipes.UpdateRecipe)...)
		recipes.DELETE("/delete/:id", append(limited, opts.Recipes.DeleteRecipe)...)
	}

	return router
}
