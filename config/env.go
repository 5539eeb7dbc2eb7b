package config

import (
	"os"

	"github.com/gin-gonic/gin"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	// Other environments are set via ENV variable
	switch env := os.Getenv("ENV"); env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// GinMode maps the runtime environment onto a gin mode
func GinMode() string {
	switch GetEnvironment() {
	case Production:
		return gin.ReleaseMode
	case Test, CI:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
