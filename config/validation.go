package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var configValidate = validator.New()

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var problems []ValidationError

	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, ValidationError{Field: fe.Field(), Message: describe(fe)})
		}
	}

	// Outside development the postgres password must be supplied explicitly
	env := GetEnvironment()
	if cfg.StoreDriver == DriverPostgres && cfg.DBPassword == "" && (env == CI || env == Production) {
		source := "db_password secret"
		if env == CI {
			source = "DB_PASSWORD environment variable"
		}
		problems = append(problems, ValidationError{Field: "DBPassword", Message: source + " is required"})
	}

	if len(problems) == 0 {
		return nil
	}

	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.Error()
	}
	return fmt.Errorf("invalid configuration:\n%s", strings.Join(lines, "\n"))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required when %s", strings.Replace(fe.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "numeric":
		return fmt.Sprintf("must be numeric, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
}
