package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines the values that must be present in an environment.
type ConfigRequirements struct {
	RequiredFields []string
	// AllowSQLite is false where the data must live in a shared database.
	AllowSQLite bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequiredFields: []string{"SERVER_PORT", "JWT_SECRET"},
		AllowSQLite:    true,
	},
	Test: {
		RequiredFields: []string{"SERVER_PORT", "JWT_SECRET"},
		AllowSQLite:    true,
	},
	CI: {
		RequiredFields: []string{"SERVER_PORT", "DB_PASSWORD", "JWT_SECRET"},
		AllowSQLite:    true,
	},
	Production: {
		RequiredFields: []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD", "JWT_SECRET", "REDIS_URL"},
	},
}

func fieldValue(cfg *Config, field string) string {
	switch field {
	case "SERVER_PORT":
		return cfg.ServerPort
	case "DB_HOST":
		return cfg.DBHost
	case "DB_NAME":
		return cfg.DBName
	case "DB_USER":
		return cfg.DBUser
	case "DB_PASSWORD":
		if cfg.DBDriver == DriverSQLite {
			return "-"
		}
		return cfg.DBPassword
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "REDIS_URL":
		return cfg.RedisURL
	default:
		return ""
	}
}

// ValidateConfig checks if the configuration meets the requirements for its environment.
// All problems are reported together.
func ValidateConfig(cfg *Config) error {
	reqs, ok := requirements[cfg.Environment]
	if !ok {
		return ValidationError{Field: "ENV", Message: fmt.Sprintf("unknown environment %q", cfg.Environment)}
	}

	var errs []error
	for _, field := range reqs.RequiredFields {
		if fieldValue(cfg, field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	switch cfg.DBDriver {
	case DriverPostgres:
	case DriverSQLite:
		if !reqs.AllowSQLite {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in " + string(cfg.Environment)})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.Environment == Production && cfg.JWTSecret == devJWTSecret {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must not use the development default"})
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TOKEN_TTL", Message: "must be positive"})
	}

	return errors.Join(errs...)
}
