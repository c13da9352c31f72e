package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredEnvVars []string
	RequiredSecrets []string
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI: {
		RequiredEnvVars: []string{"JWT_SECRET"},
	},
	Production: {
		RequiredEnvVars: []string{
			"SERVER_PORT",
			"DB_HOST",
			"DB_NAME",
			"STORAGE_BUCKET",
		},
		RequiredSecrets: []string{
			"db_user",
			"db_password",
			"jwt_secret",
		},
	},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []error

	for _, envVar := range reqs.RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			errs = append(errs, ValidationError{Field: envVar, Message: "required environment variable is not set"})
		}
	}
	for _, secret := range reqs.RequiredSecrets {
		if readSecret(secret) == "" {
			errs = append(errs, ValidationError{Field: secret, Message: "required secret is not set"})
		}
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must not be empty"})
	}
	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "postgres driver needs DB_HOST and DB_NAME"})
		}
	case "sqlite":
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{Field: "DB_PATH", Message: "sqlite driver needs DB_PATH"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}
	switch cfg.StorageBackend {
	case "s3", "minio", "":
	default:
		errs = append(errs, ValidationError{Field: "STORAGE_BACKEND", Message: fmt.Sprintf("unsupported backend %q", cfg.StorageBackend)})
	}
	if cfg.ProbeTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "PROBE_TIMEOUT", Message: "must be positive"})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
