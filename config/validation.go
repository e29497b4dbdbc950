package config

import (
	"fmt"
	"strings"
)

// ValidationError reports a single missing or invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// required maps Config fields to the name an operator knows them by: the
// Docker secret file, or the CI environment variable.
type required struct {
	value      string
	secretName string
	ciEnvName  string
}

// ValidateConfig checks that every value the service cannot run without is
// present, reporting all missing values at once.
func ValidateConfig(cfg *Config) error {
	checks := []required{
		{cfg.ServerHost, "server_host", "SERVER_HOST"},
		{cfg.ServerPort, "server_port", "SERVER_PORT"},
		{cfg.DBHost, "db_host", "DB_HOST"},
		{cfg.DBPort, "db_port", "DB_PORT"},
		{cfg.DBUser, "db_user", "DB_USER"},
		{cfg.DBPassword, "db_password", "TEST_DB_PASSWORD"},
		{cfg.DBName, "db_name", "DB_NAME"},
		{cfg.DBSSLMode, "db_ssl_mode", "DB_SSL_MODE"},
		{cfg.JWTSecret, "jwt_secret", "TEST_JWT_SECRET"},
	}

	ci := GetEnvironment() == CI
	var errs []string
	for _, c := range checks {
		if c.value != "" {
			continue
		}
		if ci {
			errs = append(errs, ValidationError{c.ciEnvName, "environment variable is not set"}.Error())
		} else {
			errs = append(errs, ValidationError{c.secretName, "secret is not set"}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("missing configuration:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
