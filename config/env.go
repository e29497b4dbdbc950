package config

import "os"

// Environment is the runtime environment the service is deployed in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment resolves the environment from CI=true or the ENV variable,
// defaulting to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}
