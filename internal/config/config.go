// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig
	Firestore  FirestoreConfig
	Gateway    GatewayConfig
	Salesforce SalesforceConfig
}

// ServerConfig covers the HTTP listener and runtime environment.
type ServerConfig struct {
	Port        string
	Environment string
}

// FirestoreConfig covers the document store connection.
type FirestoreConfig struct {
	ProjectID                    string
	GoogleApplicationCredentials string
}

// GatewayConfig covers outbound calls to sibling microservices through the
// API gateway.
type GatewayConfig struct {
	URL               string
	MicroserviceToken string
}

// SalesforceConfig covers the CRM sync side channel.
type SalesforceConfig struct {
	IntegrationEnabled bool
}

// Load reads configuration from the environment. A .env file is honored when
// present; in deployed environments plain env vars are used.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Firestore: FirestoreConfig{
			ProjectID:                    getEnv("GCLOUD_PROJECT_ID", ""),
			GoogleApplicationCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Gateway: GatewayConfig{
			URL:               getEnv("GATEWAY_URL", ""),
			MicroserviceToken: getEnv("MICROSERVICE_TOKEN", ""),
		},
		Salesforce: SalesforceConfig{
			IntegrationEnabled: getEnvAsBool("SALESFORCE_INTEGRATION_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Production reports whether the service runs with production error masking.
func (c *Config) Production() bool {
	return c.Server.Environment == "prod" || c.Server.Environment == "production"
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("GCLOUD_PROJECT_ID is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
