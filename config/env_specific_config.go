package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadConfigForEnv loads config/config.<env>.yaml and applies environment
// overrides on top of it.
func LoadConfigForEnv(environment string) (*Config, error) {
	path, err := getConfigPath(Environment(environment))
	if err != nil {
		return nil, err
	}
	return LoadConfigFromFile(path)
}

// getConfigPath determines the path to the environment-specific config.
func getConfigPath(env Environment) (string, error) {
	configDir := "config"
	if os.Getenv("CONTAINER") == "true" {
		configDir = "/app/config"
	}

	var filename string
	switch env {
	case EnvDevelopment:
		filename = "config.development.yaml"
	case EnvStaging:
		filename = "config.staging.yaml"
	case EnvProduction:
		filename = "config.production.yaml"
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}

	path := filepath.Join(configDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("configuration file not found: %s", path)
	}
	return path, nil
}
