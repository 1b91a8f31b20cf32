package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigPath(t *testing.T) {
	tests := []struct {
		name         string
		env          Environment
		inContainer  bool
		expectedPath string
		expectError  bool
	}{
		{"development", EnvDevelopment, false, filepath.Join("config", "config.development.yaml"), false},
		{"staging", EnvStaging, false, filepath.Join("config", "config.staging.yaml"), false},
		{"production", EnvProduction, false, filepath.Join("config", "config.production.yaml"), false},
		{"production in container", EnvProduction, true, filepath.Join("/app/config", "config.production.yaml"), true},
		{"unknown", Environment("qa"), false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			wd, err := os.Getwd()
			require.NoError(t, err)
			require.NoError(t, os.Chdir(dir))
			t.Cleanup(func() { _ = os.Chdir(wd) })

			if tt.inContainer {
				t.Setenv("CONTAINER", "true")
			} else {
				t.Setenv("CONTAINER", "")
				if tt.expectedPath != "" {
					require.NoError(t, os.MkdirAll("config", 0o755))
					require.NoError(t, os.WriteFile(tt.expectedPath, []byte("server:\n  port: \"8080\"\n"), 0o600))
				}
			}

			path, err := getConfigPath(tt.env)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPath, path)
		})
	}
}

func TestLoadConfigForEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONTAINER", "")

	require.NoError(t, os.MkdirAll("config", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("config", "config.staging.yaml"),
		[]byte("server:\n  environment: staging\n  port: \"8181\"\n"), 0o600))

	cfg, err := LoadConfigForEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, EnvStaging, cfg.Server.Environment)
	assert.Equal(t, "8181", cfg.Server.Port)

	t.Setenv("PORT", "9191")
	cfg, err = LoadConfigForEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Server.Port)
}
