package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./myflix.db" {
			t.Errorf("expected database path ./myflix.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "https://myflix-12345.herokuapp.com" {
			t.Errorf("unexpected api base url %s", config.API.BaseURL)
		}

		if config.API.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", config.API.Timeout())
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://localhost:9090"
timeout_seconds = 5
rate_limit = 2.5

[database]
path = "/custom/path.db"

[server]
port = 9999
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 9999 {
			t.Errorf("expected server port 9999, got %d", config.Server.Port)
		}
		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected default host to survive partial config, got %s", config.Server.Host)
		}
		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}
		if config.Server.Addr() != "127.0.0.1:9999" {
			t.Errorf("unexpected addr %s", config.Server.Addr())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvAPIURL, "http://127.0.0.1:1234")
		t.Setenv(EnvDBPath, ":memory:")
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvRateLimit, "3")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.API.BaseURL != "http://127.0.0.1:1234" {
			t.Errorf("expected env base url, got %s", config.API.BaseURL)
		}
		if config.Database.Path != ":memory:" {
			t.Errorf("expected env db path, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
		if config.API.RateLimit != 3 {
			t.Errorf("expected env rate limit 3, got %v", config.API.RateLimit)
		}
	})

	t.Run("ApplyEnv Invalid Rate Limit", func(t *testing.T) {
		t.Setenv(EnvRateLimit, "fast")

		if err := DefaultConfig().ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadDotEnv", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, ".env")
		if err := os.WriteFile(envPath, []byte("MYFLIX_JWT_SECRET=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Setenv(EnvJWTSecret, "")
		os.Unsetenv(EnvJWTSecret)

		if err := LoadDotEnv(envPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Server.JWTSecret != "from-dotenv" {
			t.Errorf("expected secret from .env, got %s", config.Server.JWTSecret)
		}

		if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
			t.Errorf("missing .env should not fail, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.API.BaseURL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for empty base url, got %v", err)
		}

		config = DefaultConfig()
		config.API.RateLimit = -1
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for negative rate limit, got %v", err)
		}
	})
}
