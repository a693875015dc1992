package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./movie-list.db" {
			t.Errorf("expected database path ./movie-list.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.TMDB.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("expected tmdb base URL https://api.themoviedb.org/3, got %s", config.TMDB.BaseURL)
		}

		if config.TMDB.ImageBaseURL != "https://image.tmdb.org/t/p/w500" {
			t.Errorf("unexpected image base URL %s", config.TMDB.ImageBaseURL)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
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

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080
secret_key = "s3cret"

[tmdb]
token = "test_token"
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

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.TMDB.Token != "test_token" {
			t.Errorf("expected tmdb token test_token, got %s", config.TMDB.Token)
		}

		if config.TMDB.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("expected unset keys to keep defaults, got base URL %q", config.TMDB.BaseURL)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvTMDBToken, "env_token")
		t.Setenv(EnvSecretKey, "env_secret")
		t.Setenv(EnvDatabasePath, "/tmp/env.db")
		t.Setenv(EnvPort, "9090")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		if config.TMDB.Token != "env_token" {
			t.Errorf("expected token env_token, got %s", config.TMDB.Token)
		}
		if config.Server.SecretKey != "env_secret" {
			t.Errorf("expected secret env_secret, got %s", config.Server.SecretKey)
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected database path /tmp/env.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", config.Server.Port)
		}
	})

	t.Run("ApplyEnv Invalid Port", func(t *testing.T) {
		t.Setenv(EnvPort, "http")

		err := DefaultConfig().ApplyEnv()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("REEL_TEST_DOTENV=from_file\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("REEL_TEST_DOTENV") })

		if err := LoadEnv(envPath, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("failed to load env: %v", err)
		}

		if got := os.Getenv("REEL_TEST_DOTENV"); got != "from_file" {
			t.Errorf("expected REEL_TEST_DOTENV=from_file, got %q", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(c *Config)
		}{
			{"missing secret", func(c *Config) { c.TMDB.Token = "t" }},
			{"missing token", func(c *Config) { c.Server.SecretKey = "s" }},
			{"bad port", func(c *Config) { c.Server.SecretKey, c.TMDB.Token, c.Server.Port = "s", "t", 0 }},
			{"empty database path", func(c *Config) { c.Server.SecretKey, c.TMDB.Token, c.Database.Path = "s", "t", "" }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)
				if err := config.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}
