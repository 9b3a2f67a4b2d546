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

		if config.Auth.Provider != "google" {
			t.Errorf("expected provider google, got %s", config.Auth.Provider)
		}

		if config.Auth.CallbackPort != 8484 {
			t.Errorf("expected callback port 8484, got %d", config.Auth.CallbackPort)
		}

		if config.Cache.Path != "michida.db" {
			t.Errorf("expected cache path michida.db, got %s", config.Cache.Path)
		}

		if config.Feed.CountRate != 16.0 {
			t.Errorf("expected count rate 16.0, got %f", config.Feed.CountRate)
		}
	})

	t.Run("CallbackOrigin", func(t *testing.T) {
		auth := AuthConfig{CallbackHost: "127.0.0.1", CallbackPort: 8484}
		if got := auth.CallbackOrigin(); got != "http://127.0.0.1:8484" {
			t.Errorf("expected http://127.0.0.1:8484, got %s", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Auth.CallbackPort != defaultConfig.Auth.CallbackPort {
			t.Errorf("created config callback port doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
url = "https://project.supabase.co"
anon_key = "test_anon_key"

[auth]
provider = "github"
callback_host = "localhost"
callback_port = 9090

[cache]
path = "/custom/path.db"
max_open_conns = 8
max_idle_conns = 4

[feed]
count_rate = 4.0
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.URL != "https://project.supabase.co" {
			t.Errorf("expected backend url https://project.supabase.co, got %s", config.Backend.URL)
		}

		if config.Auth.Provider != "github" {
			t.Errorf("expected provider github, got %s", config.Auth.Provider)
		}

		if config.Cache.Path != "/custom/path.db" {
			t.Errorf("expected cache path /custom/path.db, got %s", config.Cache.Path)
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfigMalformedFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnvOverridesBackend", func(t *testing.T) {
		t.Setenv("MICHIDA_BACKEND_URL", "https://env.supabase.co")
		t.Setenv("MICHIDA_BACKEND_KEY", "env_key")

		config := DefaultConfig()
		ApplyEnv(config)

		if config.Backend.URL != "https://env.supabase.co" {
			t.Errorf("expected env backend url, got %s", config.Backend.URL)
		}
		if config.Backend.AnonKey != "env_key" {
			t.Errorf("expected env anon key, got %s", config.Backend.AnonKey)
		}
	})
}
