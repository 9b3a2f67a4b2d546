package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// optionally overlaid with environment variables (see [ApplyEnv]).
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Auth    AuthConfig    `toml:"auth"`
	Cache   CacheConfig   `toml:"cache"`
	Feed    FeedConfig    `toml:"feed"`
}

// BackendConfig locates the remote data store.
type BackendConfig struct {
	URL     string `toml:"url"`
	AnonKey string `toml:"anon_key"`
}

// AuthConfig configures the OAuth redirect sign-in flow.
type AuthConfig struct {
	Provider     string `toml:"provider"`
	CallbackHost string `toml:"callback_host"`
	CallbackPort int    `toml:"callback_port"`
}

// CacheConfig configures the local SQLite store backing the recently-played
// cache and the saved session.
type CacheConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FeedConfig tunes feed hydration.
type FeedConfig struct {
	CountRate float64 `toml:"count_rate"`
}

// CallbackOrigin returns the address the callback server binds, which doubles
// as the redirect target sent to the identity provider.
func (a AuthConfig) CallbackOrigin() string {
	return fmt.Sprintf("http://%s:%d", a.CallbackHost, a.CallbackPort)
}

// LoadConfig reads and parses a TOML configuration file from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config parsed from the embedded example file.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile writes the embedded example config to path, refusing to
// overwrite an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays backend credentials from the environment, loading a .env
// file first when one exists. Environment values win over TOML values so the
// API key can stay out of committed config.
func ApplyEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("MICHIDA_BACKEND_URL"); v != "" {
		config.Backend.URL = v
	}
	if v := os.Getenv("MICHIDA_BACKEND_KEY"); v != "" {
		config.Backend.AnonKey = v
	}
}
