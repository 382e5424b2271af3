package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	API           APIConfig     `toml:"api"`
	Display       DisplayConfig `toml:"display"`
	Export        ExportConfig  `toml:"export"`
	Notifications NotifyConfig  `toml:"notifications"`
}

type APIConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

type DisplayConfig struct {
	CurrencySymbol string `toml:"currency_symbol"`
	PageSize       int    `toml:"page_size"`
}

type ExportConfig struct {
	Delimiter string `toml:"delimiter"`
	CRLF      bool   `toml:"crlf"`
}

type NotifyConfig struct {
	Enabled        bool    `toml:"enabled"`
	WIPWarnPercent float64 `toml:"wip_warn_percent"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			CacheTTLMinutes: 60,
		},
		Display: DisplayConfig{
			CurrencySymbol: "€",
			PageSize:       50,
		},
		Export: ExportConfig{
			Delimiter: ",",
		},
		Notifications: NotifyConfig{
			Enabled:        true,
			WIPWarnPercent: 80,
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wipdash"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file, falling back to defaults when it does not
// exist. Environment variables override file values either way.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WIPDASH_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("WIPDASH_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("WIPDASH_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Display.PageSize = n
		}
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault creates the config file with defaults if it does not exist
// and returns its path.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking config file: %w", err)
	}

	cfg := DefaultConfig()
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}

// DelimiterRune converts the configured delimiter string to the rune the
// CSV writer expects, defaulting to a comma.
func (e ExportConfig) DelimiterRune() rune {
	for _, r := range e.Delimiter {
		return r
	}
	return ','
}
