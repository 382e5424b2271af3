package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Display.PageSize != 50 {
		t.Fatalf("page size = %d, want default 50", cfg.Display.PageSize)
	}
	if cfg.Display.CurrencySymbol != "€" {
		t.Fatalf("currency = %q, want €", cfg.Display.CurrencySymbol)
	}
	if cfg.Notifications.WIPWarnPercent != 80 {
		t.Fatalf("wip warn = %v, want 80", cfg.Notifications.WIPWarnPercent)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
api_key = "secret"
base_url = "https://backend.example.com/api/v1"

[display]
currency_symbol = "£"
page_size = 25

[export]
delimiter = ";"
crlf = true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.APIKey != "secret" {
		t.Fatalf("api key = %q", cfg.API.APIKey)
	}
	if cfg.Display.CurrencySymbol != "£" || cfg.Display.PageSize != 25 {
		t.Fatalf("display = %+v", cfg.Display)
	}
	if cfg.Export.DelimiterRune() != ';' || !cfg.Export.CRLF {
		t.Fatalf("export = %+v", cfg.Export)
	}
	// Unset sections keep defaults.
	if cfg.API.CacheTTLMinutes != 60 {
		t.Fatalf("cache ttl = %d, want default 60", cfg.API.CacheTTLMinutes)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WIPDASH_API_KEY", "from-env")
	t.Setenv("WIPDASH_PAGE_SIZE", "10")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.APIKey != "from-env" {
		t.Fatalf("api key = %q, want env override", cfg.API.APIKey)
	}
	if cfg.Display.PageSize != 10 {
		t.Fatalf("page size = %d, want env override 10", cfg.Display.PageSize)
	}
}

func TestDelimiterRuneDefault(t *testing.T) {
	e := ExportConfig{}
	if e.DelimiterRune() != ',' {
		t.Fatalf("empty delimiter = %q, want comma", e.DelimiterRune())
	}
}
