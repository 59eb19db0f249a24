package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Data.Dir != "data" || cfg.Data.Extension != ".html" {
		t.Fatalf("expected data defaults, got %+v", cfg.Data)
	}
	if cfg.Data.RegionMarker != "county" {
		t.Fatalf("expected default region marker, got %q", cfg.Data.RegionMarker)
	}
	if !cfg.Logging.Development {
		t.Fatal("expected development logging by default")
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
auth:
  enabled: true
  api_key: secret
data:
  dir: /var/lib/covidsnap
  extension: .htm
  region_marker: region
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != "secret" {
		t.Fatalf("expected auth enabled with secret key")
	}
	if cfg.Data.Dir != "/var/lib/covidsnap" || cfg.Data.Extension != ".htm" {
		t.Fatalf("expected data overrides to apply, got %+v", cfg.Data)
	}
	if cfg.Data.RegionMarker != "region" {
		t.Fatalf("expected region marker override, got %q", cfg.Data.RegionMarker)
	}
	if cfg.Logging.Development {
		t.Fatal("expected production logging")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server: ServerConfig{Port: 8080},
		Data:   DataConfig{Dir: "data", Extension: ".html", RegionMarker: "county"},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "missing data dir",
			cfg: func() Config {
				c := base
				c.Data.Dir = ""
				return c
			}(),
			want: "data.dir",
		},
		{
			name: "extension without dot",
			cfg: func() Config {
				c := base
				c.Data.Extension = "html"
				return c
			}(),
			want: "data.extension",
		},
		{
			name: "missing region marker",
			cfg: func() Config {
				c := base
				c.Data.RegionMarker = ""
				return c
			}(),
			want: "data.region_marker",
		},
		{
			name: "auth missing api key",
			cfg: func() Config {
				c := base
				c.Auth.Enabled = true
				return c
			}(),
			want: "auth.api_key",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
