package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	velaerrors "github.com/vango-dev/vela/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Server.Path != DefaultSocketPath {
		t.Errorf("Server.Path = %q, want %q", cfg.Server.Path, DefaultSocketPath)
	}
	if cfg.App.Demo != DefaultDemo {
		t.Errorf("App.Demo = %q, want %q", cfg.App.Demo, DefaultDemo)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); !velaerrors.HasCode(err, "E160") {
		t.Errorf("Load(empty dir) error = %v, want E160", err)
	}

	write(t, dir, "vela.json", `{
  "server": {"port": 8080, "host": "0.0.0.0"},
  "metrics": {"enabled": true},
  "log": {"level": "debug", "format": "json"},
  "app": {"demo": "todo", "maxQueue": 64}
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want 0.0.0.0:8080", cfg.Address())
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics = %+v, want enabled at default path", cfg.Metrics)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.App.Demo != "todo" || cfg.App.MaxQueue != 64 {
		t.Errorf("App = %+v, want todo/64", cfg.App)
	}
	if cfg.Path() != filepath.Join(dir, "vela.json") {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "vela.yaml", `
server:
  port: 9090
  path: /live
app:
  demo: clock
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Path != "/live" {
		t.Errorf("Server = %+v, want port 9090 path /live", cfg.Server)
	}
	if cfg.App.Demo != "clock" {
		t.Errorf("App.Demo = %q, want clock", cfg.App.Demo)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "vela.json", `{"server": {"port": 1111}}`)
	write(t, dir, "vela.yml", "server:\n  port: 2222\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 1111 {
		t.Errorf("Server.Port = %d, want 1111 from vela.json", cfg.Server.Port)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
		body string
	}{
		{"bad json", "vela.json", `{"server": `},
		{"bad yaml", "bad.yaml", "server: [1, 2"},
		{"unknown extension", "vela.toml", "port = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, dir, tt.file, tt.body)
			if _, err := LoadFile(path); !velaerrors.HasCode(err, "E160") {
				t.Errorf("LoadFile error = %v, want E160", err)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); !velaerrors.HasCode(err, "E160") {
		t.Errorf("LoadFile(missing) error = %v, want E160", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"relative socket path", func(c *Config) { c.Server.Path = "ws" }},
		{"metrics on socket path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "/ws" }},
		{"metrics relative path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative queue", func(c *Config) { c.App.MaxQueue = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !velaerrors.HasCode(err, "E161") {
				t.Errorf("Validate() = %v, want E161", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"vela.json", "vela.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Server.Port = 4321
			cfg.App.Demo = "todo"
			path := filepath.Join(dir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Server.Port != 4321 || loaded.App.Demo != "todo" {
				t.Errorf("loaded = %+v, want port 4321 demo todo", loaded)
			}
		})
	}
}
