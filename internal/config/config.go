package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vela/internal/errors"
)

// ConfigFileNames are the file names Load looks for, in order.
var ConfigFileNames = []string{"vela.json", "vela.yaml", "vela.yml"}

const (
	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultSocketPath is the default WebSocket endpoint.
	DefaultSocketPath = "/ws"

	// DefaultMetricsPath is the default Prometheus scrape endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultDemo is the app served when none is configured.
	DefaultDemo = "counter"
)

// Config represents the complete vela.json / vela.yaml configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log contains process logger configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// App selects and tunes the served application.
	App AppConfig `json:"app" yaml:"app"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Path is the WebSocket endpoint path.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Title is the document title of served pages.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics at Path and records reconcile metrics.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Path is the scrape endpoint.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// AppConfig contains application settings.
type AppConfig struct {
	// Demo names the built-in app to serve (counter, todo, clock, catalog).
	Demo string `json:"demo,omitempty" yaml:"demo,omitempty"`

	// MaxQueue bounds the pending message queue of each session.
	// Zero means unbounded.
	MaxQueue int `json:"maxQueue,omitempty" yaml:"maxQueue,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the first of ConfigFileNames present in dir.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, errors.New("E160").
			WithDetail("No vela.json or vela.yaml found in " + dir).
			WithSuggestion("Run 'vela init' to write a default configuration")
	}
	return LoadFile(path)
}

// LoadOrDefault is like Load but returns defaults when dir has no config file.
func LoadOrDefault(dir string) (*Config, error) {
	if _, ok := Find(dir); !ok {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .json, or .yaml/.yml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E160").WithDetail("Cannot read " + path).Wrap(err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E160").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E160").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	default:
		return nil, errors.New("E160").
			WithDetailf("Unsupported config format %q", ext).
			WithSuggestion("Use vela.json or vela.yaml")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to the specified path, in the format its
// extension selects.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E160").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E160").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultSocketPath
	}
	if c.Server.Title == "" {
		c.Server.Title = "Vela"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "vela"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.App.Demo == "" {
		c.App.Demo = DefaultDemo
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E161").
			WithDetail("Port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return errors.New("E161").
			WithDetailf("Server path %q must start with /", c.Server.Path)
	}
	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return errors.New("E161").
				WithDetailf("Metrics path %q must start with /", c.Metrics.Path)
		}
		if c.Metrics.Path == c.Server.Path || c.Metrics.Path == "/" {
			return errors.New("E161").
				WithDetailf("Metrics path %q collides with another route", c.Metrics.Path)
		}
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("E161").
			WithDetailf("Unknown log level %q", c.Log.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("E161").
			WithDetailf("Unknown log format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if c.App.MaxQueue < 0 {
		return errors.New("E161").
			WithDetail("app.maxQueue must not be negative")
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Address returns the listen address of the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// Find returns the first config file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
