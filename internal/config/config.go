package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/messenger-dev/messenger-web/internal/errors"
)

const (
	// ConfigFileName is the base name of the configuration file.
	ConfigFileName = "messenger"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultTitle is the document title for routes without one.
	DefaultTitle = "Messenger"

	// DefaultLang is the fallback document language.
	DefaultLang = "ru"
)

// View sources.
const (
	SourceNone = "none"
	SourceDir  = "dir"
	SourceS3   = "s3"
)

// configExts are tried in order by Load.
var configExts = []string{".json", ".yaml", ".yml"}

// Config is the complete messenger-web configuration.
type Config struct {
	// Name is the application name used in logs and metrics labels.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Title is the document title for routes that declare none.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Lang is the document language when the client expresses no preference.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	Server  ServerConfig  `json:"server,omitempty" yaml:"server,omitempty"`
	Static  StaticConfig  `json:"static,omitempty" yaml:"static,omitempty"`
	Views   ViewsConfig   `json:"views,omitempty" yaml:"views,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings. Durations use
// time.ParseDuration syntax.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// BasePath is the URL prefix the app is mounted under, e.g. "/app/".
	// It starts and ends with "/". Default: "/".
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`

	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty" yaml:"readHeaderTimeout,omitempty"`
	ReadTimeout       string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout      string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	IdleTimeout       string `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`
	ShutdownTimeout   string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// AllowedOrigins lists origins allowed to open navigation websockets.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files. Empty disables serving.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Prefix is the URL prefix for static files.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// ViewsConfig selects where deferred view bundles are loaded from.
type ViewsConfig struct {
	// Source is "none", "dir" or "s3".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Dir is the bundle directory for the "dir" source.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config configures the "s3" view source.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// UsePathStyle addresses buckets as endpoint/bucket, as most
	// S3-compatible stores require.
	UsePathStyle bool `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`

	// AccessKeyID and SecretAccessKey are optional; without them requests
	// are sent unsigned.
	AccessKeyID     string `json:"accessKeyId,omitempty" yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" yaml:"secretAccessKey,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Address serves /metrics on a separate listener. Empty mounts it on
	// the main server.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry spans for navigations.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from dir, trying messenger.json, messenger.yaml
// and messenger.yml in that order.
func Load(dir string) (*Config, error) {
	for _, ext := range configExts {
		path := filepath.Join(dir, ConfigFileName+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").WithDetail("No messenger.json or messenger.yaml found in " + dir)
}

// LoadFile reads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").WithDetail(path + " does not exist")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	case ".yaml", ".yml":
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	default:
		return nil, errors.New("E121").WithDetail("extension " + ext)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadAndValidate loads path and validates the result.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "messenger"
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Lang == "" {
		c.Lang = DefaultLang
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = "/"
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = "5s"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "30s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = "120s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "15s"
	}

	// Static
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/assets/"
	}

	// Views
	if c.Views.Source == "" {
		switch {
		case c.Views.S3.Bucket != "":
			c.Views.Source = SourceS3
		case c.Views.Dir != "":
			c.Views.Source = SourceDir
		default:
			c.Views.Source = SourceNone
		}
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "messenger"
	}

	// Tracing
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "messenger-web"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}

	timeouts := map[string]string{
		"server.readHeaderTimeout": c.Server.ReadHeaderTimeout,
		"server.readTimeout":       c.Server.ReadTimeout,
		"server.writeTimeout":      c.Server.WriteTimeout,
		"server.idleTimeout":       c.Server.IdleTimeout,
		"server.shutdownTimeout":   c.Server.ShutdownTimeout,
	}
	for field, value := range timeouts {
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return errors.New("E120").
				WithDetail(field + ": invalid duration " + strconv.Quote(value)).
				WithSuggestion(`Use Go duration syntax such as "10s" or "1m"`)
		}
	}

	switch c.Views.Source {
	case SourceNone:
	case SourceDir:
		if c.Views.Dir == "" {
			return errors.New("E123").WithDetail(`views.source is "dir" but views.dir is empty`)
		}
	case SourceS3:
		if c.Views.S3.Bucket == "" {
			return errors.New("E123").WithDetail(`views.source is "s3" but views.s3.bucket is empty`)
		}
		if c.Views.S3.Region == "" {
			return errors.New("E123").WithDetail("views.s3.region is required")
		}
		if (c.Views.S3.AccessKeyID == "") != (c.Views.S3.SecretAccessKey == "") {
			return errors.New("E123").WithDetail("views.s3 needs both accessKeyId and secretAccessKey, or neither")
		}
	default:
		return errors.New("E123").
			WithDetail("unknown views.source " + strconv.Quote(c.Views.Source)).
			WithSuggestion(`Use "none", "dir" or "s3"`)
	}

	if !strings.HasPrefix(c.Server.BasePath, "/") || !strings.HasSuffix(c.Server.BasePath, "/") ||
		strings.Contains(c.Server.BasePath, "//") || strings.ContainsAny(c.Server.BasePath, "?#") {
		return errors.New("E120").
			WithDetail("server.basePath must start and end with /, got " + strconv.Quote(c.Server.BasePath)).
			WithSuggestion(`Use "/" or a prefix such as "/app/"`)
	}

	if !strings.HasPrefix(c.Static.Prefix, "/") || !strings.HasSuffix(c.Static.Prefix, "/") || c.Static.Prefix == "/" {
		return errors.New("E120").
			WithDetail("static.prefix must start and end with / and not be the root, got " + strconv.Quote(c.Static.Prefix))
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E120").WithDetail("log.format must be text or json")
	}

	return nil
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E120").
			WithDetail("log.level " + strconv.Quote(c.Log.Level)).
			WithSuggestion("Use debug, info, warn or error")
	}
	return level, nil
}

// Timeouts are the parsed server durations.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

// Timeouts parses the server durations. Call Validate first; invalid values
// parse as zero.
func (c *Config) Timeouts() Timeouts {
	parse := func(s string) time.Duration {
		d, _ := time.ParseDuration(s)
		return d
	}
	return Timeouts{
		ReadHeader: parse(c.Server.ReadHeaderTimeout),
		Read:       parse(c.Server.ReadTimeout),
		Write:      parse(c.Server.WriteTimeout),
		Idle:       parse(c.Server.IdleTimeout),
		Shutdown:   parse(c.Server.ShutdownTimeout),
	}
}

// ViewsDir returns Views.Dir resolved against the config directory.
func (c *Config) ViewsDir() string {
	return c.resolve(c.Views.Dir)
}

// StaticDir returns Static.Dir resolved against the config directory.
func (c *Config) StaticDir() string {
	return c.resolve(c.Static.Dir)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}
