package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/messenger-dev/messenger-web/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", cfg.Title, DefaultTitle)
	}
	if cfg.Views.Source != SourceNone {
		t.Errorf("Views.Source = %q, want %q", cfg.Views.Source, SourceNone)
	}
	if cfg.Server.BasePath != "/" {
		t.Errorf("Server.BasePath = %q, want /", cfg.Server.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Address() != "localhost:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if errors.Code(err) != "E141" {
		t.Errorf("Load(empty dir) code = %q, want E141 (%v)", errors.Code(err), err)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "messenger.json"))
	if errors.Code(err) != "E141" {
		t.Errorf("LoadFile(missing) code = %q, want E141", errors.Code(err))
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "messenger.json"), `{
  "title": "Chat",
  "server": {"host": "0.0.0.0", "port": 9000, "shutdownTimeout": "3s"},
  "views": {"dir": "views"},
  "metrics": {"enabled": true, "address": ":9090"}
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Title != "Chat" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Views.Source != SourceDir {
		t.Errorf("Views.Source = %q, want dir (inferred)", cfg.Views.Source)
	}
	if cfg.ViewsDir() != filepath.Join(dir, "views") {
		t.Errorf("ViewsDir() = %q", cfg.ViewsDir())
	}
	if cfg.Timeouts().Shutdown != 3*time.Second {
		t.Errorf("Shutdown = %v", cfg.Timeouts().Shutdown)
	}
	if cfg.Timeouts().Read != 30*time.Second {
		t.Errorf("Read default = %v", cfg.Timeouts().Read)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "messenger" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Path() != filepath.Join(dir, "messenger.json") || cfg.Dir() != dir {
		t.Errorf("Path()/Dir() = %q/%q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadYAMLExpandsEnv(t *testing.T) {
	t.Setenv("VIEWS_SECRET", "s3cr3t")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "messenger.yaml"), `
lang: en
views:
  s3:
    bucket: messenger-views
    region: eu-central-1
    accessKeyId: AKIA
    secretAccessKey: ${VIEWS_SECRET}
log:
  level: debug
  format: json
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Views.Source != SourceS3 {
		t.Errorf("Views.Source = %q, want s3", cfg.Views.Source)
	}
	if cfg.Views.S3.SecretAccessKey != "s3cr3t" {
		t.Errorf("SecretAccessKey = %q", cfg.Views.S3.SecretAccessKey)
	}
	if cfg.Lang != "en" {
		t.Errorf("Lang = %q", cfg.Lang)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", level)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "messenger.json"), `{"title": "from json"}`)
	writeFile(t, filepath.Join(dir, "messenger.yml"), `title: from yaml`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "from json" {
		t.Errorf("Title = %q, want json to win", cfg.Title)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"server": `)
	if _, err := LoadFile(bad); errors.Code(err) != "E120" {
		t.Errorf("invalid JSON code = %q", errors.Code(err))
	}

	badYAML := filepath.Join(dir, "bad.yaml")
	writeFile(t, badYAML, "server: [")
	if _, err := LoadFile(badYAML); errors.Code(err) != "E120" {
		t.Errorf("invalid YAML code = %q", errors.Code(err))
	}

	toml := filepath.Join(dir, "messenger.toml")
	writeFile(t, toml, `title = "x"`)
	if _, err := LoadFile(toml); errors.Code(err) != "E121" {
		t.Errorf("unsupported extension code = %q", errors.Code(err))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, code: "E122"},
		{name: "bad duration", mutate: func(c *Config) { c.Server.ReadTimeout = "soon" }, code: "E120"},
		{name: "negative duration", mutate: func(c *Config) { c.Server.IdleTimeout = "-1s" }, code: "E120"},
		{name: "dir without dir", mutate: func(c *Config) { c.Views.Source = SourceDir }, code: "E123"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Views.Source = SourceS3 }, code: "E123"},
		{name: "s3 without region", mutate: func(c *Config) {
			c.Views.Source = SourceS3
			c.Views.S3.Bucket = "b"
		}, code: "E123"},
		{name: "s3 half credentials", mutate: func(c *Config) {
			c.Views.Source = SourceS3
			c.Views.S3 = S3Config{Bucket: "b", Region: "r", AccessKeyID: "k"}
		}, code: "E123"},
		{name: "unknown source", mutate: func(c *Config) { c.Views.Source = "ftp" }, code: "E123"},
		{name: "root static prefix", mutate: func(c *Config) { c.Static.Prefix = "/" }, code: "E120"},
		{name: "static prefix without slash", mutate: func(c *Config) { c.Static.Prefix = "/assets" }, code: "E120"},
		{name: "base path without trailing slash", mutate: func(c *Config) { c.Server.BasePath = "/app" }, code: "E120"},
		{name: "relative base path", mutate: func(c *Config) { c.Server.BasePath = "app/" }, code: "E120"},
		{name: "base path with query", mutate: func(c *Config) { c.Server.BasePath = "/app?x/" }, code: "E120"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, code: "E120"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, code: "E120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if errors.Code(err) != tt.code {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateBasePath(t *testing.T) {
	for _, base := range []string{"/", "/app/", "/messenger/web/"} {
		cfg := New()
		cfg.Server.BasePath = base
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() with basePath %q: %v", base, err)
		}
	}
}

func TestResolveAbsolute(t *testing.T) {
	cfg := New()
	cfg.Static.Dir = "/srv/public"
	if cfg.StaticDir() != "/srv/public" {
		t.Errorf("StaticDir() = %q", cfg.StaticDir())
	}
	cfg.Static.Dir = ""
	if cfg.StaticDir() != "" {
		t.Errorf("StaticDir() = %q, want empty", cfg.StaticDir())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
