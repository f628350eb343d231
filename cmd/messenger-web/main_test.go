package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/messenger-dev/messenger-web/internal/config"
	apperrors "github.com/messenger-dev/messenger-web/internal/errors"
	"github.com/messenger-dev/messenger-web/pkg/server"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfigDefaults(t *testing.T) {
	opts := &globalOptions{configPath: t.TempDir()}
	cfg, err := opts.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Title != config.DefaultTitle {
		t.Errorf("Title = %q, want %q", cfg.Title, config.DefaultTitle)
	}
	if cfg.Views.Source != config.SourceNone {
		t.Errorf("Views.Source = %q, want none", cfg.Views.Source)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messenger.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &globalOptions{configPath: path, logLevel: "debug", logFormat: "json"}
	cfg, err := opts.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
}

func TestLoadConfigInvalidFlag(t *testing.T) {
	opts := &globalOptions{configPath: t.TempDir(), logFormat: "xml"}
	_, err := opts.loadConfig()
	if apperrors.Code(err) != "E120" {
		t.Fatalf("error = %v, want E120", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &globalOptions{configPath: filepath.Join(t.TempDir(), "missing.json")}
	_, err := opts.loadConfig()
	if apperrors.Code(err) != "E141" {
		t.Fatalf("error = %v, want E141", err)
	}
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := config.New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %s", out)
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &line); err != nil {
		t.Fatalf("output is not one JSON line: %v\n%s", err, out)
	}
	if line["app"] != cfg.Name || line["k"] != "v" {
		t.Errorf("line = %v", line)
	}
}

func TestRoutesCommandJSON(t *testing.T) {
	out, err := execute(t, "routes", "--json", "-c", t.TempDir())
	if err != nil {
		t.Fatalf("routes: %v", err)
	}

	var infos []server.RouteInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := []string{"/", "/register", "/dashboard", "/forgot-password", "/reset-password"}
	if len(infos) != len(want) {
		t.Fatalf("got %d routes, want %d", len(infos), len(want))
	}
	for i, p := range want {
		if infos[i].Path != p {
			t.Errorf("route %d = %q, want %q", i, infos[i].Path, p)
		}
	}
	if infos[0].Title != "Вход | Messenger" {
		t.Errorf("login title = %q", infos[0].Title)
	}
}

func TestRoutesCommandTable(t *testing.T) {
	out, err := execute(t, "routes", "-c", t.TempDir())
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	for _, want := range []string{"PATH", "/forgot-password", "Messenger (default)", "/_nav/views/"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "login",
			args: []string{"/"},
			want: []string{"Route:  / (login)", "Title:  Вход | Messenger"},
		},
		{
			name: "untitled",
			args: []string{"/reset-password?token=abc"},
			want: []string{"Path:   /reset-password?token=abc", "Title:  Messenger"},
		},
		{
			name: "deferred",
			args: []string{"/dashboard", "--load"},
			want: []string{"(dashboard)", "Bundle: 0 bytes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"resolve", "-c", t.TempDir()}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestResolveCommandNotFound(t *testing.T) {
	_, err := execute(t, "resolve", "-c", t.TempDir(), "/dashbord")
	var coded *apperrors.Error
	if !errors.As(err, &coded) || coded.Code != "E210" {
		t.Fatalf("error = %v, want E210", err)
	}
	if !strings.Contains(coded.Suggestion, "/dashboard") {
		t.Errorf("suggestion = %q, want /dashboard", coded.Suggestion)
	}
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}
