package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/messenger-dev/messenger-web/internal/config"
	apperrors "github.com/messenger-dev/messenger-web/internal/errors"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func (o *globalOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", ".", "Config file, or directory containing messenger.json/.yaml")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: text or json (default from config)")
}

// loadConfig reads the configuration named by --config. A directory without
// a config file yields the defaults.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	st, statErr := os.Stat(o.configPath)
	switch {
	case statErr == nil && st.IsDir():
		cfg, err = config.Load(o.configPath)
		if apperrors.Code(err) == "E141" {
			cfg, err = config.New(), nil
		}
	default:
		cfg, err = config.LoadFile(o.configPath)
	}
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from cfg and installs it as the
// slog default.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Log.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	logger := slog.New(handler).With("app", cfg.Name)
	slog.SetDefault(logger)
	return logger, nil
}
