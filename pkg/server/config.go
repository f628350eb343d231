package server

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/messenger-dev/messenger-web/pkg/render"
	"github.com/messenger-dev/messenger-web/pkg/router"
)

// Config configures a Server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// MetricsAddress serves /metrics on a separate listener when set.
	MetricsAddress string

	// BasePath is the URL prefix every route is served under, e.g. "/app/".
	// Page paths are resolved with the prefix removed. Default: "/".
	BasePath string

	// HTTP timeouts.
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 15 seconds.
	ShutdownTimeout time.Duration

	// StaticDir is served under StaticPrefix when set.
	StaticDir    string
	StaticPrefix string

	// DefaultTitle is the title of pages whose route has none, and of
	// not-found pages. Default: router.DefaultTitle.
	DefaultTitle string

	// Lang is the fallback page language. Default: "ru".
	Lang string

	// CheckOrigin validates the Origin of socket upgrades.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// MaxMessageSize limits client frames in bytes. Default: 4096.
	MaxMessageSize int64

	// PingInterval is how often idle sockets are pinged. A socket that does
	// not answer within two intervals is closed. Default: 30 seconds.
	PingInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		BasePath:          "/",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		StaticPrefix:      "/assets/",
		DefaultTitle:      router.DefaultTitle,
		Lang:              "ru",
		CheckOrigin:       SameOriginCheck,
		MaxMessageSize:    4096,
		PingInterval:      30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	out := *c
	d := DefaultConfig()
	if out.Address == "" {
		out.Address = d.Address
	}
	out.BasePath = render.CleanBase(out.BasePath)
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.StaticPrefix == "" {
		out.StaticPrefix = d.StaticPrefix
	}
	if out.DefaultTitle == "" {
		out.DefaultTitle = d.DefaultTitle
	}
	if out.Lang == "" {
		out.Lang = d.Lang
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.PingInterval == 0 {
		out.PingInterval = d.PingInterval
	}
	return &out
}

// SameOriginCheck accepts requests without an Origin header and those whose
// Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || r.Host == "" {
		return false
	}
	return u.Host == r.Host
}

// AllowOrigins accepts same-origin requests and requests from the listed
// origins, e.g. "https://app.messenger.dev".
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		return slices.Contains(origins, r.Header.Get("Origin"))
	}
}
