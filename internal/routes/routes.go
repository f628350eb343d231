// Package routes declares the Messenger route table.
package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/messenger-dev/messenger-web/pkg/router"
	"github.com/messenger-dev/messenger-web/pkg/viewsrc"
)

// LoginTitle is the document title of the login page.
const LoginTitle = "Вход | Messenger"

// Declared paths.
const (
	PathLogin          = "/"
	PathRegister       = "/register"
	PathDashboard      = "/dashboard"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
)

// View identifiers, as understood by the client bundle.
const (
	ViewLogin          = "LoginPage"
	ViewRegistration   = "RegistrationPage"
	ViewDashboard      = "DashboardView"
	ViewForgotPassword = "ForgotPassword"
	ViewResetPassword  = "ResetPassword"
)

// BundleExt is appended to a view ID to name its bundle.
const BundleExt = ".js"

type options struct {
	source viewsrc.Source
	wrap   func(id string, load router.Loader) router.Loader
	logger *slog.Logger
}

// Option configures Table.
type Option func(*options)

// WithSource sets where deferred view bundles are loaded from.
func WithSource(src viewsrc.Source) Option {
	return func(o *options) {
		if src != nil {
			o.source = src
		}
	}
}

// WithLoaderWrap decorates every deferred view loader, e.g. to record load
// metrics.
func WithLoaderWrap(wrap func(id string, load router.Loader) router.Loader) Option {
	return func(o *options) {
		o.wrap = wrap
	}
}

// WithLogger sets the logger used by bundle loads.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Table builds the application's route table. Deferred views in the
// returned table are shared by every router that uses it, so each bundle is
// fetched at most once per successful load.
func Table(opts ...Option) (*router.Table, error) {
	o := &options{
		source: viewsrc.None(),
		logger: slog.Default().With("component", "routes"),
	}
	for _, opt := range opts {
		opt(o)
	}

	return router.NewTable(
		router.Route{
			Path: PathLogin,
			Name: "login",
			View: router.Eager(router.View{ID: ViewLogin}),
			Meta: router.Meta{router.MetaTitle: LoginTitle},
		},
		router.Route{
			Path: PathRegister,
			Name: "register",
			View: o.lazy(ViewRegistration),
		},
		router.Route{
			Path: PathDashboard,
			Name: "dashboard",
			View: o.lazy(ViewDashboard),
		},
		router.Route{
			Path: PathForgotPassword,
			View: router.Eager(router.View{ID: ViewForgotPassword}),
		},
		router.Route{
			Path: PathResetPassword,
			View: router.Eager(router.View{ID: ViewResetPassword}),
		},
	)
}

// MustTable is like Table but panics on error.
func MustTable(opts ...Option) *router.Table {
	t, err := Table(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (o *options) lazy(id string) *router.LazyView {
	load := bundleLoader(o.source, id, o.logger)
	if o.wrap != nil {
		load = o.wrap(id, load)
	}
	return router.Lazy(id, load)
}

// bundleLoader fetches <id>.js. A missing bundle is not an error: the view
// mounts without code of its own.
func bundleLoader(src viewsrc.Source, id string, logger *slog.Logger) router.Loader {
	name := id + BundleExt
	return func(ctx context.Context) (router.View, error) {
		data, err := src.Load(ctx, name)
		switch {
		case errors.Is(err, viewsrc.ErrNotExist):
			logger.Debug("view bundle not found", "view", id, "bundle", name)
			return router.View{ID: id}, nil
		case err != nil:
			logger.Warn("view bundle load failed", "view", id, "bundle", name, "error", err)
			return router.View{}, fmt.Errorf("routes: load %s: %w", name, err)
		}
		logger.Debug("view bundle loaded", "view", id, "bytes", len(data))
		return router.View{ID: id, Bundle: data}, nil
	}
}
