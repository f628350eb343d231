package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/messenger-dev/messenger-web/pkg/render"
	"github.com/messenger-dev/messenger-web/pkg/router"
	"golang.org/x/text/language"
)

// Paths served by the host itself.
const (
	HealthPath    = "/healthz"
	RoutesPath    = "/_nav/routes"
	SocketPath    = "/_nav/ws"
	ViewsPrefix   = "/_nav/views/"
	MetricsPath   = "/metrics"
	bundleExt     = ".js"
	htmlMediaType = "text/html; charset=utf-8"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, s.logRequests, s.recoverPanics)

	base := strings.TrimSuffix(s.config.BasePath, "/")
	if base == "" {
		s.mountApp(r)
		return r
	}

	// Handlers below the base see paths with the prefix removed.
	app := chi.NewRouter()
	s.mountApp(app)
	r.Mount(base, http.StripPrefix(base, app))
	return r
}

func (s *Server) mountApp(r chi.Router) {
	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Get(RoutesPath, s.handleRoutes)
	r.Get(SocketPath, s.handleSocket)
	r.Get(ViewsPrefix+"{bundle}", s.handleBundle)

	// Without a dedicated listener metrics share the main one.
	if s.gatherer != nil && s.config.MetricsAddress == "" {
		r.Handle(MetricsPath, s.promHandler())
	}

	if s.config.StaticDir != "" {
		r.Get(s.config.StaticPrefix+"*", s.staticHandler())
	}

	r.Get("/*", s.handlePage)
}

// url places a root-relative URL under the base path.
func (s *Server) url(p string) string {
	return render.JoinBase(s.config.BasePath, p)
}

// BundleURL returns the URL of a deferred view's code, or "" when the view
// ships with the client bundle.
func BundleURL(v router.ViewRef) string {
	if _, ok := v.(*router.LazyView); !ok {
		return ""
	}
	return ViewsPrefix + v.ID() + bundleExt
}

// handlePage navigates a fresh session to the request path and renders the
// shell for the result.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	rt := s.newRouter(logger)
	lang := s.catalog.Match(r.Header.Get("Accept-Language"))

	target := r.URL.Path
	if target == "" {
		// The base path itself, without its trailing slash.
		target = "/"
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	nav, err := rt.Navigate(r.Context(), target)
	switch {
	case errors.Is(err, router.ErrNotFound):
		s.renderNotFound(w, r, lang, err)
		return
	case errors.Is(err, router.ErrInvalidPath):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	case err != nil:
		logger.Warn("navigation failed", "path", target, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.writePage(w, http.StatusOK, lang, render.Page{
		Title:     nav.Title,
		View:      nav.To.View.ID(),
		Route:     nav.Path,
		NavID:     nav.ID,
		BundleURL: BundleURL(nav.To.View),
	}, logger)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, lang language.Tag, err error) {
	logger := s.requestLogger(r)
	if s.metrics != nil {
		s.metrics.ObserveNotFound()
	}

	var suggestion string
	var nf *router.NotFoundError
	if errors.As(err, &nf) {
		suggestion = nf.Suggestion
	}

	text, lerr := s.catalog.NotFound(lang, r.URL.Path, suggestion)
	if lerr != nil {
		logger.Error("localize not-found page", "lang", lang.String(), "error", lerr)
	}

	page := &render.NotFound{
		Path:           r.URL.Path,
		Heading:        text.Heading,
		Body:           text.Body,
		Suggestion:     text.Suggestion,
		SuggestionPath: suggestion,
	}
	if suggestion == "" {
		page.Suggestion = text.Home
		page.SuggestionPath = "/"
	}

	s.writePage(w, http.StatusNotFound, lang, render.Page{
		Title:    s.config.DefaultTitle,
		NotFound: page,
	}, logger)
}

func (s *Server) writePage(w http.ResponseWriter, status int, lang language.Tag, page render.Page, logger *slog.Logger) {
	page.Lang = lang.String()

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		logger.Error("render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", htmlMediaType)
	w.Header().Set("Content-Language", page.Lang)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RouteInfo describes a route in the /_nav/routes listing.
type RouteInfo struct {
	Path   string `json:"path"`
	Name   string `json:"name,omitempty"`
	View   string `json:"view"`
	Title  string `json:"title,omitempty"`
	Bundle string `json:"bundle,omitempty"`
}

// Describe lists the table's routes in declaration order.
func Describe(table *router.Table) []RouteInfo {
	routes := table.Routes()
	out := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		title, _ := rt.Meta.Title()
		out = append(out, RouteInfo{
			Path:   rt.Path,
			Name:   rt.Name,
			View:   rt.View.ID(),
			Title:  title,
			Bundle: BundleURL(rt.View),
		})
	}
	return out
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	infos := Describe(s.table)
	for i := range infos {
		if infos[i].Bundle != "" {
			infos[i].Bundle = s.url(infos[i].Bundle)
		}
	}
	data, err := sonic.Marshal(infos)
	if err != nil {
		s.requestLogger(r).Error("encode routes", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleBundle serves the code of a deferred view, waiting for its load.
func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(chi.URLParam(r, "bundle"), bundleExt)
	if !ok {
		http.NotFound(w, r)
		return
	}

	for _, rt := range s.table.Routes() {
		if rt.View.ID() != id || BundleURL(rt.View) == "" {
			continue
		}
		v, err := rt.View.Resolve(r.Context())
		if err != nil {
			s.requestLogger(r).Warn("view load failed", "view", id, "error", err)
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		if len(v.Bundle) == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write(v.Bundle)
		return
	}
	http.NotFound(w, r)
}

// staticHandler serves StaticDir without directory listings.
func (s *Server) staticHandler() http.HandlerFunc {
	files := http.StripPrefix(s.config.StaticPrefix, http.FileServer(http.FS(os.DirFS(s.config.StaticDir))))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
