package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/messenger-dev/messenger-web/pkg/routepath"
)

// ErrNoHistory is returned by Back and Forward at either end of the history.
var ErrNoHistory = errors.New("no history entry")

// Router is one navigation session over a shared Table.
//
// Navigations are serialized: Navigate, Back and Forward never run
// concurrently for the same Router, and none of them wait for a deferred
// view to load.
type Router struct {
	table  *Table
	doc    *Document
	guards []Guard
	logger *slog.Logger

	mu      sync.Mutex
	history History
}

// Option configures a Router.
type Option func(*Router)

// WithDefaultTitle sets the title used for routes without a "title" entry.
func WithDefaultTitle(title string) Option {
	return func(r *Router) {
		if title != "" {
			r.doc = newDocument(title)
		}
	}
}

// WithGuards appends guards to the navigation chain.
func WithGuards(guards ...Guard) Option {
	return func(r *Router) {
		r.guards = append(r.guards, guards...)
	}
}

// WithLogger sets the router's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a navigation session over table.
func New(table *Table, opts ...Option) *Router {
	r := &Router{
		table:  table,
		doc:    newDocument(DefaultTitle),
		logger: slog.Default().With("component", "router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// Document returns the session's document state.
func (r *Router) Document() *Document {
	return r.doc
}

// Title is shorthand for Document().Title().
func (r *Router) Title() string {
	return r.doc.Title()
}

// Current is shorthand for Document().Current().
func (r *Router) Current() (Route, bool) {
	return r.doc.Current()
}

// History returns the history entries and the cursor position.
func (r *Router) History() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Entries(), r.history.Index()
}

// Use appends guards. It must not be called once navigation has started.
func (r *Router) Use(guards ...Guard) {
	r.guards = append(r.guards, guards...)
}

// Resolve looks path up in the table.
func (r *Router) Resolve(path string) (Route, error) {
	return r.table.Resolve(path)
}

// BeforeNavigate runs right before a navigation to "to" completes. It sets
// the document title from the route metadata, falling back to the default
// title, and then calls proceed exactly once. It never blocks a navigation.
func (r *Router) BeforeNavigate(to Route, from *Route, proceed func()) {
	title, ok := to.Meta.Title()
	if !ok {
		title = r.doc.DefaultTitle()
	}
	r.doc.setTitle(title)

	if from != nil {
		r.logger.Debug("before navigate", "from", from.Label(), "to", to.Label(), "title", title)
	} else {
		r.logger.Debug("before navigate", "to", to.Label(), "title", title)
	}

	proceed()
}

// Navigate moves the session to target, a site-relative path that may carry
// a query string.
//
// Unmatched paths return a *NotFoundError and leave the session untouched.
// A guard that fails before calling next aborts the navigation; errors a
// guard returns after next has completed it are logged and dropped.
// Deferred views start loading in the background; use Navigation.View to
// wait for them.
func (r *Router) Navigate(ctx context.Context, target string) (*Navigation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.navigate(ctx, target, KindPush)
}

// Back navigates to the previous history entry.
func (r *Router) Back(ctx context.Context) (*Navigation, error) {
	return r.traverse(ctx, -1, KindBack)
}

// Forward navigates to the next history entry.
func (r *Router) Forward(ctx context.Context) (*Navigation, error) {
	return r.traverse(ctx, 1, KindForward)
}

func (r *Router) traverse(ctx context.Context, delta int, kind Kind) (*Navigation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.history.At(delta)
	if !ok {
		return nil, fmt.Errorf("router: %s: %w", kind, ErrNoHistory)
	}
	return r.navigate(ctx, target, kind)
}

// navigate runs with r.mu held.
func (r *Router) navigate(ctx context.Context, target string, kind Kind) (*Navigation, error) {
	res, err := routepath.ValidateNav(target)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, target, err)
	}

	to, err := r.table.Resolve(res.Path)
	if err != nil {
		r.logger.Debug("navigation unmatched", "path", res.Path, "error", err)
		return nil, err
	}

	now := time.Now()
	nav := &Navigation{
		ID:      newNavigationID(now),
		Kind:    kind,
		Path:    res.Path,
		Query:   res.Query,
		To:      to,
		Started: now,
		ctx:     ctx,
	}
	if cur, ok := r.doc.Current(); ok {
		nav.From = &cur
	}

	committed := false
	err = ComposeGuards(nav, r.guards, func() error {
		if committed {
			return nil
		}
		r.BeforeNavigate(nav.To, nav.From, func() {
			committed = true
			r.commit(nav, kind)
		})
		return nil
	})

	if !committed {
		if err == nil {
			err = fmt.Errorf("router: navigation to %s was not completed", nav.Path)
		}
		r.logger.Debug("navigation aborted", "path", nav.Path, "id", nav.ID, "error", err)
		return nil, err
	}
	if err != nil {
		// The session has already moved; a later guard error cannot undo it.
		r.logger.Warn("guard failed after navigation completed", "path", nav.Path, "id", nav.ID, "error", err)
	}
	return nav, nil
}

func (r *Router) commit(nav *Navigation, kind Kind) {
	r.doc.setCurrent(nav.To)

	switch kind {
	case KindBack:
		r.history.Go(-1)
	case KindForward:
		r.history.Go(1)
	default:
		r.history.Push(nav.URL())
	}

	nav.Title = r.doc.Title()

	if s, ok := nav.To.View.(Starter); ok {
		s.Start(nav.Context())
	}

	r.logger.Debug("navigated",
		"id", nav.ID,
		"kind", kind.String(),
		"path", nav.Path,
		"route", nav.To.Label(),
		"view", nav.To.View.ID(),
		"title", nav.Title,
	)
}
