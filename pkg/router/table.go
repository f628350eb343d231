package router

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"

	apperrors "github.com/messenger-dev/messenger-web/internal/errors"
	"github.com/messenger-dev/messenger-web/pkg/routepath"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("route not found")

	// ErrInvalidPath reports a navigation target that cannot be canonicalized.
	ErrInvalidPath = errors.New("invalid navigation path")
)

// maxSuggestDistance bounds how far a "did you mean" suggestion may be from
// the requested path.
const maxSuggestDistance = 3

// NotFoundError reports that no route matches a path.
type NotFoundError struct {
	// Path is the canonicalized path that was looked up, or the raw input
	// when it could not be canonicalized.
	Path string

	// Suggestion is the closest declared path, or "".
	Suggestion string

	// Invalid is set when the path could not be canonicalized at all.
	Invalid error
}

func (e *NotFoundError) Error() string {
	if e.Invalid != nil {
		return fmt.Sprintf("no route matches %q: %v", e.Path, e.Invalid)
	}
	msg := fmt.Sprintf("no route matches %q", e.Path)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is makes errors.Is(err, ErrNotFound) hold, and errors.Is(err,
// ErrInvalidPath) for paths that could not be canonicalized.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || (target == ErrInvalidPath && e.Invalid != nil)
}

// Unwrap returns the canonicalization error, if any.
func (e *NotFoundError) Unwrap() error {
	return e.Invalid
}

// Coded converts the error to its coded form for terminal output.
func (e *NotFoundError) Coded() *apperrors.Error {
	err := apperrors.New("E210").WithDetail(e.Path).Wrap(e)
	if e.Suggestion != "" {
		err = err.WithSuggestion(fmt.Sprintf("Did you mean %s?", e.Suggestion))
	}
	return err
}

// Table is an ordered, immutable set of routes.
type Table struct {
	routes []Route
}

// NewTable validates routes and fixes their order. Paths must be non-empty,
// canonical and unique, and every route needs a view.
func NewTable(routes ...Route) (*Table, error) {
	seen := make(map[string]int, len(routes))
	t := &Table{routes: make([]Route, 0, len(routes))}

	for i, r := range routes {
		if r.Path == "" {
			return nil, apperrors.New("E201").WithDetailf("route #%d has no path", i)
		}
		canon, err := routepath.Canonicalize(r.Path)
		if err != nil {
			return nil, apperrors.New("E203").WithDetailf("route path %q", r.Path).Wrap(err)
		}
		if canon.Path != r.Path || canon.Query != "" {
			return nil, apperrors.New("E203").
				WithDetailf("route path %q", r.Path).
				WithSuggestion(fmt.Sprintf("Declare it as %q", canon.Path))
		}
		if prev, dup := seen[r.Path]; dup {
			return nil, apperrors.New("E200").
				WithDetailf("path %q is declared by routes #%d and #%d", r.Path, prev, i)
		}
		if r.View == nil {
			return nil, apperrors.New("E202").WithDetailf("route %q", r.Path)
		}
		seen[r.Path] = i
		t.routes = append(t.routes, r.clone())
	}

	return t, nil
}

// MustTable is NewTable that panics on error. It is meant for tables
// declared in code.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.clone()
	}
	return out
}

// Lookup finds a route by name.
func (t *Table) Lookup(name string) (Route, bool) {
	if name == "" {
		return Route{}, false
	}
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve returns the first route, in declaration order, whose path equals
// the canonical form of path. The query string is ignored.
//
// Every failure is a *NotFoundError, including the empty path and paths
// that cannot be canonicalized.
func (t *Table) Resolve(path string) (Route, error) {
	if path == "" {
		return Route{}, &NotFoundError{Path: path}
	}
	canon, err := routepath.Canonicalize(path)
	if err != nil {
		return Route{}, &NotFoundError{Path: path, Invalid: err}
	}

	for _, r := range t.routes {
		if r.Path == canon.Path {
			return r, nil
		}
	}

	return Route{}, &NotFoundError{Path: canon.Path, Suggestion: t.suggest(canon.Path)}
}

// suggest returns the declared path closest to path, preferring earlier
// routes on ties.
func (t *Table) suggest(path string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, r := range t.routes {
		d := levenshtein.ComputeDistance(path, r.Path)
		if d < bestDist {
			best, bestDist = r.Path, d
		}
	}
	return best
}
