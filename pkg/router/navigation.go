package router

import (
	"context"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind tells how a navigation was requested.
type Kind int

const (
	// KindPush is a navigation to a new path.
	KindPush Kind = iota
	// KindBack moves one entry back in history.
	KindBack
	// KindForward moves one entry forward in history.
	KindForward
)

func (k Kind) String() string {
	switch k {
	case KindPush:
		return "push"
	case KindBack:
		return "back"
	case KindForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Navigation describes one transition between routes.
type Navigation struct {
	// ID is a time-ordered unique identifier.
	ID string

	Kind Kind

	// Path is the canonical target path; Query its raw query string.
	Path  string
	Query string

	// To is the resolved target route.
	To Route

	// From is the route that was current when the navigation started, or nil
	// for the first navigation of a session.
	From *Route

	// Title is the document title after the navigation completed.
	Title string

	Started time.Time

	ctx context.Context
}

// Context returns the context the navigation runs under.
func (n *Navigation) Context() context.Context {
	if n.ctx == nil {
		return context.Background()
	}
	return n.ctx
}

// SetContext replaces the navigation context. Guards use it to attach values
// such as trace spans that the view load should inherit.
func (n *Navigation) SetContext(ctx context.Context) {
	n.ctx = ctx
}

// URL returns the target path with its query.
func (n *Navigation) URL() string {
	if n.Query == "" {
		return n.Path
	}
	return n.Path + "?" + n.Query
}

// View resolves the target route's view, waiting for a deferred view to
// finish loading.
func (n *Navigation) View(ctx context.Context) (View, error) {
	return n.To.View.Resolve(ctx)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

func newNavigationID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
