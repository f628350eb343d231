package router

import (
	"sync"

	"go.uber.org/atomic"
)

// DefaultTitle is the document title used when a route declares none.
const DefaultTitle = "Messenger"

// Document is the state a navigation session exposes to its host: the
// document title and the current route. Only the router writes it, and only
// on the navigation path; any goroutine may read it.
type Document struct {
	defaultTitle string
	title        *atomic.String

	mu      sync.RWMutex
	current *Route
}

func newDocument(defaultTitle string) *Document {
	return &Document{
		defaultTitle: defaultTitle,
		title:        atomic.NewString(defaultTitle),
	}
}

// Title returns the current document title.
func (d *Document) Title() string {
	return d.title.Load()
}

// DefaultTitle returns the title used for routes without one.
func (d *Document) DefaultTitle() string {
	return d.defaultTitle
}

// Current returns the route of the last completed navigation.
func (d *Document) Current() (Route, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == nil {
		return Route{}, false
	}
	return *d.current, true
}

func (d *Document) setTitle(title string) {
	d.title.Store(title)
}

func (d *Document) setCurrent(r Route) {
	d.mu.Lock()
	d.current = &r
	d.mu.Unlock()
}
