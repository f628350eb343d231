package router

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// MetaTitle is the metadata key holding a route's document title.
const MetaTitle = "title"

// Meta is free-form route metadata.
type Meta map[string]any

// Title returns the "title" entry when it is a non-empty string.
func (m Meta) Title() (string, bool) {
	s, ok := m[MetaTitle].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Route associates a canonical path with a view.
type Route struct {
	// Path is the canonical URL path, e.g. "/register".
	Path string

	// Name is the optional route name, e.g. "register".
	Name string

	// View produces the view mounted for this route.
	View ViewRef

	// Meta is optional metadata; see MetaTitle.
	Meta Meta
}

// Label returns the route name, or its path when unnamed.
func (r Route) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Path
}

func (r Route) clone() Route {
	r.Meta = maps.Clone(r.Meta)
	return r
}

// View is what the rendering collaborator mounts.
type View struct {
	// ID identifies the view component, e.g. "LoginPage".
	ID string

	// Bundle is the view's loaded code, if any was found.
	Bundle []byte
}

// ViewRef is a reference to a view that may be resolved eagerly or on first
// use.
type ViewRef interface {
	// ID returns the view identifier without loading it.
	ID() string

	// Resolve returns the view, loading it if necessary.
	Resolve(ctx context.Context) (View, error)
}

// Starter is implemented by view references that can begin loading in the
// background.
type Starter interface {
	Start(ctx context.Context)
}

type eagerRef struct {
	view View
}

// Eager returns a reference to an already available view.
func Eager(v View) ViewRef {
	return eagerRef{view: v}
}

func (e eagerRef) ID() string { return e.view.ID }

func (e eagerRef) Resolve(context.Context) (View, error) {
	return e.view, nil
}

// Loader produces a view on demand.
type Loader func(ctx context.Context) (View, error)

// LazyView defers loading a view until the first navigation to it. A
// successful load is memoized; a failed one is retried by the next caller.
type LazyView struct {
	id   string
	load Loader

	mu    sync.Mutex
	cur   *attempt
	loads int
}

type attempt struct {
	done chan struct{}
	view View
	err  error
}

// Lazy returns a deferred view reference.
func Lazy(id string, load Loader) *LazyView {
	return &LazyView{id: id, load: load}
}

// ID implements ViewRef.
func (l *LazyView) ID() string { return l.id }

// Start schedules the load unless it already ran successfully or is in
// flight. It never blocks.
func (l *LazyView) Start(ctx context.Context) {
	l.begin(ctx)
}

// Resolve implements ViewRef. It waits for the load scheduled by Start, or
// starts one.
func (l *LazyView) Resolve(ctx context.Context) (View, error) {
	a := l.begin(ctx)
	select {
	case <-a.done:
		return a.view, a.err
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Loaded reports whether the view has been loaded successfully.
func (l *LazyView) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur == nil {
		return false
	}
	select {
	case <-l.cur.done:
		return l.cur.err == nil
	default:
		return false
	}
}

// Loads returns how many times the loader has been invoked.
func (l *LazyView) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

func (l *LazyView) begin(ctx context.Context) *attempt {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a := l.cur; a != nil {
		select {
		case <-a.done:
			if a.err == nil {
				return a
			}
		default:
			return a
		}
	}

	a := &attempt{done: make(chan struct{})}
	l.cur = a
	l.loads++

	// The load outlives the navigation that triggered it.
	loadCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(a.done)
		defer func() {
			if p := recover(); p != nil {
				a.err = fmt.Errorf("router: loading view %s panicked: %v", l.id, p)
			}
		}()
		a.view, a.err = l.load(loadCtx)
		if a.err == nil && a.view.ID == "" {
			a.view.ID = l.id
		}
	}()
	return a
}
