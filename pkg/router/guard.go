package router

// Guard observes or intercepts a navigation before it completes.
//
// Call next to continue the chain. Returning an error without calling next
// aborts the navigation: the current route, title and history stay as they
// were.
type Guard interface {
	Handle(nav *Navigation, next func() error) error
}

// GuardFunc is a function adapter for Guard.
type GuardFunc func(nav *Navigation, next func() error) error

// Handle implements Guard.
func (f GuardFunc) Handle(nav *Navigation, next func() error) error {
	return f(nav, next)
}

// ComposeGuards runs guards in order with final at the end of the chain.
func ComposeGuards(nav *Navigation, guards []Guard, final func() error) error {
	chain := final
	for i := len(guards) - 1; i >= 0; i-- {
		g := guards[i]
		next := chain
		chain = func() error {
			return g.Handle(nav, next)
		}
	}
	return chain()
}

// Chain combines guards into one, run in order.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(nav *Navigation, next func() error) error {
		return ComposeGuards(nav, guards, next)
	})
}

// Only runs g when cond holds and otherwise skips straight to next.
func Only(cond func(nav *Navigation) bool, g Guard) Guard {
	return GuardFunc(func(nav *Navigation, next func() error) error {
		if !cond(nav) {
			return next()
		}
		return g.Handle(nav, next)
	})
}
