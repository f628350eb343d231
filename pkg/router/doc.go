// Package router dispatches navigations for the Messenger single-page
// application.
//
// A Table is an ordered, immutable list of routes. Each route associates a
// canonical URL path with a view and optional metadata:
//
//	table, err := router.NewTable(
//	    router.Route{Path: "/", Name: "login", View: router.Eager(router.View{ID: "LoginPage"}),
//	        Meta: router.Meta{router.MetaTitle: "Вход | Messenger"}},
//	    router.Route{Path: "/register", Name: "register", View: router.Lazy("RegistrationPage", loadRegistration)},
//	)
//
// Resolution is a linear scan in declaration order; the first route whose path
// equals the canonicalized request path wins. Unmatched paths return a
// *NotFoundError that satisfies errors.Is(err, ErrNotFound).
//
// # Navigation
//
// A Router wraps a Table with the state of one navigation session: the current
// route, the document title and the back/forward history.
//
//	r := router.New(table)
//	nav, err := r.Navigate(ctx, "/register")
//	if err != nil {
//	    // errors.Is(err, router.ErrNotFound)
//	}
//	view, err := nav.View(ctx) // waits for a deferred view to load
//
// Every navigation passes through the guard chain and finally through
// BeforeNavigate, which sets the document title from the route's "title"
// metadata (or DefaultTitle) and then proceeds exactly once.
//
// # Deferred views
//
// Lazy views hold a loader instead of the view. The first navigation to the
// route schedules the load in the background and returns immediately; the
// result is memoized once it succeeds.
package router
