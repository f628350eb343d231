// Package middleware provides observability guards for Messenger navigation.
//
// Every guard implements router.Guard and wraps the rest of the navigation
// chain, so it sees both the resolved target and the outcome:
//
//   - Prometheus counts navigations and deferred view loads
//   - OpenTelemetry opens a span per navigation
//   - Logging writes one structured line per navigation
//
// # Prometheus Metrics
//
//	m := middleware.Prometheus(middleware.WithNamespace("messenger"))
//	rt := router.New(table, router.WithGuards(m))
//
// Metrics collected (namespace "messenger" by default):
//   - messenger_navigations_total{route,status}
//   - messenger_navigation_duration_seconds{route}
//   - messenger_view_loads_total{view,status}
//   - messenger_active_sessions
//
// Deferred loaders are counted by wrapping them:
//
//	table := routes.MustTable(routes.WithLoaderWrap(m.InstrumentLoader))
//
// # OpenTelemetry
//
//	rt := router.New(table, router.WithGuards(middleware.OpenTelemetry()))
//
// The span is stored on the navigation with Navigation.SetContext, so
// deferred view loads started by the navigation inherit it.
package middleware
