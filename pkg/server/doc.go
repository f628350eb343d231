// Package server hosts Messenger navigation over HTTP.
//
// The server owns one immutable route table. Every page request and every
// navigation socket gets its own router.Router over that table, so each
// browser tab is an independent navigation session while deferred views are
// loaded once per process.
//
// # Endpoints
//
//   - GET /healthz: liveness check
//   - GET /_nav/routes: the route table as JSON
//   - GET /_nav/ws: navigation socket (see below)
//   - GET /_nav/views/{view}.js: code of a deferred view
//   - GET <static prefix>*: static assets, when a static directory is set
//   - GET /*: navigates to the request path and renders the page shell
//
// Unmatched paths render a localized not-found page with status 404.
//
// With Config.BasePath set to e.g. "/app/", every endpoint moves below it
// (/app/healthz, /app/_nav/ws, /app/register) and pages are resolved with the
// prefix removed. Bundle URLs in responses carry the prefix.
//
// # Navigation Socket
//
// The client sends JSON frames and receives one reply per frame, in order:
//
//	-> {"type":"navigate","path":"/dashboard"}
//	<- {"type":"mount","id":"01J...","path":"/dashboard","name":"dashboard",
//	    "view":"DashboardView","bundle":"/_nav/views/DashboardView.js",
//	    "title":"Messenger"}
//
//	-> {"type":"navigate","path":"/dashbord"}
//	<- {"type":"not_found","path":"/dashbord","title":"Messenger",
//	    "suggestion":"/dashboard"}
//
//	-> {"type":"back"}
//	<- {"type":"error","code":"E212","error":"..."}
//
// A "hello" frame carrying the session ID is sent when the socket opens.
//
// # Lifecycle
//
// Run serves until its context is canceled, then shuts down gracefully:
//
//	srv, err := server.New(table, server.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
package server
