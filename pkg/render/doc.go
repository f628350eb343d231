// Package render writes the HTML shell of the Messenger single-page app.
//
// The shell is everything the server contributes to a page: the document
// title chosen by the router, a mount point naming the view the client
// should mount, and the client script. Views themselves are rendered by the
// client.
//
// # Usage
//
//	r := render.NewRenderer(render.Config{ClientScript: "/assets/app.js"})
//	err := r.RenderPage(w, render.Page{
//	    Title: nav.Title,
//	    Lang:  "ru",
//	    View:  nav.To.View.ID(),
//	    Route: nav.Path,
//	    NavID: nav.ID,
//	})
//
// When no route matches, set Page.NotFound instead of View; the mount point
// is replaced by a short localized message.
//
// # Security
//
// All text and attribute values are escaped. The renderer never writes
// caller-provided markup.
package render
