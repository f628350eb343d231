package render

import (
	"fmt"
	"io"
	"strings"
)

// DefaultClientScript is the client bundle path used when Config leaves it
// empty.
const DefaultClientScript = "/assets/app.js"

// DefaultSocketPath is where the client opens its navigation socket.
const DefaultSocketPath = "/_nav/ws"

// Config holds page-independent shell settings.
type Config struct {
	// ClientScript is the path of the client bundle.
	ClientScript string

	// SocketPath is exposed to the client as data-socket on the mount point.
	SocketPath string

	// StyleSheets are linked from the head in order.
	StyleSheets []string

	// Meta tags are written after charset and viewport.
	Meta []MetaTag

	// Lang is used when a Page has none. Defaults to "en".
	Lang string

	// BasePath is the prefix the app is mounted under. Root-relative URLs
	// (client script, socket, style sheets, bundles and links) are written
	// below it. Defaults to "/".
	BasePath string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Property string // property attribute (for OpenGraph)
	Content  string // content attribute
}

// Page is one rendered navigation.
type Page struct {
	// Title is the document title.
	Title string

	// Lang overrides Config.Lang.
	Lang string

	// View is the identifier of the view the client mounts.
	View string

	// Route is the canonical path that was matched.
	Route string

	// NavID identifies the navigation that produced the page.
	NavID string

	// BundleURL is where the client fetches the view's deferred code. Empty
	// for views shipped with the client bundle.
	BundleURL string

	// NotFound replaces the mount point when no route matched.
	NotFound *NotFound
}

// NotFound is the body of a page for an unmatched path.
type NotFound struct {
	Path    string
	Heading string
	Body    string

	// Suggestion is a sentence pointing at SuggestionPath, already
	// localized. Both are optional.
	Suggestion     string
	SuggestionPath string
}

// Renderer writes shell documents.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer, filling in defaults.
func NewRenderer(config Config) *Renderer {
	if config.ClientScript == "" {
		config.ClientScript = DefaultClientScript
	}
	if config.SocketPath == "" {
		config.SocketPath = DefaultSocketPath
	}
	if config.Lang == "" {
		config.Lang = "en"
	}
	config.BasePath = CleanBase(config.BasePath)
	return &Renderer{config: config}
}

// CleanBase returns base with exactly one leading and one trailing slash.
// An empty base is "/".
func CleanBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return "/"
	}
	return "/" + base + "/"
}

// JoinBase places a root-relative URL under base. Other URLs, including
// protocol-relative "//host" ones, are returned unchanged.
func JoinBase(base, url string) string {
	if !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "//") {
		return url
	}
	return CleanBase(base) + strings.TrimPrefix(url, "/")
}

// URL places a root-relative URL under the renderer's base path.
func (r *Renderer) URL(url string) string {
	return JoinBase(r.config.BasePath, url)
}

// Config returns the renderer's settings with defaults applied.
func (r *Renderer) Config() Config {
	return r.config
}

// pageWriter keeps the first write error so the rendering code stays flat.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *pageWriter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// RenderPage writes a complete HTML document for page.
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	lang := page.Lang
	if lang == "" {
		lang = r.config.Lang
	}

	pw := &pageWriter{w: w}
	pw.write("<!DOCTYPE html>\n")
	pw.printf("<html lang=\"%s\">\n", escapeAttr(lang))
	r.renderHead(pw, page)
	pw.write("<body>\n")

	if page.NotFound != nil {
		r.renderNotFound(pw, page.NotFound)
	} else {
		r.renderMount(pw, page)
	}

	pw.printf("  <script src=\"%s\" defer></script>\n", escapeAttr(r.URL(r.config.ClientScript)))
	pw.write("</body>\n</html>\n")
	return pw.err
}

func (r *Renderer) renderHead(pw *pageWriter, page Page) {
	pw.write("<head>\n")
	pw.write("  <meta charset=\"utf-8\">\n")
	pw.write("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")

	if page.Title != "" {
		pw.printf("  <title>%s</title>\n", escapeHTML(page.Title))
	}

	for _, meta := range r.config.Meta {
		pw.write("  <meta")
		if meta.Name != "" {
			pw.printf(" name=\"%s\"", escapeAttr(meta.Name))
		}
		if meta.Property != "" {
			pw.printf(" property=\"%s\"", escapeAttr(meta.Property))
		}
		pw.printf(" content=\"%s\">\n", escapeAttr(meta.Content))
	}

	for _, href := range r.config.StyleSheets {
		pw.printf("  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(r.URL(href)))
	}

	pw.write("</head>\n")
}

func (r *Renderer) renderMount(pw *pageWriter, page Page) {
	pw.printf("  <div id=\"app\" data-view=\"%s\" data-route=\"%s\" data-socket=\"%s\"",
		escapeAttr(page.View), escapeAttr(page.Route), escapeAttr(r.URL(r.config.SocketPath)))
	if page.NavID != "" {
		pw.printf(" data-nav=\"%s\"", escapeAttr(page.NavID))
	}
	if page.BundleURL != "" {
		pw.printf(" data-bundle=\"%s\"", escapeAttr(r.URL(page.BundleURL)))
	}
	if r.config.BasePath != "/" {
		pw.printf(" data-base=\"%s\"", escapeAttr(r.config.BasePath))
	}
	pw.write("></div>\n")
}

func (r *Renderer) renderNotFound(pw *pageWriter, nf *NotFound) {
	pw.printf("  <main id=\"app\" data-not-found=\"%s\" data-socket=\"%s\">\n",
		escapeAttr(nf.Path), escapeAttr(r.URL(r.config.SocketPath)))
	pw.printf("    <h1>%s</h1>\n", escapeHTML(nf.Heading))
	if nf.Body != "" {
		pw.printf("    <p>%s</p>\n", escapeHTML(nf.Body))
	}
	if nf.SuggestionPath != "" {
		text := nf.Suggestion
		if text == "" {
			text = nf.SuggestionPath
		}
		pw.printf("    <p><a href=\"%s\">%s</a></p>\n", escapeAttr(r.URL(nf.SuggestionPath)), escapeHTML(text))
	}
	pw.write("  </main>\n")
}
