// Package locale holds the server's user-facing strings.
//
// Messages live in embedded TOML files, one per language, and are looked up
// with go-i18n. The language of a request is negotiated from its
// Accept-Language header against the languages that have a message file.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var files embed.FS

// Message IDs.
const (
	MsgNotFoundHeading    = "NotFoundHeading"
	MsgNotFoundBody       = "NotFoundBody"
	MsgNotFoundSuggestion = "NotFoundSuggestion"
	MsgBackToLogin        = "BackToLogin"
)

// Catalog negotiates languages and localizes messages.
type Catalog struct {
	bundle    *i18n.Bundle
	supported []language.Tag
	matcher   language.Matcher
}

// New loads the embedded message files. defaultLang is used when a request
// names no supported language; it must have a message file.
func New(defaultLang string) (*Catalog, error) {
	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("locale: default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	names, err := fs.Glob(files, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if _, err := bundle.LoadMessageFileFS(files, name); err != nil {
			return nil, fmt.Errorf("locale: load %s: %w", path.Base(name), err)
		}
	}

	// The default goes first so the matcher falls back to it.
	supported := []language.Tag{def}
	found := false
	for _, tag := range bundle.LanguageTags() {
		if tag == def {
			found = true
			continue
		}
		supported = append(supported, tag)
	}
	if !found {
		return nil, fmt.Errorf("locale: no messages for default language %s", def)
	}

	return &Catalog{
		bundle:    bundle,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(defaultLang string) *Catalog {
	c, err := New(defaultLang)
	if err != nil {
		panic(err)
	}
	return c
}

// Languages returns the supported languages, default first.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.supported...)
}

// Match picks the supported language for an Accept-Language header value.
// Unparseable or unsupported values yield the default language.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.supported[0]
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.supported[0]
	}
	return c.supported[idx]
}

// Localize returns message id in lang, filling its template with data.
func (c *Catalog) Localize(lang language.Tag, id string, data map[string]any) (string, error) {
	loc := i18n.NewLocalizer(c.bundle, lang.String())
	return loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
}

// NotFoundText is the localized content of a not-found page.
type NotFoundText struct {
	Lang       language.Tag
	Heading    string
	Body       string
	Suggestion string

	// Home is the text of the link back to the sign-in page.
	Home string
}

// NotFound localizes the not-found page for path. suggestion, when not
// empty, is the closest declared path.
func (c *Catalog) NotFound(lang language.Tag, path, suggestion string) (NotFoundText, error) {
	text := NotFoundText{Lang: lang}

	var err error
	if text.Heading, err = c.Localize(lang, MsgNotFoundHeading, nil); err != nil {
		return text, err
	}
	if text.Body, err = c.Localize(lang, MsgNotFoundBody, map[string]any{"Path": path}); err != nil {
		return text, err
	}
	if text.Home, err = c.Localize(lang, MsgBackToLogin, nil); err != nil {
		return text, err
	}
	if suggestion != "" {
		text.Suggestion, err = c.Localize(lang, MsgNotFoundSuggestion, map[string]any{"Suggestion": suggestion})
		if err != nil {
			return text, err
		}
	}
	return text, nil
}
