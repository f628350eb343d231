// Package routepath normalizes request paths before they are looked up in the
// route table.
//
// A canonical path starts with "/", has no empty, "." or ".." segments and no
// trailing slash (except for the root itself). The query string is split off
// and carried alongside but never rewritten.
package routepath

import (
	"errors"
	"strings"
)

// Result is a canonicalized path and its untouched query string.
type Result struct {
	// Path is the canonical path without query.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed reports whether Path differs from the input path.
	Changed bool
}

// String rebuilds the path with its query, if any.
func (r Result) String() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslash            = errors.New("path contains backslash")
	ErrNullByte             = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrEscapesRoot          = errors.New("path escapes root via ..")
)

// Canonicalize normalizes input.
//
// An empty input is the root. Slashes are collapsed, "." segments dropped and
// ".." segments resolved. Backslashes, NUL bytes, malformed percent escapes and
// ".." above the root are rejected.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	raw, query := Split(input)

	if strings.ContainsRune(raw, '\\') {
		return Result{}, ErrBackslash
	}
	if strings.ContainsRune(raw, 0) || strings.Contains(strings.ToUpper(raw), "%00") {
		return Result{}, ErrNullByte
	}
	if strings.ContainsRune(raw, '%') && !validEscapes(raw) {
		return Result{}, ErrInvalidPercentEscape
	}

	segments := make([]string, 0, strings.Count(raw, "/")+1)
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	clean := "/" + strings.Join(segments, "/")
	return Result{
		Path:    clean,
		Query:   query,
		Changed: clean != raw,
	}, nil
}

// ValidateNav canonicalizes a navigation target. Targets must be
// site-relative: absolute URLs and protocol-relative "//host" forms are
// rejected so navigation can never leave the application.
func ValidateNav(target string) (Result, error) {
	if strings.HasPrefix(target, "//") || !strings.HasPrefix(target, "/") {
		return Result{}, ErrInvalidPath
	}
	if strings.Contains(target, "://") {
		before, _, _ := strings.Cut(target, "?")
		if strings.Contains(before, "://") {
			return Result{}, ErrInvalidPath
		}
	}
	return Canonicalize(target)
}

// Split separates the path from the query string.
func Split(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

func validEscapes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return false
		}
		i += 2
	}
	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
