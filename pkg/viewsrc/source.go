package viewsrc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrNotExist is returned when a source has no bundle with the given name.
var ErrNotExist = errors.New("viewsrc: bundle does not exist")

// Source loads view bundles by name.
type Source interface {
	// Load returns the bundle's contents. It returns an error wrapping
	// ErrNotExist when the bundle is missing.
	Load(ctx context.Context, name string) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, name string) ([]byte, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// None returns a source that holds no bundles.
func None() Source {
	return SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		return nil, notExist(name)
	})
}

func notExist(name string) error {
	return fmt.Errorf("%w: %s", ErrNotExist, name)
}

// checkName rejects names that could escape the source root.
func checkName(name string) error {
	if name == "" || strings.Contains(name, "\\") || !fs.ValidPath(name) {
		return fmt.Errorf("viewsrc: invalid bundle name %q", name)
	}
	return nil
}
