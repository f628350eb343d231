package viewsrc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// DirSource reads bundles from a filesystem.
type DirSource struct {
	fsys fs.FS
}

// Dir returns a source reading from fsys.
//
//	src := viewsrc.Dir(os.DirFS("dist/views"))
func Dir(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// Load implements Source.
func (d *DirSource) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notExist(name)
		}
		return nil, fmt.Errorf("viewsrc: read %s: %w", name, err)
	}
	return data, nil
}
