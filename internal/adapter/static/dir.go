package static

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
)

// Dir reads dataset files from a file system laid out like the static host.
type Dir struct {
	fsys fs.FS
}

// NewDir serves dataset files from the directory at root.
func NewDir(root string) *Dir {
	return &Dir{fsys: os.DirFS(root)}
}

// NewFS serves dataset files from fsys.
func NewFS(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// Fetch reads the file at path. Escaped path segments are decoded the way a
// static web server would before touching the file system.
func (d *Dir) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := url.PathUnescape(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("fetch %s: %w", path, fs.ErrInvalid)
	}

	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return data, nil
}
