// Package splitter prepares a TAQ source file for parallel loading: it
// strips the header and footer records and splits the remaining rows into
// contiguous chunk files inside a per-run working directory.
package splitter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vvka-141/taqload/pkg/taqload"
)

// RunDir is a per-run temporary directory holding the cleaned source copy
// and the chunk files. Each run gets a unique directory so concurrent
// imports on the same host never collide.
type RunDir struct {
	Path string
}

// NewRunDir creates a uniquely named working directory under base.
// An empty base falls back to the OS temp directory.
func NewRunDir(base string) (*RunDir, error) {
	if base == "" {
		base = os.TempDir()
	}

	path := filepath.Join(base, "taqload-"+uuid.NewString())
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create working directory %s: %w", path, err)
	}

	return &RunDir{Path: path}, nil
}

// CleanedPath returns the path of the header/footer-stripped source copy.
func (d *RunDir) CleanedPath() string {
	return filepath.Join(d.Path, taqload.CleanedFileName)
}

// ChunkPath returns the path of the chunk file for the given 0-based index.
func (d *RunDir) ChunkPath(index int) string {
	return filepath.Join(d.Path, fmt.Sprintf(taqload.ChunkFilePattern, index))
}

// Remove deletes the working directory and everything in it.
func (d *RunDir) Remove() error {
	return os.RemoveAll(d.Path)
}
