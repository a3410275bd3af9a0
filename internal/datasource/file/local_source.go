// Package file implements the local filesystem data source and input
// discovery for runs pointed at a directory.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file from the local disk. It is safe for concurrent use.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path reports the file the source is bound to.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading. A context that is already
// done short-circuits without touching the filesystem; filesystem errors
// are wrapped with the path and stay inspectable via errors.Is.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
