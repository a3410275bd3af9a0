// Package datasource abstracts where input XML comes from. The engine only
// ever sees an io.ReadCloser, so local files, test fixtures, and future
// remote sources all plug in the same way.
package datasource

import (
	"context"
	"io"
)

// Source yields one readable stream per call. Implementations should honor
// context cancellation before doing any expensive work.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
