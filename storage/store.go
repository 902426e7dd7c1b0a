package storage

import (
	"context"
	"io"
)

// ObjectStore uploads a named blob. Writing an existing key replaces it.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}
