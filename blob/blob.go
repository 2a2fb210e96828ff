// Package blob defines the object-storage contract used for product
// image uploads.
package blob

import (
	"context"
	"io"
)

// Object identifies a stored blob and its public URL.
type Object struct {
	Key string
	URL string
}

// Store uploads and deletes opaque objects. Implementations are
// explicitly constructed and injected; the engine never reaches for a
// global client.
type Store interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*Object, error)
	Delete(ctx context.Context, key string) error
}
