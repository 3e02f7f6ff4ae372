package iblobstore

import (
	"context"
	"io"
)

// IBlobStore is an interface for the image blob store.
type IBlobStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
	PathFromURL(publicURL string) (string, error)
}
