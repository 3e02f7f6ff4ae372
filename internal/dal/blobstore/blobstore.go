package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/spf13/viper"
)

// ErrNotInBucket is returned when a public URL does not reference an
// object in the configured bucket.
var ErrNotInBucket = errors.New("url does not reference the configured bucket")

// Client stores and deletes image blobs. Objects are addressed by
// (bucket, folder, filename); the public URL is a deterministic
// concatenation of the public base URL, the bucket name and the object
// path.
type Client struct {
	gcs           *storage.Client
	bucket        string
	publicBaseURL string
}

// MustNewClient creates a blob store client from configuration.
func MustNewClient(ctx context.Context) *Client {
	bucket := viper.GetString("blobstore.bucket")
	if bucket == "" {
		panic("blobstore.bucket is not configured")
	}

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to create storage client: %v", err))
	}

	baseURL := viper.GetString("blobstore.public_base_url")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com"
	}

	return &Client{
		gcs:           gcs,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Close releases the underlying storage client.
func (c *Client) Close() error {
	return c.gcs.Close()
}

// Upload writes the blob under folder/filename and returns its object
// path. The object is provisional until the caller's database write
// confirms; the caller compensates with Delete on failure.
func (c *Client) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	path := strings.Trim(folder, "/") + "/" + filename

	w := c.gcs.Bucket(c.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()

		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	return path, nil
}

// Delete removes the object at path. A missing object is not an
// error; the goal is that the path is not live afterwards.
func (c *Client) Delete(ctx context.Context, path string) error {
	err := c.gcs.Bucket(c.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	return nil
}

// PublicURL returns the public URL of an object path.
func (c *Client) PublicURL(path string) string {
	return c.publicBaseURL + "/" + c.bucket + "/" + strings.TrimLeft(path, "/")
}

// PathFromURL recovers the object path from a public URL by locating
// the bucket name inside it.
func (c *Client) PathFromURL(publicURL string) (string, error) {
	marker := "/" + c.bucket + "/"
	idx := strings.Index(publicURL, marker)
	if idx < 0 {
		return "", ErrNotInBucket
	}

	path := publicURL[idx+len(marker):]
	if path == "" {
		return "", ErrNotInBucket
	}

	return path, nil
}
