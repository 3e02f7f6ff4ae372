package imagesvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/iblobstore"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/icatalogapi"
	"github.com/plateful/ordering-gateway/internal/service/models/image"
	"github.com/spf13/viper"
)

var (
	// ErrUnsupportedType rejects uploads outside the MIME allow-list
	// before any network call.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge rejects uploads above the configured size ceiling
	// before any network call.
	ErrTooLarge = errors.New("image exceeds size limit")
)

// extensions maps the allowed MIME types to object name extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService keeps blob storage consistent with the image references
// the backend holds, despite the two writes not sharing a transaction.
// The new blob is provisional until the reference write confirms; the
// workflow compensates by deleting it on failure. The old blob is
// deleted only after the write commits, so there is never a window
// with no image at all.
type ImageService struct {
	blobs    iblobstore.IBlobStore
	catalog  icatalogapi.ICatalogAPI
	folder   string
	maxBytes int64
}

// option is a function that configures the ImageService.
type option func(*ImageService)

// MustNewImageService creates a new ImageService.
func MustNewImageService(opts ...option) *ImageService {
	folder := viper.GetString("images.folder")
	if folder == "" {
		folder = "menu"
	}

	maxBytes := viper.GetInt64("images.max_bytes")
	if maxBytes == 0 {
		maxBytes = 5 << 20
	}

	s := &ImageService{
		folder:   folder,
		maxBytes: maxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithBlobStore sets the blob store for the ImageService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBlobStore(blobs iblobstore.IBlobStore) option {
	return func(s *ImageService) {
		s.blobs = blobs
	}
}

// WithCatalogAPI sets the catalog client for the ImageService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogAPI(catalog icatalogapi.ICatalogAPI) option {
	return func(s *ImageService) {
		s.catalog = catalog
	}
}

// ReplaceItemImage swaps the image of a menu item. The returned ref is
// the image that is live after the call: the new one on success, the
// previous one when the reference write failed and the upload was
// rolled back.
func (s *ImageService) ReplaceItemImage(
	ctx context.Context,
	itemID string,
	contentType string,
	size int64,
	r io.Reader,
) (image.Ref, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return image.Ref{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if size > s.maxBytes {
		return image.Ref{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	previous := s.currentRef(ctx, itemID)

	filename := uuid.NewString() + ext
	newPath, err := s.blobs.Upload(ctx, path.Join(s.folder, itemID), filename, contentType, io.LimitReader(r, s.maxBytes))
	if err != nil {
		return previous, fmt.Errorf("upload image: %w", err)
	}
	newURL := s.blobs.PublicURL(newPath)

	if err := s.catalog.SetItemImage(ctx, itemID, newURL); err != nil {
		// Reference write failed: the new blob must not outlive it.
		if derr := s.blobs.Delete(ctx, newPath); derr != nil {
			slog.Warn("Failed to roll back uploaded image",
				"item_id", itemID,
				"path", newPath,
				"error", derr,
			)
		}

		return previous, fmt.Errorf("set item image: %w", err)
	}

	// The reference now points at the new blob; retire the old one.
	// A leaked orphan is logged, never surfaced.
	if previous.Path != "" {
		if derr := s.blobs.Delete(ctx, previous.Path); derr != nil {
			slog.Warn("Failed to delete replaced image",
				"item_id", itemID,
				"path", previous.Path,
				"error", derr,
			)
		}
	}

	return image.Ref{Path: newPath, URL: newURL}, nil
}

// currentRef resolves the item's live image. A URL outside the
// configured bucket (seed data, external hosting) yields a ref with a
// URL but no path, so it is reported but never deleted.
func (s *ImageService) currentRef(ctx context.Context, itemID string) image.Ref {
	url, err := s.catalog.ItemImage(ctx, itemID)
	if err != nil {
		slog.Warn("Failed to read current item image", "item_id", itemID, "error", err)

		return image.Ref{}
	}
	if url == "" {
		return image.Ref{}
	}

	p, err := s.blobs.PathFromURL(url)
	if err != nil {
		return image.Ref{URL: url}
	}

	return image.Ref{Path: p, URL: url}
}
