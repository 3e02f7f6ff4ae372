package imagesvc

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/plateful/ordering-gateway/internal/service/models/menu"
)

type fakeBlobStore struct {
	uploads   int
	deleted   []string
	live      map[string]bool
	uploadErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{live: map[string]bool{}}
}

func (f *fakeBlobStore) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	f.uploads++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}

	p := folder + "/" + filename
	f.live[p] = true

	return p, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	delete(f.live, path)

	return nil
}

func (f *fakeBlobStore) PublicURL(path string) string {
	return "https://storage.example.com/plateful/" + path
}

func (f *fakeBlobStore) PathFromURL(publicURL string) (string, error) {
	const prefix = "https://storage.example.com/plateful/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", errors.New("not in bucket")
	}

	return strings.TrimPrefix(publicURL, prefix), nil
}

type fakeCatalog struct {
	imageURL   string
	setCalls   int
	setErr     error
	lastSetURL string
}

func (f *fakeCatalog) Menu(ctx context.Context) ([]menu.Item, error) { return nil, nil }
func (f *fakeCatalog) SpecialOffers(ctx context.Context) ([]menu.SpecialOffer, error) {
	return nil, nil
}
func (f *fakeCatalog) TodaysSpecials(ctx context.Context) ([]menu.TodaysSpecial, error) {
	return nil, nil
}
func (f *fakeCatalog) ItemImage(ctx context.Context, itemID string) (string, error) {
	return f.imageURL, nil
}
func (f *fakeCatalog) SetItemImage(ctx context.Context, itemID, imageURL string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.lastSetURL = imageURL

	return nil
}

func newService(blobs *fakeBlobStore, catalog *fakeCatalog) *ImageService {
	return MustNewImageService(WithBlobStore(blobs), WithCatalogAPI(catalog))
}

func body() io.Reader { return strings.NewReader("not really a jpeg") }

func TestReplaceRejectsUnsupportedTypeBeforeUpload(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newService(blobs, &fakeCatalog{})

	_, err := svc.ReplaceItemImage(context.Background(), "m1", "image/gif", 100, body())
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if blobs.uploads != 0 {
		t.Errorf("expected no upload, got %d", blobs.uploads)
	}
}

func TestReplaceRejectsOversizeBeforeUpload(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newService(blobs, &fakeCatalog{})

	_, err := svc.ReplaceItemImage(context.Background(), "m1", "image/png", 50<<20, body())
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if blobs.uploads != 0 {
		t.Errorf("expected no upload, got %d", blobs.uploads)
	}
}

func TestReplaceSuccessRetiresOldBlob(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.live["menu/m1/old.jpg"] = true
	catalog := &fakeCatalog{imageURL: blobs.PublicURL("menu/m1/old.jpg")}
	svc := newService(blobs, catalog)

	ref, err := svc.ReplaceItemImage(context.Background(), "m1", "image/jpeg", 100, body())
	if err != nil {
		t.Fatalf("ReplaceItemImage: %v", err)
	}

	if ref.Path == "" || ref.Path == "menu/m1/old.jpg" {
		t.Fatalf("expected a fresh path, got %q", ref.Path)
	}
	if catalog.lastSetURL != blobs.PublicURL(ref.Path) {
		t.Errorf("backend reference %q does not match the new blob %q", catalog.lastSetURL, ref.Path)
	}
	if blobs.live["menu/m1/old.jpg"] {
		t.Error("the replaced blob must be deleted after the reference write")
	}
	if !blobs.live[ref.Path] {
		t.Error("the new blob must stay live")
	}
}

func TestReplaceRollsBackUploadWhenReferenceWriteFails(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.live["menu/m1/old.jpg"] = true
	catalog := &fakeCatalog{
		imageURL: blobs.PublicURL("menu/m1/old.jpg"),
		setErr:   errors.New("backend rejected the write"),
	}
	svc := newService(blobs, catalog)

	ref, err := svc.ReplaceItemImage(context.Background(), "m1", "image/jpeg", 100, body())
	if err == nil {
		t.Fatal("expected the replace to fail")
	}

	if ref.Path != "menu/m1/old.jpg" {
		t.Errorf("expected the previous image to be reported live, got %+v", ref)
	}
	if !blobs.live["menu/m1/old.jpg"] {
		t.Error("the previous blob must survive a failed reference write")
	}
	if len(blobs.live) != 1 {
		t.Errorf("the provisional upload must be rolled back, live blobs: %v", blobs.live)
	}
}

func TestReplaceNeverDeletesExternalImage(t *testing.T) {
	blobs := newFakeBlobStore()
	catalog := &fakeCatalog{imageURL: "https://cdn.elsewhere.example/seed.jpg"}
	svc := newService(blobs, catalog)

	if _, err := svc.ReplaceItemImage(context.Background(), "m1", "image/webp", 100, body()); err != nil {
		t.Fatalf("ReplaceItemImage: %v", err)
	}

	for _, p := range blobs.deleted {
		if strings.Contains(p, "elsewhere") {
			t.Fatalf("externally hosted image must never be deleted, deleted %v", blobs.deleted)
		}
	}
	if len(blobs.deleted) != 0 {
		t.Errorf("nothing in the bucket should have been deleted, got %v", blobs.deleted)
	}
}
