package images

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plateful/ordering-gateway/internal/service/models/image"
	"github.com/plateful/ordering-gateway/internal/transport/http/respond"
)

const maxFormMemory = 8 << 20

// service is an interface for the service layer.
type service interface {
	ReplaceItemImage(ctx context.Context, itemID, contentType string, size int64, r io.Reader) (image.Ref, error)
}

// Replace handles the menu item image swap. The multipart field is
// named "image". The response names the image that is live after the
// call, which on a failed swap is still the previous one.
func Replace(w http.ResponseWriter, r *http.Request, service service) {
	itemID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to parse multipart form")

		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "missing image file")

		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	ref, err := service.ReplaceItemImage(r.Context(), itemID, contentType, header.Size, file)
	if err != nil {
		slog.Error("Error replacing item image", "item_id", itemID, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, ref)
}
