package products

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/warungnusantara/storefront/internal/service/services/productsvc"
)

// maxImageSize bounds uploaded product photos to 10 MiB.
const maxImageSize = 10 << 20

// ExtractProduct handles the image-to-product extraction request. The image
// arrives as the "image" field of a multipart form.
func ExtractProduct(w http.ResponseWriter, r *http.Request, service service) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error parsing multipart form for ai extract", "error", err)

		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "no image provided", http.StatusBadRequest)
		slog.Error("Error reading image from form for ai extract", "error", err)

		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error reading image data for ai extract", "error", err)

		return
	}

	extraction, err := service.ExtractProduct(r.Context(), header.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, productsvc.ErrInvalidExtraction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		slog.Error("Error extracting product from image", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(extraction); err != nil {
		slog.Error("Error sending response for ai extract", "error", err)
	}
}
