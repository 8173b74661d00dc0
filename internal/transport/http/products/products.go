package products

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warungnusantara/storefront/internal/service/models/product"
)

// service is the catalog surface the product handlers need.
type service interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ExtractProduct(ctx context.Context, mimeType string, image []byte) (*product.Extraction, error)
}

// productRequest creates or updates a catalog entry.
type productRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price"       validate:"gt=0"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"    validate:"required"`
	IsAvailable bool   `json:"isAvailable"`
}

// Validate validates the product request.
func (r *productRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *productRequest) toModel() product.Product {
	return product.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		IsAvailable: r.IsAvailable,
	}
}

// ListProducts handles the catalog listing request.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	catalog, err := service.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing products", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(catalog); err != nil {
		slog.Error("Error sending response for list products", "error", err)
	}
}

// CreateProduct handles the catalog entry creation request.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := productRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create product", "error", err)

		return
	}

	created, err := service.CreateProduct(r.Context(), req.toModel())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating product", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create product", "error", err)
	}
}

// UpdateProduct handles the catalog entry update request.
func UpdateProduct(w http.ResponseWriter, r *http.Request, service service) {
	productID := chi.URLParam(r, "productID")

	req := productRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update product", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for update product", "error", err)

		return
	}

	model := req.toModel()
	model.ID = productID

	updated, err := service.UpdateProduct(r.Context(), model)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error updating product", "product_id", productID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for update product", "error", err)
	}
}

// DeleteProduct handles the catalog entry deletion request.
func DeleteProduct(w http.ResponseWriter, r *http.Request, service service) {
	productID := chi.URLParam(r, "productID")

	if err := service.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error deleting product", "product_id", productID, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
