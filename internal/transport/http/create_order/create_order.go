package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a checkout request.
type itemInCreateOrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
	Price     int64  `json:"price"     validate:"gt=0"`
}

// createOrderRequest represents a checkout request.
type createOrderRequest struct {
	CustomerName  string                     `json:"customerName"  validate:"required"`
	CustomerEmail string                     `json:"customerEmail" validate:"required,email"`
	CustomerPhone string                     `json:"customerPhone"`
	TotalAmount   int64                      `json:"totalAmount"   validate:"gt=0"`
	Notes         string                     `json:"notes"`
	Items         []itemInCreateOrderRequest `json:"items"         validate:"required,min=1,dive"`
}

// Validate validates the checkout request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to order.Order.
func (r *createOrderRequest) toModel() order.Order {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = orderitem.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return order.Order{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		TotalAmount:   r.TotalAmount,
		Notes:         r.Notes,
		OrderItems:    items,
	}
}

// CreateOrder handles the checkout request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	created, err := service.CreateOrder(r.Context(), orderReq.toModel())
	if err != nil {
		if errors.Is(err, order.ErrMissingFields) || errors.Is(err, order.ErrTotalMismatch) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
