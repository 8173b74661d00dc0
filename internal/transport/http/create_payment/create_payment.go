package createpayment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
)

// service is an interface for the service layer.
type service interface {
	CreateSession(ctx context.Context, orderID string) (*payment.Session, error)
}

// createPaymentRequest asks for a hosted-checkout session.
type createPaymentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// Validate validates the session request.
func (r *createPaymentRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreatePayment handles the hosted-checkout session request.
func CreatePayment(w http.ResponseWriter, r *http.Request, service service) {
	req := createPaymentRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create payment", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create payment", "error", err)

		return
	}

	session, err := service.CreateSession(r.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		slog.Error("Error creating payment session", "order_id", req.OrderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(session); err != nil {
		slog.Error("Error sending response for create payment", "error", err)
	}
}
