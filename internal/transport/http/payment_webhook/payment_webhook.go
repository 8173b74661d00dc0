package paymentwebhook

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
	ReconcilePaymentEvent(ctx context.Context, event payment.Event) error
}

// webhookRequest is the gateway's notification payload.
type webhookRequest struct {
	OrderID           string `json:"order_id"           validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"     validate:"required"`
	SignatureKey      string `json:"signature_key"      validate:"required"`
}

// Validate validates the webhook payload.
func (r *webhookRequest) Validate() error {
	return validator.New().Struct(r)
}

// Webhook handles the asynchronous payment notification. Storage failures
// return a 5xx so the gateway's own retry policy re-delivers later.
func Webhook(w http.ResponseWriter, r *http.Request, service service) {
	req := webhookRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding webhook payload", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating webhook payload", "error", err)

		return
	}

	event := payment.Event{
		OrderID:           req.OrderID,
		TransactionStatus: req.TransactionStatus,
		FraudStatus:       req.FraudStatus,
		TransactionID:     req.TransactionID,
		SignatureKey:      req.SignatureKey,
	}

	if err := service.ReconcilePaymentEvent(r.Context(), event); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature),
			errors.Is(err, payment.ErrUnknownStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, order.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error reconciling payment event", "order_id", req.OrderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("Error sending response for payment webhook", "error", err)
	}
}
