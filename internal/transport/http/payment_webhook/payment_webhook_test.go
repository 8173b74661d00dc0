package paymentwebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
)

type stubService struct {
	err   error
	event *payment.Event
}

func (s *stubService) ReconcilePaymentEvent(_ context.Context, event payment.Event) error {
	s.event = &event

	return s.err
}

func validPayload() map[string]string {
	return map[string]string{
		"order_id":           "order-1",
		"transaction_status": "settlement",
		"fraud_status":       "accept",
		"transaction_id":     "tx-1",
		"signature_key":      "abc123",
	}
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "ok",
			payload:    validPayload(),
			wantStatus: http.StatusOK,
		},
		{
			name: "missing_signature",
			payload: func() map[string]string {
				p := validPayload()
				delete(p, "signature_key")

				return p
			}(),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid_signature",
			payload:    validPayload(),
			serviceErr: payment.ErrInvalidSignature,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown_transaction_status",
			payload:    validPayload(),
			serviceErr: payment.ErrUnknownStatus,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "order_not_found",
			payload:    validPayload(),
			serviceErr: order.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "storage_error_returns_5xx_for_gateway_retry",
			payload:    validPayload(),
			serviceErr: errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			Webhook(rec, req, &stubService{err: tt.serviceErr})

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	svc := &stubService{}
	Webhook(rec, req, svc)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if svc.event != nil {
		t.Error("service called for malformed body")
	}
}

func TestWebhookPassesEventThrough(t *testing.T) {
	body, err := json.Marshal(validPayload())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	svc := &stubService{}
	Webhook(rec, req, svc)

	if svc.event == nil {
		t.Fatal("service was not called")
	}
	want := payment.Event{
		OrderID:           "order-1",
		TransactionStatus: "settlement",
		FraudStatus:       "accept",
		TransactionID:     "tx-1",
		SignatureKey:      "abc123",
	}
	if *svc.event != want {
		t.Errorf("event = %+v, want %+v", *svc.event, want)
	}
}
