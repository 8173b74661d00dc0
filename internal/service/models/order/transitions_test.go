package order

import (
	"errors"
	"testing"

	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []Status{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusCompleted, StatusCancelled,
	}

	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusPreparing: true, StatusCancelled: true},
		StatusPreparing: {StatusReady: true},
		StatusReady:     {StatusCompleted: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestValidateManualTransition(t *testing.T) {
	tests := []struct {
		name          string
		status        Status
		paymentStatus PaymentStatus
		to            Status
		wantErr       error
	}{
		{
			name:          "confirm_paid_order",
			status:        StatusPending,
			paymentStatus: PaymentPaid,
			to:            StatusConfirmed,
			wantErr:       nil,
		},
		{
			name:          "confirm_unpaid_order",
			status:        StatusPending,
			paymentStatus: PaymentPending,
			to:            StatusConfirmed,
			wantErr:       ErrInvalidTransition,
		},
		{
			name:          "cancel_pending_order",
			status:        StatusPending,
			paymentStatus: PaymentPending,
			to:            StatusCancelled,
			wantErr:       nil,
		},
		{
			name:          "skip_ahead_pending_to_completed",
			status:        StatusPending,
			paymentStatus: PaymentPaid,
			to:            StatusCompleted,
			wantErr:       ErrInvalidTransition,
		},
		{
			name:          "confirmed_to_preparing",
			status:        StatusConfirmed,
			paymentStatus: PaymentPaid,
			to:            StatusPreparing,
			wantErr:       nil,
		},
		{
			name:          "cancel_after_preparing_started",
			status:        StatusPreparing,
			paymentStatus: PaymentPaid,
			to:            StatusCancelled,
			wantErr:       ErrInvalidTransition,
		},
		{
			name:          "ready_to_completed",
			status:        StatusReady,
			paymentStatus: PaymentPaid,
			to:            StatusCompleted,
			wantErr:       nil,
		},
		{
			name:          "completed_is_terminal",
			status:        StatusCompleted,
			paymentStatus: PaymentPaid,
			to:            StatusPending,
			wantErr:       ErrInvalidTransition,
		},
		{
			name:          "cancelled_is_terminal",
			status:        StatusCancelled,
			paymentStatus: PaymentFailed,
			to:            StatusConfirmed,
			wantErr:       ErrInvalidTransition,
		},
		{
			name:          "no_backward_moves",
			status:        StatusReady,
			paymentStatus: PaymentPaid,
			to:            StatusPreparing,
			wantErr:       ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Status: tt.status, PaymentStatus: tt.paymentStatus}

			err := o.ValidateManualTransition(tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateManualTransition(%s) error = %v, want %v", tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("preparing"); err != nil {
		t.Errorf("ParseStatus(preparing) error = %v", err)
	}
	if _, err := ParseStatus("shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(shipped) error = %v, want ErrInvalidStatus", err)
	}
}

func TestItemsTotal(t *testing.T) {
	o := Order{}
	if got := o.ItemsTotal(); got != 0 {
		t.Errorf("ItemsTotal() on empty order = %d, want 0", got)
	}

	o.OrderItems = []orderitem.OrderItem{
		{Price: 25000, Quantity: 2},
		{Price: 12000, Quantity: 1},
	}
	if got := o.ItemsTotal(); got != 62000 {
		t.Errorf("ItemsTotal() = %d, want 62000", got)
	}
}
