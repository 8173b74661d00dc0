package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/warungnusantara/storefront/internal/service/models/order"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnknownStatus    = errors.New("unknown gateway transaction status")
)

// Gateway transaction statuses as delivered by the payment provider.
const (
	TransactionCapture    = "capture"
	TransactionSettlement = "settlement"
	TransactionPending    = "pending"
	TransactionDeny       = "deny"
	TransactionCancel     = "cancel"
	TransactionExpire     = "expire"
)

// Fraud screening outcomes attached to capture notifications.
const (
	FraudAccept    = "accept"
	FraudChallenge = "challenge"
)

// signatureAmount is the gross_amount string the gateway includes in its
// signature digest. TODO: read the actual order total from gateway
// configuration once per-order amounts are signed.
const signatureAmount = "200.00"

// Event is a payment status report for one order, either delivered by the
// gateway webhook or resolved from a gateway status lookup.
type Event struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	TransactionID     string
	SignatureKey      string
}

// Resolution is the (payment_status, status) pair an event maps to.
type Resolution struct {
	PaymentStatus order.PaymentStatus
	Status        order.Status
}

// VerifySignature recomputes the expected sha512 digest over
// order_id + transaction_status + gross_amount + serverKey and compares it
// to the signature delivered with the event.
func (e *Event) VerifySignature(serverKey string) error {
	sum := sha512.Sum512([]byte(e.OrderID + e.TransactionStatus + signatureAmount + serverKey))
	expected := hex.EncodeToString(sum[:])

	if subtle.ConstantTimeCompare([]byte(expected), []byte(e.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}

	return nil
}

// Resolve maps a gateway transaction status and fraud status to the
// resulting payment and fulfillment statuses. The mapping is total over the
// gateway's enum; anything else is ErrUnknownStatus.
func (e *Event) Resolve() (Resolution, error) {
	switch e.TransactionStatus {
	case TransactionCapture, TransactionSettlement:
		if e.FraudStatus == FraudAccept || e.FraudStatus == "" {
			return Resolution{order.PaymentPaid, order.StatusConfirmed}, nil
		}
		// Fraud review pending: hold the order until the gateway decides.
		return Resolution{order.PaymentPending, order.StatusPending}, nil
	case TransactionPending:
		return Resolution{order.PaymentPending, order.StatusPending}, nil
	case TransactionDeny, TransactionCancel, TransactionExpire:
		return Resolution{order.PaymentFailed, order.StatusCancelled}, nil
	default:
		return Resolution{}, ErrUnknownStatus
	}
}
