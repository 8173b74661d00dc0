package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/warungnusantara/storefront/internal/service/models/order"
)

// QueueStatusChanged receives order lifecycle events.
const QueueStatusChanged = "storefront.order.status_changed"

// Message is a pending event awaiting publication to RabbitMQ. Rows are
// staged in the same transaction as the state change they describe.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// StatusChangedEvent describes one order status mutation.
type StatusChangedEvent struct {
	OrderID       string              `json:"order_id"`
	Status        order.Status        `json:"status"`
	PaymentStatus order.PaymentStatus `json:"payment_status"`
	PaymentID     string              `json:"payment_id,omitempty"`
	Source        string              `json:"source"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// NewStatusChangedMessage builds an outbox row for a status mutation.
func NewStatusChangedMessage(event StatusChangedEvent) (Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal status changed event: %w", err)
	}

	now := time.Now()

	return Message{
		QueueName:   QueueStatusChanged,
		RoutingKey:  QueueStatusChanged,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  10,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}, nil
}
