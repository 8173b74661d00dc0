package midtrans

import (
	"context"
	"fmt"
	"os"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/spf13/viper"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
)

// Client wraps the gateway's hosted-checkout (snap) and status-lookup
// (core) APIs.
type Client struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
}

// MustNewClient creates a gateway client from MIDTRANS_SERVER_KEY and the
// configured environment.
func MustNewClient() *Client {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		panic("MIDTRANS_SERVER_KEY is not set")
	}

	env := midtrans.Sandbox
	if viper.GetString("midtrans.environment") == "production" {
		env = midtrans.Production
	}

	c := &Client{serverKey: serverKey}
	c.snap.New(serverKey, env)
	c.core.New(serverKey, env)

	return c
}

// ServerKey returns the shared secret used for webhook signature checks.
func (c *Client) ServerKey() string {
	return c.serverKey
}

// CreateSession opens a hosted-checkout session for the order and returns
// the widget token and redirect URL.
func (c *Client) CreateSession(ctx context.Context, o *order.Order) (*payment.Session, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.ID,
			GrossAmt: o.TotalAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: o.CustomerName,
			Email: o.CustomerEmail,
			Phone: o.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    o.ID,
				Price: o.TotalAmount,
				Qty:   1,
				Name:  viper.GetString("midtrans.order_item_name"),
			},
		},
	}

	resp, mErr := c.snap.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", mErr)
	}

	return &payment.Session{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// CheckTransaction queries the gateway for the authoritative status of an
// order's transaction.
func (c *Client) CheckTransaction(ctx context.Context, orderID string) (*payment.Event, error) {
	resp, mErr := c.core.CheckTransaction(orderID)
	if mErr != nil {
		return nil, fmt.Errorf("failed to check transaction status: %w", mErr)
	}

	return &payment.Event{
		OrderID:           resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		TransactionID:     resp.TransactionID,
		SignatureKey:      resp.SignatureKey,
	}, nil
}
