package clients

import (
	"context"
	"errors"
	"net/http"

	"github.com/kunalkumaramar/daadis/models"
)

// ErrInvalidPaymentData means the initiation response is missing the provider
// key or the payment session; the provider UI cannot be opened without both.
var ErrInvalidPaymentData = errors.New("invalid payment data")

// PaymentAPI initiates provider payment sessions and verifies completed ones.
type PaymentAPI interface {
	Initiate(ctx context.Context, userID, orderID, method string) (string, *models.PaymentSession, error)
	Verify(ctx context.Context, userID string, v models.PaymentVerification) error
}

type PaymentClient struct {
	backend *BackendClient
}

func NewPaymentClient(backend *BackendClient) *PaymentClient {
	return &PaymentClient{backend: backend}
}

// Initiate returns the provider key and session for an order, failing when
// either is absent from the response.
func (c *PaymentClient) Initiate(ctx context.Context, userID, orderID, method string) (string, *models.PaymentSession, error) {
	payload := map[string]string{
		"orderId": orderID,
		"method":  method,
	}
	var out models.PaymentInitResponse
	if err := c.backend.DoJSON(ctx, http.MethodPost, "/payments/initiate", userID, payload, &out); err != nil {
		return "", nil, err
	}
	if out.Data.Key == "" || out.Data.Payment == nil {
		return "", nil, ErrInvalidPaymentData
	}
	return out.Data.Key, out.Data.Payment, nil
}

func (c *PaymentClient) Verify(ctx context.Context, userID string, v models.PaymentVerification) error {
	return c.backend.DoJSON(ctx, http.MethodPost, "/payments/verify", userID, v, nil)
}
