package clients

import (
	"context"
	"errors"
	"net/http"

	"github.com/kunalkumaramar/daadis/models"
)

// ErrMissingOrderID means the order API answered without an id under any of
// the recognized fields. Checkout must not proceed on it.
var ErrMissingOrderID = errors.New("failed to get order ID from response")

// OrderAPI creates orders. Create normalizes the loosely-specified response
// into a concrete order id or fails hard.
type OrderAPI interface {
	Create(ctx context.Context, userID string, req *models.OrderRequest) (string, error)
}

type OrderClient struct {
	backend *BackendClient
}

func NewOrderClient(backend *BackendClient) *OrderClient {
	return &OrderClient{backend: backend}
}

func (c *OrderClient) Create(ctx context.Context, userID string, req *models.OrderRequest) (string, error) {
	var out models.OrderCreateResponse
	if err := c.backend.DoJSON(ctx, http.MethodPost, "/orders", userID, req, &out); err != nil {
		return "", err
	}
	orderID, ok := out.OrderID()
	if !ok {
		return "", ErrMissingOrderID
	}
	return orderID, nil
}
