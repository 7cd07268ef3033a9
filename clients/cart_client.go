package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kunalkumaramar/daadis/models"
)

// CartAPI is the cart service contract the store depends on. Every mutation
// is a single remote call; callers resynchronize totals with Fetch afterwards.
type CartAPI interface {
	Fetch(ctx context.Context, userID string) (*models.CartSnapshot, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type CartClient struct {
	backend *BackendClient
}

func NewCartClient(backend *BackendClient) *CartClient {
	return &CartClient{backend: backend}
}

func (c *CartClient) Fetch(ctx context.Context, userID string) (*models.CartSnapshot, error) {
	var cart models.CartSnapshot
	if err := c.backend.DoJSON(ctx, http.MethodGet, "/cart", userID, nil, &cart); err != nil {
		return nil, err
	}
	cart.UserID = userID
	return &cart, nil
}

func (c *CartClient) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	payload := map[string]interface{}{
		"product":  productID,
		"quantity": quantity,
	}
	return c.backend.DoJSON(ctx, http.MethodPost, "/cart/items", userID, payload, nil)
}

func (c *CartClient) UpdateItem(ctx context.Context, userID, itemID string, quantity int) error {
	payload := map[string]interface{}{
		"quantity": quantity,
	}
	path := fmt.Sprintf("/cart/items/%s", itemID)
	return c.backend.DoJSON(ctx, http.MethodPatch, path, userID, payload, nil)
}

func (c *CartClient) RemoveItem(ctx context.Context, userID, itemID string) error {
	path := fmt.Sprintf("/cart/items/%s", itemID)
	return c.backend.DoJSON(ctx, http.MethodDelete, path, userID, nil, nil)
}

func (c *CartClient) Clear(ctx context.Context, userID string) error {
	return c.backend.DoJSON(ctx, http.MethodPost, "/cart/clear", userID, nil, nil)
}
