package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kunalkumaramar/daadis/models"
)

// WishlistAPI is the authenticated wishlist contract.
type WishlistAPI interface {
	Fetch(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type WishlistClient struct {
	backend *BackendClient
}

func NewWishlistClient(backend *BackendClient) *WishlistClient {
	return &WishlistClient{backend: backend}
}

func (c *WishlistClient) Fetch(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var out struct {
		Data []models.WishlistItem `json:"data"`
	}
	if err := c.backend.DoJSON(ctx, http.MethodGet, "/wishlist", userID, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *WishlistClient) Add(ctx context.Context, userID, productID string) error {
	payload := map[string]string{"product": productID}
	return c.backend.DoJSON(ctx, http.MethodPost, "/wishlist", userID, payload, nil)
}

func (c *WishlistClient) Remove(ctx context.Context, userID, productID string) error {
	path := "/wishlist/" + url.PathEscape(productID)
	return c.backend.DoJSON(ctx, http.MethodDelete, path, userID, nil, nil)
}
