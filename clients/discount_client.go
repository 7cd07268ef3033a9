package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kunalkumaramar/daadis/models"
)

// DiscountAPI covers the two-step coupon contract: Lookup resolves a code to
// its terms, Apply attaches it to the cart, Remove detaches it.
type DiscountAPI interface {
	Lookup(ctx context.Context, userID, code string) (*models.Discount, error)
	Apply(ctx context.Context, userID, code, discountType string) error
	Remove(ctx context.Context, userID string) error
}

type DiscountClient struct {
	backend *BackendClient
}

func NewDiscountClient(backend *BackendClient) *DiscountClient {
	return &DiscountClient{backend: backend}
}

func (c *DiscountClient) Lookup(ctx context.Context, userID, code string) (*models.Discount, error) {
	var out struct {
		Data models.Discount `json:"data"`
	}
	path := "/discounts/" + url.PathEscape(code)
	if err := c.backend.DoJSON(ctx, http.MethodGet, path, userID, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *DiscountClient) Apply(ctx context.Context, userID, code, discountType string) error {
	payload := map[string]string{
		"code": code,
		"type": discountType,
	}
	return c.backend.DoJSON(ctx, http.MethodPost, "/cart/discount", userID, payload, nil)
}

func (c *DiscountClient) Remove(ctx context.Context, userID string) error {
	return c.backend.DoJSON(ctx, http.MethodDelete, "/cart/discount", userID, nil, nil)
}
