package models

import "time"

// CartLineItem is one line of the user's cart as returned by the cart API.
// Stock is a pointer because the backend omits it when the product snapshot
// is not embedded; a nil stock means "unknown" and disables local stock checks.
type CartLineItem struct {
	ItemID    string  `json:"item_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Stock     *int    `json:"stock,omitempty"`
}

// CartTotals are computed by the backend on every cart refresh. The client
// never recomputes them; total = subtotal - discount_amount is server enforced.
type CartTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// CartSnapshot is the last server-confirmed cart state for one user.
type CartSnapshot struct {
	UserID    string         `json:"user_id"`
	Items     []CartLineItem `json:"items"`
	Totals    CartTotals     `json:"totals"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Item returns the line item with the given id, if present.
func (c *CartSnapshot) Item(itemID string) (*CartLineItem, bool) {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// HasProduct reports whether a product is already in the cart.
func (c *CartSnapshot) HasProduct(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}

// CartSummary is the cart screen view: server totals plus the derived
// shipping charge and grand total.
type CartSummary struct {
	Items          []CartLineItem `json:"items"`
	Totals         CartTotals     `json:"totals"`
	ShippingCharge float64        `json:"shipping_charge"`
	GrandTotal     float64        `json:"grand_total"`
}
