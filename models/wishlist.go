package models

import "time"

// WishlistItem references a product saved for later. PriceWhenAdded is the
// price shown if the catalog price has since changed. Stock is the catalog
// stock at fetch time; nil when the upstream response omits it.
type WishlistItem struct {
	ID             string    `json:"_id,omitempty"`
	Product        string    `json:"product"`
	PriceWhenAdded float64   `json:"priceWhenAdded,omitempty"`
	Stock          *int      `json:"stock,omitempty"`
	AddedAt        time.Time `json:"added_at,omitempty"`
}
