package models

// DiscountType distinguishes percentage from flat-amount codes.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

// Discount is the resolved terms of a promotional code, as returned by the
// discount lookup API.
type Discount struct {
	Code         string       `json:"code"`
	DiscountType DiscountType `json:"discount_type"`
	Value        float64      `json:"value"`
}

// AppliedDiscount records the single code currently attached to a user's cart.
// The ledger only records it after both lookup and attach succeeded.
type AppliedDiscount struct {
	Code         string       `json:"code"`
	DiscountType DiscountType `json:"discount_type"`
	Value        float64      `json:"value"`
}
