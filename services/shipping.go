package services

// Shipping charge slabs in INR. Free above the high threshold, reduced above
// the mid one, flat fee otherwise.
const (
	freeShippingThreshold    = 1000
	reducedShippingThreshold = 500
	reducedShippingCharge    = 50
	flatShippingCharge       = 100
)

// ShippingCharge derives the delivery fee from the cart subtotal. It is
// monotonically non-increasing in the subtotal.
func ShippingCharge(subtotal float64) float64 {
	switch {
	case subtotal >= freeShippingThreshold:
		return 0
	case subtotal >= reducedShippingThreshold:
		return reducedShippingCharge
	default:
		return flatShippingCharge
	}
}
