package models

// OrderAddress is the address shape the order API expects: a saved address
// annotated with a country and the phone number resolved at checkout.
type OrderAddress struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PinCode      string `json:"pinCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

// OrderRequest is the order creation payload. Billing always equals shipping
// in this flow.
type OrderRequest struct {
	ShippingAddress OrderAddress `json:"shippingAddress"`
	BillingAddress  OrderAddress `json:"billingAddress"`
	PaymentMethod   string       `json:"paymentMethod"`
	Notes           string       `json:"notes"`
	TotalAmount     float64      `json:"totalAmount"`
	DiscountAmount  float64      `json:"discountAmount"`
	CouponCode      string       `json:"couponCode"`
}

// OrderCreateResponse mirrors the loosely-specified order API response. The
// backend has been observed returning the id under either "orderId" or "_id";
// OrderID normalizes the two.
type OrderCreateResponse struct {
	Data struct {
		OrderID string `json:"orderId"`
		MongoID string `json:"_id"`
	} `json:"data"`
}

// OrderID returns the order id from whichever field carries it.
func (r *OrderCreateResponse) OrderID() (string, bool) {
	if r.Data.OrderID != "" {
		return r.Data.OrderID, true
	}
	if r.Data.MongoID != "" {
		return r.Data.MongoID, true
	}
	return "", false
}
