package models

// PaymentInitResponse is the payment initiation response. Key and Payment are
// both required before the provider UI can be opened.
type PaymentInitResponse struct {
	Data struct {
		Key     string          `json:"key"`
		Payment *PaymentSession `json:"payment"`
	} `json:"data"`
}

// PaymentSession describes one provider-side payment session. Amount is in
// major currency units here; it is converted to minor units when the provider
// checkout is opened.
type PaymentSession struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
	Notes    struct {
		RazorpayOrder struct {
			ID string `json:"id"`
		} `json:"razorpayOrder"`
	} `json:"notes"`
}

// PaymentVerification carries the three identifiers the provider hands back
// on success; all are required before verification is attempted.
type PaymentVerification struct {
	ProviderOrderID   string `json:"razorpay_order_id"`
	ProviderPaymentID string `json:"razorpay_payment_id"`
	ProviderSignature string `json:"razorpay_signature"`
}

// Complete reports whether all three provider identifiers are present.
func (v PaymentVerification) Complete() bool {
	return v.ProviderOrderID != "" && v.ProviderPaymentID != "" && v.ProviderSignature != ""
}
