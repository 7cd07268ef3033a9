package providers

import "context"

// Session is the option set handed to the provider checkout UI. Amount is in
// minor currency units (paise). UserID identifies the owning customer and
// never reaches the widget.
type Session struct {
	UserID      string  `json:"-"`
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type Theme struct {
	Color string `json:"color"`
}

// PaymentResult carries the identifiers the provider reports on success.
type PaymentResult struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Callbacks are the three mutually exclusive terminals of one provider
// session; exactly one fires, exactly once.
type Callbacks struct {
	OnSuccess func(ctx context.Context, result PaymentResult)
	OnFailure func(ctx context.Context, description string)
	OnDismiss func(ctx context.Context)
}

// PaymentProvider opens a checkout session with the third-party payment UI.
// The UI runs outside this service's control and resumes the flow through
// exactly one of the registered callbacks.
type PaymentProvider interface {
	Open(ctx context.Context, session Session, callbacks Callbacks) error
}
