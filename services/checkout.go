package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/kunalkumaramar/daadis/clients"
	"github.com/kunalkumaramar/daadis/config"
	"github.com/kunalkumaramar/daadis/models"
	"github.com/kunalkumaramar/daadis/pkg/aws"
	"github.com/kunalkumaramar/daadis/providers"
	"github.com/kunalkumaramar/daadis/repository"
	"go.uber.org/zap"
)

// CheckoutState is the phase of a user's current checkout attempt.
type CheckoutState string

const (
	StateNotStarted             CheckoutState = "not_started"
	StateAddressPending         CheckoutState = "address_pending"
	StateAddressResolved        CheckoutState = "address_resolved"
	StateOrderCreating          CheckoutState = "order_creating"
	StatePaymentSessionCreating CheckoutState = "payment_session_creating"
	StatePaymentUIOpen          CheckoutState = "payment_ui_open"
	StatePaymentVerifying       CheckoutState = "payment_verifying"
	StateSucceeded              CheckoutState = "succeeded"
	StateFailed                 CheckoutState = "failed"
)

// CheckoutResult carries what the confirmation screen needs after a verified
// payment.
type CheckoutResult struct {
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutStatus is the externally visible state of a user's checkout.
type CheckoutStatus struct {
	State           CheckoutState      `json:"state"`
	Message         string             `json:"message,omitempty"`
	ProviderOrderID string             `json:"provider_order_id,omitempty"`
	Session         *providers.Session `json:"session,omitempty"`
	Result          *CheckoutResult    `json:"result,omitempty"`
}

const paymentMethod = "razorpay"

// CheckoutService drives a checkout attempt from cart to verified payment:
// resolve an address, create the order, initiate the payment session, open
// the provider UI and handle whichever of its three outcomes fires. One
// attempt per user at a time, enforced by a TTL'd lock so a request that
// never resolves cannot block the user forever.
type CheckoutService struct {
	cart     *CartService
	ledger   *DiscountLedger
	address  *AddressFlow
	orders   clients.OrderAPI
	payments clients.PaymentAPI
	profiles clients.ProfileAPI
	provider providers.PaymentProvider
	lock     repository.CheckoutLock
	receipts repository.ReceiptRepository
	events   aws.SNSPublisher
	cfg      config.Config
	logger   *zap.Logger

	mu       sync.Mutex
	statuses map[string]*CheckoutStatus
}

// checkoutAttempt is the per-user context carried from order creation to the
// provider callback.
type checkoutAttempt struct {
	orderID string
	amount  float64
}

type CheckoutDeps struct {
	Cart     *CartService
	Ledger   *DiscountLedger
	Address  *AddressFlow
	Orders   clients.OrderAPI
	Payments clients.PaymentAPI
	Profiles clients.ProfileAPI
	Provider providers.PaymentProvider
	Lock     repository.CheckoutLock
	Receipts repository.ReceiptRepository
	Events   aws.SNSPublisher
}

func NewCheckoutService(deps CheckoutDeps, cfg config.Config, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		cart:     deps.Cart,
		ledger:   deps.Ledger,
		address:  deps.Address,
		orders:   deps.Orders,
		payments: deps.Payments,
		profiles: deps.Profiles,
		provider: deps.Provider,
		lock:     deps.Lock,
		receipts: deps.Receipts,
		events:   deps.Events,
		cfg:      cfg,
		logger:   logger,
		statuses: make(map[string]*CheckoutStatus),
	}
}

// Begin starts a checkout attempt. Note is the optional free-text order
// note. When the profile does not yield a usable address it parks in
// address_pending and releases the lock; the attempt resumes through
// ProceedWithAddress.
func (s *CheckoutService) Begin(ctx context.Context, userID, note string) (*CheckoutStatus, *ServiceError) {
	if userID == "" {
		return nil, &ServiceError{StatusCode: 401, Message: "Please login to proceed"}
	}

	if svcErr := s.acquire(ctx, userID); svcErr != nil {
		return nil, svcErr
	}

	resolved, ok, svcErr := s.address.Resolve(ctx, userID)
	if svcErr != nil {
		s.release(ctx, userID)
		s.setState(userID, StateNotStarted, svcErr.Message)
		return nil, svcErr
	}
	if !ok {
		s.release(ctx, userID)
		return s.setState(userID, StateAddressPending, "Delivery address required"), nil
	}

	return s.proceed(ctx, userID, resolved, note)
}

// ProceedWithAddress resumes (or starts) checkout with an already resolved
// address, typically right after address collection.
func (s *CheckoutService) ProceedWithAddress(ctx context.Context, userID string, resolved *ResolvedAddress, note string) (*CheckoutStatus, *ServiceError) {
	if userID == "" {
		return nil, &ServiceError{StatusCode: 401, Message: "Please login to proceed"}
	}
	if svcErr := s.acquire(ctx, userID); svcErr != nil {
		return nil, svcErr
	}
	return s.proceed(ctx, userID, resolved, note)
}

// proceed runs order creation and payment initiation with the lock held. The
// lock stays held while the provider UI is open; it is released by whichever
// callback resolves the session, or expires with its TTL if none ever does.
func (s *CheckoutService) proceed(ctx context.Context, userID string, resolved *ResolvedAddress, note string) (*CheckoutStatus, *ServiceError) {
	s.setState(userID, StateAddressResolved, "")

	summary, svcErr := s.cart.Summary(ctx, userID)
	if svcErr != nil {
		s.release(ctx, userID)
		s.setState(userID, StateNotStarted, svcErr.Message)
		return nil, svcErr
	}
	if len(summary.Items) == 0 {
		s.release(ctx, userID)
		s.setState(userID, StateNotStarted, "")
		return nil, &ServiceError{StatusCode: 400, Message: "Your cart is empty"}
	}

	s.setState(userID, StateOrderCreating, "")

	orderAddr := models.OrderAddress{
		Name:         resolved.Address.Name,
		AddressLine1: resolved.Address.AddressLine1,
		City:         resolved.Address.City,
		State:        resolved.Address.State,
		PinCode:      resolved.Address.PinCode,
		Country:      "India",
		Phone:        resolved.Phone,
	}
	orderReq := &models.OrderRequest{
		ShippingAddress: orderAddr,
		BillingAddress:  orderAddr,
		PaymentMethod:   paymentMethod,
		Notes:           note,
		TotalAmount:     summary.GrandTotal,
		DiscountAmount:  summary.Totals.DiscountAmount,
	}
	if applied, ok := s.ledger.Applied(userID); ok {
		orderReq.CouponCode = applied.Code
	}

	orderID, err := s.orders.Create(ctx, userID, orderReq)
	if err != nil {
		s.release(ctx, userID)
		if errors.Is(err, clients.ErrMissingOrderID) {
			s.logger.Error("Order creation returned no id", zap.String("user_id", userID))
			status := s.setState(userID, StateFailed, err.Error())
			return status, &ServiceError{StatusCode: 502, Message: err.Error()}
		}
		s.logger.Error("Order creation failed", zap.String("user_id", userID), zap.Error(err))
		s.setState(userID, StateNotStarted, "")
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to create order. Please try again."}
	}

	s.setState(userID, StatePaymentSessionCreating, "")

	key, payment, err := s.payments.Initiate(ctx, userID, orderID, paymentMethod)
	if err != nil {
		s.release(ctx, userID)
		if errors.Is(err, clients.ErrInvalidPaymentData) {
			s.logger.Error("Payment initiation returned incomplete data", zap.String("order_id", orderID))
			status := s.setState(userID, StateFailed, "Invalid payment data")
			return status, &ServiceError{StatusCode: 502, Message: "Invalid payment data"}
		}
		s.logger.Error("Payment initiation failed", zap.String("order_id", orderID), zap.Error(err))
		s.setState(userID, StateNotStarted, "")
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to initiate payment. Please try again."}
	}

	session := providers.Session{
		UserID:      userID,
		Key:         key,
		Amount:      int64(math.Round(payment.Amount * 100)),
		Currency:    payment.Currency,
		Name:        s.cfg.StoreName,
		Description: "Order " + payment.Receipt,
		OrderID:     payment.Notes.RazorpayOrder.ID,
		Prefill:     providers.Prefill{Contact: resolved.Phone},
		Theme:       providers.Theme{Color: s.cfg.ThemeColor},
	}
	if session.Currency == "" {
		session.Currency = "INR"
	}
	if profile, err := s.profiles.Get(ctx, userID); err == nil {
		session.Prefill.Name = profile.FirstName + " " + profile.LastName
		session.Prefill.Email = profile.Email
	} else {
		s.logger.Warn("Profile prefill unavailable", zap.String("user_id", userID), zap.Error(err))
	}

	attempt := &checkoutAttempt{
		orderID: orderID,
		amount:  summary.GrandTotal,
	}
	callbacks := providers.Callbacks{
		OnSuccess: func(cbCtx context.Context, result providers.PaymentResult) {
			s.handleSuccess(cbCtx, userID, attempt, result)
		},
		OnFailure: func(cbCtx context.Context, description string) {
			s.handleFailure(cbCtx, userID, description)
		},
		OnDismiss: func(cbCtx context.Context) {
			s.handleDismiss(cbCtx, userID)
		},
	}
	if err := s.provider.Open(ctx, session, callbacks); err != nil {
		s.release(ctx, userID)
		s.logger.Error("Payment session open failed", zap.String("order_id", orderID), zap.Error(err))
		s.setState(userID, StateNotStarted, "")
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to open payment. Please try again."}
	}

	status := s.setState(userID, StatePaymentUIOpen, "")
	s.mu.Lock()
	status.ProviderOrderID = session.OrderID
	status.Session = &session
	s.mu.Unlock()

	s.logger.Info("Checkout payment session open",
		zap.String("user_id", userID),
		zap.String("order_id", orderID),
		zap.String("provider_order_id", session.OrderID),
	)
	return status, nil
}

func (s *CheckoutService) handleSuccess(ctx context.Context, userID string, attempt *checkoutAttempt, result providers.PaymentResult) {
	defer s.release(ctx, userID)

	verification := models.PaymentVerification{
		ProviderOrderID:   result.OrderID,
		ProviderPaymentID: result.PaymentID,
		ProviderSignature: result.Signature,
	}
	if !verification.Complete() {
		s.logger.Error("Provider success response incomplete",
			zap.String("user_id", userID),
			zap.String("provider_order_id", result.OrderID),
		)
		s.setState(userID, StateFailed, "Payment verification failed - incomplete data")
		return
	}

	s.setState(userID, StatePaymentVerifying, "")

	if err := s.payments.Verify(ctx, userID, verification); err != nil {
		s.logger.Error("Payment verification failed",
			zap.String("user_id", userID),
			zap.String("payment_id", result.PaymentID),
			zap.Error(err),
		)
		msg := err.Error()
		if msg == "" {
			msg = "Payment verification failed"
		}
		s.setState(userID, StateFailed, msg)
		return
	}

	// Verified. The cart clear is best effort: the payment already went
	// through, so a stale cart must not fail the attempt.
	if svcErr := s.cart.Clear(ctx, userID); svcErr != nil {
		s.logger.Warn("Cart clear after payment failed", zap.String("user_id", userID), zap.String("message", svcErr.Message))
	}
	s.ledger.clear(userID)

	paidAt := time.Now()
	receipt := &models.Receipt{
		UserID:    userID,
		PaymentID: result.PaymentID,
		OrderID:   attempt.orderID,
		Amount:    attempt.amount,
		PaidAt:    paidAt,
	}
	if s.receipts != nil {
		if err := s.receipts.Create(ctx, receipt); err != nil {
			s.logger.Warn("Receipt persist failed", zap.String("payment_id", result.PaymentID), zap.Error(err))
		}
	}

	s.publishEvent(ctx, "checkout.succeeded", map[string]interface{}{
		"user_id":    userID,
		"order_id":   attempt.orderID,
		"payment_id": result.PaymentID,
		"amount":     attempt.amount,
	})

	status := s.setState(userID, StateSucceeded, "")
	s.mu.Lock()
	status.Result = &CheckoutResult{
		PaymentID: result.PaymentID,
		OrderID:   attempt.orderID,
		Amount:    attempt.amount,
		Timestamp: paidAt,
	}
	s.mu.Unlock()

	s.logger.Info("Checkout succeeded",
		zap.String("user_id", userID),
		zap.String("order_id", attempt.orderID),
		zap.String("payment_id", result.PaymentID),
	)
}

func (s *CheckoutService) handleFailure(ctx context.Context, userID, description string) {
	defer s.release(ctx, userID)

	if description == "" {
		description = "Unknown error"
	}
	msg := "Payment failed: " + description

	s.logger.Warn("Checkout payment failed", zap.String("user_id", userID), zap.String("reason", description))
	s.publishEvent(ctx, "checkout.failed", map[string]interface{}{
		"user_id": userID,
		"reason":  description,
	})
	s.setState(userID, StateFailed, msg)
}

func (s *CheckoutService) handleDismiss(ctx context.Context, userID string) {
	defer s.release(ctx, userID)

	s.logger.Info("Checkout dismissed", zap.String("user_id", userID))
	s.setState(userID, StateNotStarted, "Payment cancelled")
}

// Status reports the user's current checkout state; not_started when no
// attempt has been made.
func (s *CheckoutService) Status(userID string) CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[userID]; ok {
		return *status
	}
	return CheckoutStatus{State: StateNotStarted}
}

func (s *CheckoutService) acquire(ctx context.Context, userID string) *ServiceError {
	ok, err := s.lock.Acquire(ctx, userID, s.cfg.CheckoutTTL)
	if err != nil {
		s.logger.Error("Checkout lock acquire failed", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to start checkout. Please try again."}
	}
	if !ok {
		return &ServiceError{StatusCode: 409, Message: "A checkout is already in progress"}
	}
	return nil
}

func (s *CheckoutService) release(ctx context.Context, userID string) {
	if err := s.lock.Release(ctx, userID); err != nil {
		s.logger.Warn("Checkout lock release failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *CheckoutService) setState(userID string, state CheckoutState, message string) *CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := &CheckoutStatus{State: state, Message: message}
	s.statuses[userID] = status
	return status
}

// publishEvent emits a lifecycle event, best effort. A missing publisher or
// topic disables it silently.
func (s *CheckoutService) publishEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if s.events == nil || s.cfg.SNSTopicArn == "" {
		return
	}
	payload["event"] = event
	payload["at"] = time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, s.cfg.SNSTopicArn, body); err != nil {
		s.logger.Warn("Event publish failed", zap.String("event", event), zap.Error(err))
	}
}
