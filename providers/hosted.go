package providers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrSessionExists means a session with the same provider order id is
	// already open.
	ErrSessionExists = errors.New("payment session already open")
	// ErrSessionNotFound means no open session matches the provider order id;
	// it has either never been opened or already resolved.
	ErrSessionNotFound = errors.New("payment session not found")
	// ErrInvalidSession means the session is missing its provider order id.
	ErrInvalidSession = errors.New("payment session missing order id")
)

type pendingSession struct {
	session   Session
	callbacks Callbacks
	openedAt  time.Time
}

// HostedCheckout adapts the browser-hosted provider UI to the PaymentProvider
// interface. Open parks the session; the storefront frontend opens the
// provider widget with the session options and reports the outcome back
// through the checkout callback endpoints, which resolve the session here.
// Each session resolves at most once.
type HostedCheckout struct {
	mu       sync.Mutex
	sessions map[string]*pendingSession
	logger   *zap.Logger
}

func NewHostedCheckout(logger *zap.Logger) *HostedCheckout {
	return &HostedCheckout{
		sessions: make(map[string]*pendingSession),
		logger:   logger,
	}
}

func (h *HostedCheckout) Open(_ context.Context, session Session, callbacks Callbacks) error {
	if session.OrderID == "" {
		return ErrInvalidSession
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[session.OrderID]; ok {
		return ErrSessionExists
	}
	h.sessions[session.OrderID] = &pendingSession{
		session:   session,
		callbacks: callbacks,
		openedAt:  time.Now(),
	}

	h.logger.Info("Payment session opened",
		zap.String("provider_order_id", session.OrderID),
		zap.Int64("amount_minor", session.Amount),
	)
	return nil
}

// Session returns the options for an open session, for the frontend to hand
// to the provider widget.
func (h *HostedCheckout) Session(orderID string) (Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.sessions[orderID]
	if !ok {
		return Session{}, false
	}
	return p.session, true
}

// ResolveSuccess fires the success callback for an open session.
func (h *HostedCheckout) ResolveSuccess(ctx context.Context, userID, orderID string, result PaymentResult) error {
	p, err := h.take(userID, orderID)
	if err != nil {
		return err
	}
	p.callbacks.OnSuccess(ctx, result)
	return nil
}

// ResolveFailure fires the failure callback for an open session.
func (h *HostedCheckout) ResolveFailure(ctx context.Context, userID, orderID, description string) error {
	p, err := h.take(userID, orderID)
	if err != nil {
		return err
	}
	p.callbacks.OnFailure(ctx, description)
	return nil
}

// ResolveDismiss fires the dismiss callback for an open session.
func (h *HostedCheckout) ResolveDismiss(ctx context.Context, userID, orderID string) error {
	p, err := h.take(userID, orderID)
	if err != nil {
		return err
	}
	p.callbacks.OnDismiss(ctx)
	return nil
}

// take removes the session so each can resolve at most once. Only the session
// owner may resolve it; anyone else gets not-found without the session being
// consumed, and its existence is not revealed.
func (h *HostedCheckout) take(userID, orderID string) (*pendingSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.sessions[orderID]
	if !ok || p.session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	delete(h.sessions, orderID)
	return p, nil
}
