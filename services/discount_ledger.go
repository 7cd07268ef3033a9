package services

import (
	"context"
	"strings"
	"sync"

	"github.com/kunalkumaramar/daadis/clients"
	"github.com/kunalkumaramar/daadis/models"
	"go.uber.org/zap"
)

// DiscountLedger tracks the single promotional code applied to a user's cart.
// Apply is two sequential remote calls (resolve the code, then attach it);
// the ledger records the code as applied only when both succeed, and clears
// its state on any failure. Attach and detach are each followed by a cart
// refresh so the totals are re-derived by the server.
type DiscountLedger struct {
	api    clients.DiscountAPI
	cart   *CartService
	logger *zap.Logger

	mu      sync.Mutex
	applied map[string]models.AppliedDiscount
}

func NewDiscountLedger(api clients.DiscountAPI, cart *CartService, logger *zap.Logger) *DiscountLedger {
	return &DiscountLedger{
		api:     api,
		cart:    cart,
		logger:  logger,
		applied: make(map[string]models.AppliedDiscount),
	}
}

// Apply resolves and attaches a coupon code. Applying a second code while one
// is active is rejected; the current code must be removed first.
func (l *DiscountLedger) Apply(ctx context.Context, userID, code string) (*models.AppliedDiscount, *ServiceError) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Please enter a coupon code"}
	}

	l.mu.Lock()
	if current, ok := l.applied[userID]; ok {
		l.mu.Unlock()
		return nil, &ServiceError{
			StatusCode: 409,
			Message:    "Coupon " + current.Code + " is already applied. Remove it first.",
		}
	}
	l.mu.Unlock()

	discount, err := l.api.Lookup(ctx, userID, code)
	if err != nil {
		l.clear(userID)
		l.logger.Warn("Coupon lookup failed", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: 400, Message: couponErrMessage(err)}
	}

	if err := l.api.Apply(ctx, userID, code, "coupon"); err != nil {
		l.clear(userID)
		l.logger.Warn("Coupon attach failed", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: 400, Message: couponErrMessage(err)}
	}

	applied := models.AppliedDiscount{
		Code:         discount.Code,
		DiscountType: discount.DiscountType,
		Value:        discount.Value,
	}
	l.mu.Lock()
	l.applied[userID] = applied
	l.mu.Unlock()

	if _, svcErr := l.cart.Fetch(ctx, userID); svcErr != nil {
		return &applied, svcErr
	}

	l.logger.Info("Coupon applied", zap.String("user_id", userID), zap.String("code", applied.Code))
	return &applied, nil
}

// Remove detaches the current code, clears the applied flag and refreshes
// the cart.
func (l *DiscountLedger) Remove(ctx context.Context, userID string) *ServiceError {
	if err := l.api.Remove(ctx, userID); err != nil {
		l.logger.Warn("Coupon detach failed", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to remove discount"}
	}

	l.clear(userID)

	if _, svcErr := l.cart.Fetch(ctx, userID); svcErr != nil {
		return svcErr
	}

	l.logger.Info("Coupon removed", zap.String("user_id", userID))
	return nil
}

// Applied returns the code currently recorded for the user, if any.
func (l *DiscountLedger) Applied(userID string) (models.AppliedDiscount, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.applied[userID]
	return d, ok
}

func (l *DiscountLedger) clear(userID string) {
	l.mu.Lock()
	delete(l.applied, userID)
	l.mu.Unlock()
}

func couponErrMessage(err error) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Invalid coupon code"
}
