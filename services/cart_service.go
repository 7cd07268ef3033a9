package services

import (
	"context"
	"sync"
	"time"

	"github.com/kunalkumaramar/daadis/clients"
	"github.com/kunalkumaramar/daadis/models"
	"go.uber.org/zap"
)

// CartService is the cart store: it keeps the last server-confirmed snapshot
// per user and funnels every mutation through the cart API. Totals are never
// computed locally; every successful mutation is followed by a refetch so the
// snapshot always reflects server truth. A failed mutation leaves the
// snapshot at the last known-good state.
type CartService struct {
	api    clients.CartAPI
	logger *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]*models.CartSnapshot
}

func NewCartService(api clients.CartAPI, logger *zap.Logger) *CartService {
	return &CartService{
		api:       api,
		logger:    logger,
		snapshots: make(map[string]*models.CartSnapshot),
	}
}

// Fetch replaces the user's snapshot with backend state.
func (s *CartService) Fetch(ctx context.Context, userID string) (*models.CartSnapshot, *ServiceError) {
	cart, err := s.api.Fetch(ctx, userID)
	if err != nil {
		s.logger.Error("Cart fetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to load cart"}
	}
	cart.UpdatedAt = time.Now()

	s.mu.Lock()
	s.snapshots[userID] = cart
	s.mu.Unlock()

	return cart, nil
}

// Snapshot returns the last server-confirmed cart without a remote call.
func (s *CartService) Snapshot(userID string) (*models.CartSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.snapshots[userID]
	return cart, ok
}

// Summary is the cart screen view: snapshot totals plus derived shipping and
// grand total.
func (s *CartService) Summary(ctx context.Context, userID string) (*models.CartSummary, *ServiceError) {
	cart, svcErr := s.Fetch(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	shipping := ShippingCharge(cart.Totals.Subtotal)
	return &models.CartSummary{
		Items:          cart.Items,
		Totals:         cart.Totals,
		ShippingCharge: shipping,
		GrandTotal:     cart.Totals.Total + shipping,
	}, nil
}

// AddItem adds a product to the cart and resynchronizes.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) *ServiceError {
	if quantity < 1 {
		return &ServiceError{StatusCode: 400, Message: "Quantity must be at least 1"}
	}
	if err := s.api.AddItem(ctx, userID, productID, quantity); err != nil {
		s.logger.Error("Cart add failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to add product to cart"}
	}
	if _, svcErr := s.Fetch(ctx, userID); svcErr != nil {
		return svcErr
	}
	return nil
}

// UpdateItem sets a line item's quantity and resynchronizes.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) *ServiceError {
	if quantity < 1 {
		return &ServiceError{StatusCode: 400, Message: "Quantity must be at least 1"}
	}
	if err := s.api.UpdateItem(ctx, userID, itemID, quantity); err != nil {
		s.logger.Error("Cart update failed", zap.String("user_id", userID), zap.String("item_id", itemID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to update quantity"}
	}
	if _, svcErr := s.Fetch(ctx, userID); svcErr != nil {
		return svcErr
	}
	return nil
}

// RemoveItem removes a line item and resynchronizes.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) *ServiceError {
	if err := s.api.RemoveItem(ctx, userID, itemID); err != nil {
		s.logger.Error("Cart remove failed", zap.String("user_id", userID), zap.String("item_id", itemID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to remove product"}
	}
	if _, svcErr := s.Fetch(ctx, userID); svcErr != nil {
		return svcErr
	}
	return nil
}

// Clear empties the cart remotely and resynchronizes.
func (s *CartService) Clear(ctx context.Context, userID string) *ServiceError {
	if err := s.api.Clear(ctx, userID); err != nil {
		s.logger.Error("Cart clear failed", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to clear cart"}
	}
	if _, svcErr := s.Fetch(ctx, userID); svcErr != nil {
		return svcErr
	}
	return nil
}
