package services

import (
	"context"
	"time"

	"github.com/kunalkumaramar/daadis/clients"
	"github.com/kunalkumaramar/daadis/models"
	"github.com/kunalkumaramar/daadis/repository"
	"go.uber.org/zap"
)

// WishlistService handles the saved-for-later list: authenticated lists live
// upstream, guest lists live in Redis under a client-held token. A guest list
// is merged into the account list only on explicit confirmation after login.
type WishlistService struct {
	api    clients.WishlistAPI
	cart   *CartService
	guests repository.GuestWishlistRepository
	logger *zap.Logger
}

func NewWishlistService(api clients.WishlistAPI, cart *CartService, guests repository.GuestWishlistRepository, logger *zap.Logger) *WishlistService {
	return &WishlistService{api: api, cart: cart, guests: guests, logger: logger}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]models.WishlistItem, *ServiceError) {
	items, err := s.api.Fetch(ctx, userID)
	if err != nil {
		s.logger.Error("Wishlist fetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to load wishlist"}
	}
	return items, nil
}

func (s *WishlistService) Add(ctx context.Context, userID, productID string) *ServiceError {
	if productID == "" {
		return &ServiceError{StatusCode: 400, Message: "Product is required"}
	}
	if err := s.api.Add(ctx, userID, productID); err != nil {
		s.logger.Error("Wishlist add failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to add to wishlist"}
	}
	return nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) *ServiceError {
	if err := s.api.Remove(ctx, userID, productID); err != nil {
		s.logger.Error("Wishlist remove failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to remove from wishlist"}
	}
	return nil
}

// MoveToCart adds a wishlisted product to the cart (quantity 1) and removes
// it from the wishlist. Rejected when the product is already in the cart or
// the wishlist reports it out of stock.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, productID string) *ServiceError {
	if cart, ok := s.cart.Snapshot(userID); ok && cart.HasProduct(productID) {
		return &ServiceError{StatusCode: 409, Message: "Product is already in your cart"}
	}

	items, err := s.api.Fetch(ctx, userID)
	if err != nil {
		s.logger.Error("Wishlist fetch failed", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 502, Message: "Failed to load wishlist"}
	}
	for _, item := range items {
		if item.Product == productID && item.Stock != nil && *item.Stock == 0 {
			return &ServiceError{StatusCode: 400, Message: "Product is out of stock"}
		}
	}

	if svcErr := s.cart.AddItem(ctx, userID, productID, 1); svcErr != nil {
		return svcErr
	}
	if err := s.api.Remove(ctx, userID, productID); err != nil {
		s.logger.Warn("Wishlist cleanup after move failed", zap.String("product_id", productID), zap.Error(err))
	}
	return nil
}

// GuestList returns the wishlist held under a guest token.
func (s *WishlistService) GuestList(ctx context.Context, token string) ([]models.WishlistItem, *ServiceError) {
	if token == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Guest token is required"}
	}
	items, err := s.guests.Get(ctx, token)
	if err != nil {
		s.logger.Error("Guest wishlist fetch failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load wishlist"}
	}
	return items, nil
}

func (s *WishlistService) GuestAdd(ctx context.Context, token, productID string, price float64) *ServiceError {
	if token == "" {
		return &ServiceError{StatusCode: 400, Message: "Guest token is required"}
	}
	if productID == "" {
		return &ServiceError{StatusCode: 400, Message: "Product is required"}
	}

	items, err := s.guests.Get(ctx, token)
	if err != nil {
		s.logger.Error("Guest wishlist fetch failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update wishlist"}
	}
	for _, item := range items {
		if item.Product == productID {
			return nil
		}
	}

	items = append(items, models.WishlistItem{
		Product:        productID,
		PriceWhenAdded: price,
		AddedAt:        time.Now(),
	})
	if err := s.guests.Save(ctx, token, items); err != nil {
		s.logger.Error("Guest wishlist save failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update wishlist"}
	}
	return nil
}

func (s *WishlistService) GuestRemove(ctx context.Context, token, productID string) *ServiceError {
	if token == "" {
		return &ServiceError{StatusCode: 400, Message: "Guest token is required"}
	}

	items, err := s.guests.Get(ctx, token)
	if err != nil {
		s.logger.Error("Guest wishlist fetch failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update wishlist"}
	}

	kept := items[:0]
	for _, item := range items {
		if item.Product != productID {
			kept = append(kept, item)
		}
	}
	if err := s.guests.Save(ctx, token, kept); err != nil {
		s.logger.Error("Guest wishlist save failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update wishlist"}
	}
	return nil
}

// Merge moves a guest wishlist into the authenticated one. It requires an
// explicit confirmation flag; without it nothing is touched and the guest
// list survives for the caller to inspect first.
func (s *WishlistService) Merge(ctx context.Context, userID, token string, confirm bool) (int, *ServiceError) {
	if token == "" {
		return 0, &ServiceError{StatusCode: 400, Message: "Guest token is required"}
	}
	if !confirm {
		return 0, &ServiceError{StatusCode: 400, Message: "Merge requires confirmation"}
	}

	guestItems, err := s.guests.Get(ctx, token)
	if err != nil {
		s.logger.Error("Guest wishlist fetch failed", zap.Error(err))
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to merge wishlist"}
	}
	if len(guestItems) == 0 {
		return 0, nil
	}

	existing, err := s.api.Fetch(ctx, userID)
	if err != nil {
		s.logger.Error("Wishlist fetch failed", zap.String("user_id", userID), zap.Error(err))
		return 0, &ServiceError{StatusCode: 502, Message: "Failed to merge wishlist"}
	}
	have := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		have[item.Product] = struct{}{}
	}

	merged := 0
	for _, item := range guestItems {
		if _, ok := have[item.Product]; ok {
			continue
		}
		if err := s.api.Add(ctx, userID, item.Product); err != nil {
			s.logger.Warn("Wishlist merge item failed", zap.String("product_id", item.Product), zap.Error(err))
			continue
		}
		merged++
	}

	if err := s.guests.Delete(ctx, token); err != nil {
		s.logger.Warn("Guest wishlist delete after merge failed", zap.Error(err))
	}

	s.logger.Info("Wishlist merged", zap.String("user_id", userID), zap.Int("items", merged))
	return merged, nil
}
