package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MutationKind labels the in-flight mutation of a single line item.
type MutationKind string

const (
	MutationIncrement MutationKind = "increment"
	MutationDecrement MutationKind = "decrement"
	MutationRemove    MutationKind = "remove"
)

type itemKey struct {
	userID string
	itemID string
}

// QuantityController serializes quantity mutations per line item. The
// mutating flag is keyed by (user, item), so changes to different items
// proceed concurrently while a second change to the same item is rejected
// until the first settles. The optimistic quantity is kept while the request
// is in flight and dropped on failure, reverting the display to the last
// server-confirmed value. Every attempt ends back in the idle state.
type QuantityController struct {
	cart   *CartService
	logger *zap.Logger

	mu       sync.Mutex
	mutating map[itemKey]MutationKind
	pending  map[itemKey]int
}

func NewQuantityController(cart *CartService, logger *zap.Logger) *QuantityController {
	return &QuantityController{
		cart:     cart,
		logger:   logger,
		mutating: make(map[itemKey]MutationKind),
		pending:  make(map[itemKey]int),
	}
}

// Increment raises a line item's quantity by one. Rejected locally when the
// known stock would be exceeded; no request is sent in that case.
func (q *QuantityController) Increment(ctx context.Context, userID, itemID string) *ServiceError {
	cart, ok := q.cart.Snapshot(userID)
	if !ok {
		return &ServiceError{StatusCode: 404, Message: "Cart not loaded"}
	}
	item, ok := cart.Item(itemID)
	if !ok {
		return &ServiceError{StatusCode: 404, Message: "Item not in cart"}
	}

	newQty := item.Quantity + 1
	if item.Stock != nil && newQty > *item.Stock {
		return &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Only %d left in stock", *item.Stock)}
	}

	return q.mutate(ctx, userID, itemID, MutationIncrement, newQty)
}

// Decrement lowers a line item's quantity by one. At quantity 1 the item is
// removed instead; an update to quantity 0 is never issued.
func (q *QuantityController) Decrement(ctx context.Context, userID, itemID string) *ServiceError {
	cart, ok := q.cart.Snapshot(userID)
	if !ok {
		return &ServiceError{StatusCode: 404, Message: "Cart not loaded"}
	}
	item, ok := cart.Item(itemID)
	if !ok {
		return &ServiceError{StatusCode: 404, Message: "Item not in cart"}
	}

	if item.Quantity <= 1 {
		return q.remove(ctx, userID, itemID, MutationDecrement)
	}
	return q.mutate(ctx, userID, itemID, MutationDecrement, item.Quantity-1)
}

// Set applies an absolute quantity through the same guards.
func (q *QuantityController) Set(ctx context.Context, userID, itemID string, quantity int) *ServiceError {
	if quantity < 1 {
		return &ServiceError{StatusCode: 400, Message: "Quantity must be at least 1"}
	}

	cart, ok := q.cart.Snapshot(userID)
	if !ok {
		return &ServiceError{StatusCode: 404, Message: "Cart not loaded"}
	}
	item, ok := cart.Item(itemID)
	if !ok {
		return &ServiceError{StatusCode: 404, Message: "Item not in cart"}
	}
	if item.Stock != nil && quantity > *item.Stock {
		return &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Only %d left in stock", *item.Stock)}
	}

	kind := MutationIncrement
	if quantity < item.Quantity {
		kind = MutationDecrement
	}
	return q.mutate(ctx, userID, itemID, kind, quantity)
}

// Remove deletes a line item from the cart.
func (q *QuantityController) Remove(ctx context.Context, userID, itemID string) *ServiceError {
	return q.remove(ctx, userID, itemID, MutationRemove)
}

// Quantity returns the display quantity: the optimistic value while a
// mutation is in flight, the server-confirmed value otherwise.
func (q *QuantityController) Quantity(userID, itemID string) (int, bool) {
	key := itemKey{userID: userID, itemID: itemID}

	q.mu.Lock()
	pending, inFlight := q.pending[key]
	q.mu.Unlock()
	if inFlight {
		return pending, true
	}

	cart, ok := q.cart.Snapshot(userID)
	if !ok {
		return 0, false
	}
	item, ok := cart.Item(itemID)
	if !ok {
		return 0, false
	}
	return item.Quantity, true
}

// State reports the in-flight mutation for a line item, if any.
func (q *QuantityController) State(userID, itemID string) (MutationKind, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	kind, ok := q.mutating[itemKey{userID: userID, itemID: itemID}]
	return kind, ok
}

func (q *QuantityController) mutate(ctx context.Context, userID, itemID string, kind MutationKind, newQty int) *ServiceError {
	key := itemKey{userID: userID, itemID: itemID}
	if svcErr := q.begin(key, kind, newQty); svcErr != nil {
		return svcErr
	}
	defer q.end(key)

	if svcErr := q.cart.UpdateItem(ctx, userID, itemID, newQty); svcErr != nil {
		q.logger.Warn("Quantity mutation rolled back",
			zap.String("user_id", userID),
			zap.String("item_id", itemID),
			zap.String("kind", string(kind)),
		)
		return svcErr
	}
	return nil
}

func (q *QuantityController) remove(ctx context.Context, userID, itemID string, kind MutationKind) *ServiceError {
	key := itemKey{userID: userID, itemID: itemID}
	if svcErr := q.begin(key, kind, 0); svcErr != nil {
		return svcErr
	}
	defer q.end(key)

	return q.cart.RemoveItem(ctx, userID, itemID)
}

func (q *QuantityController) begin(key itemKey, kind MutationKind, pending int) *ServiceError {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, busy := q.mutating[key]; busy {
		return &ServiceError{StatusCode: 409, Message: "Another update is in progress for this item"}
	}
	q.mutating[key] = kind
	q.pending[key] = pending
	return nil
}

func (q *QuantityController) end(key itemKey) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.mutating, key)
	delete(q.pending, key)
}
