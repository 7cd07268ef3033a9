package services

import (
	"context"
	"testing"

	"github.com/kunalkumaramar/daadis/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// memGuestWishlist is an in-memory stand-in for the Redis guest store.
type memGuestWishlist struct {
	lists map[string][]models.WishlistItem
}

func newMemGuestWishlist() *memGuestWishlist {
	return &memGuestWishlist{lists: make(map[string][]models.WishlistItem)}
}

func (m *memGuestWishlist) Get(_ context.Context, token string) ([]models.WishlistItem, error) {
	return m.lists[token], nil
}
func (m *memGuestWishlist) Save(_ context.Context, token string, items []models.WishlistItem) error {
	m.lists[token] = items
	return nil
}
func (m *memGuestWishlist) Delete(_ context.Context, token string) error {
	delete(m.lists, token)
	return nil
}

func TestWishlistMoveToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("AlreadyInCartRejected", func(t *testing.T) {
		cartAPI := new(MockCartAPI)
		wishAPI := new(MockWishlistAPI)
		cart := NewCartService(cartAPI, zap.NewNop())
		svc := NewWishlistService(wishAPI, cart, newMemGuestWishlist(), zap.NewNop())

		items := []models.CartLineItem{{ItemID: "i1", ProductID: "p1", Quantity: 1}}
		cartAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", items, 100, 0), nil).Once()
		_, svcErr := cart.Fetch(ctx, "u1")
		assert.Nil(t, svcErr)

		svcErr = svc.MoveToCart(ctx, "u1", "p1")
		assert.Equal(t, 409, svcErr.StatusCode)
		cartAPI.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OutOfStockRejected", func(t *testing.T) {
		cartAPI := new(MockCartAPI)
		wishAPI := new(MockWishlistAPI)
		cart := NewCartService(cartAPI, zap.NewNop())
		svc := NewWishlistService(wishAPI, cart, newMemGuestWishlist(), zap.NewNop())

		wishAPI.On("Fetch", ctx, "u1").
			Return([]models.WishlistItem{{Product: "p2", Stock: intPtr(0)}}, nil).Once()

		svcErr := svc.MoveToCart(ctx, "u1", "p2")
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Product is out of stock", svcErr.Message)
		cartAPI.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MovesAndRemovesFromWishlist", func(t *testing.T) {
		cartAPI := new(MockCartAPI)
		wishAPI := new(MockWishlistAPI)
		cart := NewCartService(cartAPI, zap.NewNop())
		svc := NewWishlistService(wishAPI, cart, newMemGuestWishlist(), zap.NewNop())

		wishAPI.On("Fetch", ctx, "u1").
			Return([]models.WishlistItem{{Product: "p2", Stock: intPtr(4)}}, nil).Once()
		cartAPI.On("AddItem", ctx, "u1", "p2", 1).Return(nil).Once()
		cartAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", nil, 0, 0), nil).Once()
		wishAPI.On("Remove", ctx, "u1", "p2").Return(nil).Once()

		assert.Nil(t, svc.MoveToCart(ctx, "u1", "p2"))
		wishAPI.AssertExpectations(t)
	})

	t.Run("UnknownStockStillMoves", func(t *testing.T) {
		cartAPI := new(MockCartAPI)
		wishAPI := new(MockWishlistAPI)
		cart := NewCartService(cartAPI, zap.NewNop())
		svc := NewWishlistService(wishAPI, cart, newMemGuestWishlist(), zap.NewNop())

		wishAPI.On("Fetch", ctx, "u1").
			Return([]models.WishlistItem{{Product: "p2"}}, nil).Once()
		cartAPI.On("AddItem", ctx, "u1", "p2", 1).Return(nil).Once()
		cartAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", nil, 0, 0), nil).Once()
		wishAPI.On("Remove", ctx, "u1", "p2").Return(nil).Once()

		assert.Nil(t, svc.MoveToCart(ctx, "u1", "p2"))
	})
}

func TestWishlistGuestFlow(t *testing.T) {
	ctx := context.Background()
	guests := newMemGuestWishlist()
	svc := NewWishlistService(new(MockWishlistAPI), NewCartService(new(MockCartAPI), zap.NewNop()), guests, zap.NewNop())

	assert.Nil(t, svc.GuestAdd(ctx, "tok1", "p1", 199))
	assert.Nil(t, svc.GuestAdd(ctx, "tok1", "p2", 250))
	// Duplicate adds are a no-op.
	assert.Nil(t, svc.GuestAdd(ctx, "tok1", "p1", 199))

	items, svcErr := svc.GuestList(ctx, "tok1")
	assert.Nil(t, svcErr)
	assert.Len(t, items, 2)

	assert.Nil(t, svc.GuestRemove(ctx, "tok1", "p1"))
	items, _ = svc.GuestList(ctx, "tok1")
	assert.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].Product)

	_, svcErr = svc.GuestList(ctx, "")
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestWishlistMerge(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresConfirmation", func(t *testing.T) {
		guests := newMemGuestWishlist()
		guests.lists["tok1"] = []models.WishlistItem{{Product: "p1"}}
		wishAPI := new(MockWishlistAPI)
		svc := NewWishlistService(wishAPI, NewCartService(new(MockCartAPI), zap.NewNop()), guests, zap.NewNop())

		_, svcErr := svc.Merge(ctx, "u1", "tok1", false)
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Len(t, guests.lists["tok1"], 1)
		wishAPI.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MergesSkippingDuplicates", func(t *testing.T) {
		guests := newMemGuestWishlist()
		guests.lists["tok1"] = []models.WishlistItem{{Product: "p1"}, {Product: "p2"}}
		wishAPI := new(MockWishlistAPI)
		svc := NewWishlistService(wishAPI, NewCartService(new(MockCartAPI), zap.NewNop()), guests, zap.NewNop())

		wishAPI.On("Fetch", ctx, "u1").Return([]models.WishlistItem{{Product: "p1"}}, nil).Once()
		wishAPI.On("Add", ctx, "u1", "p2").Return(nil).Once()

		merged, svcErr := svc.Merge(ctx, "u1", "tok1", true)
		assert.Nil(t, svcErr)
		assert.Equal(t, 1, merged)

		// Guest list is gone after the merge.
		_, ok := guests.lists["tok1"]
		assert.False(t, ok)
		wishAPI.AssertExpectations(t)
	})
}
