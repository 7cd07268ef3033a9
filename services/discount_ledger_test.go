package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kunalkumaramar/daadis/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestDiscountLedgerApply(t *testing.T) {
	ctx := context.Background()
	saveTen := &models.Discount{Code: "SAVE10", DiscountType: models.DiscountTypePercentage, Value: 10}

	t.Run("ApplyThenRemoveRoundTrip", func(t *testing.T) {
		mockCartAPI := new(MockCartAPI)
		mockDiscountAPI := new(MockDiscountAPI)
		cart := NewCartService(mockCartAPI, zap.NewNop())
		ledger := NewDiscountLedger(mockDiscountAPI, cart, zap.NewNop())

		mockDiscountAPI.On("Lookup", ctx, "u1", "SAVE10").Return(saveTen, nil).Once()
		mockDiscountAPI.On("Apply", ctx, "u1", "SAVE10", "coupon").Return(nil).Once()
		mockCartAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", nil, 1000, 100), nil).Once()

		applied, svcErr := ledger.Apply(ctx, "u1", "SAVE10")
		assert.Nil(t, svcErr)
		assert.Equal(t, "SAVE10", applied.Code)

		got, ok := ledger.Applied("u1")
		assert.True(t, ok)
		assert.Equal(t, "SAVE10", got.Code)

		cartState, _ := cart.Snapshot("u1")
		assert.Equal(t, 100.0, cartState.Totals.DiscountAmount)
		assert.Equal(t, 900.0, cartState.Totals.Total)

		mockDiscountAPI.On("Remove", ctx, "u1").Return(nil).Once()
		mockCartAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", nil, 1000, 0), nil).Once()

		assert.Nil(t, ledger.Remove(ctx, "u1"))
		_, ok = ledger.Applied("u1")
		assert.False(t, ok)

		cartState, _ = cart.Snapshot("u1")
		assert.Equal(t, 0.0, cartState.Totals.DiscountAmount)
		assert.Equal(t, 1000.0, cartState.Totals.Total)
	})

	t.Run("EmptyCodeRejected", func(t *testing.T) {
		mockDiscountAPI := new(MockDiscountAPI)
		ledger := NewDiscountLedger(mockDiscountAPI, NewCartService(new(MockCartAPI), zap.NewNop()), zap.NewNop())

		_, svcErr := ledger.Apply(ctx, "u1", "   ")
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Please enter a coupon code", svcErr.Message)
		mockDiscountAPI.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LookupFailureClearsState", func(t *testing.T) {
		mockDiscountAPI := new(MockDiscountAPI)
		ledger := NewDiscountLedger(mockDiscountAPI, NewCartService(new(MockCartAPI), zap.NewNop()), zap.NewNop())

		mockDiscountAPI.On("Lookup", ctx, "u1", "BOGUS").Return(nil, errors.New("Invalid coupon code")).Once()

		_, svcErr := ledger.Apply(ctx, "u1", "BOGUS")
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Invalid coupon code", svcErr.Message)

		_, ok := ledger.Applied("u1")
		assert.False(t, ok)
		mockDiscountAPI.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AttachFailureClearsState", func(t *testing.T) {
		mockDiscountAPI := new(MockDiscountAPI)
		ledger := NewDiscountLedger(mockDiscountAPI, NewCartService(new(MockCartAPI), zap.NewNop()), zap.NewNop())

		mockDiscountAPI.On("Lookup", ctx, "u1", "SAVE10").Return(saveTen, nil).Once()
		mockDiscountAPI.On("Apply", ctx, "u1", "SAVE10", "coupon").Return(errors.New("Coupon expired")).Once()

		_, svcErr := ledger.Apply(ctx, "u1", "SAVE10")
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Coupon expired", svcErr.Message)

		_, ok := ledger.Applied("u1")
		assert.False(t, ok)
	})

	t.Run("SecondCodeRejectedWhileApplied", func(t *testing.T) {
		mockCartAPI := new(MockCartAPI)
		mockDiscountAPI := new(MockDiscountAPI)
		cart := NewCartService(mockCartAPI, zap.NewNop())
		ledger := NewDiscountLedger(mockDiscountAPI, cart, zap.NewNop())

		mockDiscountAPI.On("Lookup", ctx, "u1", "SAVE10").Return(saveTen, nil).Once()
		mockDiscountAPI.On("Apply", ctx, "u1", "SAVE10", "coupon").Return(nil).Once()
		mockCartAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", nil, 1000, 100), nil).Once()

		_, svcErr := ledger.Apply(ctx, "u1", "SAVE10")
		assert.Nil(t, svcErr)

		_, svcErr = ledger.Apply(ctx, "u1", "SAVE20")
		assert.Equal(t, 409, svcErr.StatusCode)
		assert.Equal(t, "Coupon SAVE10 is already applied. Remove it first.", svcErr.Message)
	})
}
