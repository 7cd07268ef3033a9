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

func snapshot(userID string, items []models.CartLineItem, subtotal, discount float64) *models.CartSnapshot {
	return &models.CartSnapshot{
		UserID: userID,
		Items:  items,
		Totals: models.CartTotals{
			Subtotal:       subtotal,
			DiscountAmount: discount,
			Total:          subtotal - discount,
		},
	}
}

func TestCartServiceSummary(t *testing.T) {
	mockAPI := new(MockCartAPI)
	svc := NewCartService(mockAPI, zap.NewNop())
	ctx := context.Background()

	items := []models.CartLineItem{
		{ItemID: "i1", ProductID: "p1", Name: "Kaju Katli", Price: 300, Quantity: 2},
	}

	t.Run("GrandTotalIncludesShipping", func(t *testing.T) {
		mockAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", items, 600, 0), nil).Once()

		summary, svcErr := svc.Summary(ctx, "u1")

		assert.Nil(t, svcErr)
		assert.Equal(t, 50.0, summary.ShippingCharge)
		assert.Equal(t, 650.0, summary.GrandTotal)
		mockAPI.AssertExpectations(t)
	})

	t.Run("DiscountReducesTotalNotShipping", func(t *testing.T) {
		// Shipping is derived from the subtotal, before the discount.
		mockAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", items, 600, 100), nil).Once()

		summary, svcErr := svc.Summary(ctx, "u1")

		assert.Nil(t, svcErr)
		assert.Equal(t, 500.0, summary.Totals.Total)
		assert.Equal(t, 50.0, summary.ShippingCharge)
		assert.Equal(t, 550.0, summary.GrandTotal)
	})

	t.Run("FetchFailure", func(t *testing.T) {
		mockAPI.On("Fetch", ctx, "u1").Return(nil, errors.New("gateway down")).Once()

		summary, svcErr := svc.Summary(ctx, "u1")

		assert.Nil(t, summary)
		assert.Equal(t, 502, svcErr.StatusCode)
	})
}

func TestCartServiceMutationRevert(t *testing.T) {
	mockAPI := new(MockCartAPI)
	svc := NewCartService(mockAPI, zap.NewNop())
	ctx := context.Background()

	items := []models.CartLineItem{
		{ItemID: "i1", ProductID: "p1", Price: 100, Quantity: 3},
	}
	mockAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", items, 300, 0), nil).Once()
	_, svcErr := svc.Fetch(ctx, "u1")
	assert.Nil(t, svcErr)

	t.Run("FailedUpdateLeavesSnapshotUntouched", func(t *testing.T) {
		mockAPI.On("UpdateItem", ctx, "u1", "i1", 4).Return(errors.New("boom")).Once()

		svcErr := svc.UpdateItem(ctx, "u1", "i1", 4)

		assert.NotNil(t, svcErr)
		assert.Equal(t, 502, svcErr.StatusCode)

		cart, ok := svc.Snapshot("u1")
		assert.True(t, ok)
		item, _ := cart.Item("i1")
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("SuccessfulUpdateRefetches", func(t *testing.T) {
		updated := []models.CartLineItem{
			{ItemID: "i1", ProductID: "p1", Price: 100, Quantity: 4},
		}
		mockAPI.On("UpdateItem", ctx, "u1", "i1", 4).Return(nil).Once()
		mockAPI.On("Fetch", ctx, "u1").Return(snapshot("u1", updated, 400, 0), nil).Once()

		svcErr := svc.UpdateItem(ctx, "u1", "i1", 4)

		assert.Nil(t, svcErr)
		cart, _ := svc.Snapshot("u1")
		item, _ := cart.Item("i1")
		assert.Equal(t, 4, item.Quantity)
		assert.Equal(t, 400.0, cart.Totals.Subtotal)
	})

	t.Run("RejectsZeroQuantity", func(t *testing.T) {
		svcErr := svc.UpdateItem(ctx, "u1", "i1", 0)
		assert.Equal(t, 400, svcErr.StatusCode)
		mockAPI.AssertNotCalled(t, "UpdateItem", mock.Anything, "u1", "i1", 0)
	})
}
