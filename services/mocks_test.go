package services

import (
	"context"

	"github.com/kunalkumaramar/daadis/models"
	"github.com/kunalkumaramar/daadis/providers"
	"github.com/stretchr/testify/mock"
)

// --- Mocks for Dependencies ---

type MockCartAPI struct{ mock.Mock }

func (m *MockCartAPI) Fetch(ctx context.Context, userID string) (*models.CartSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartSnapshot), args.Error(1)
}
func (m *MockCartAPI) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}
func (m *MockCartAPI) UpdateItem(ctx context.Context, userID, itemID string, quantity int) error {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Error(0)
}
func (m *MockCartAPI) RemoveItem(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockCartAPI) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockDiscountAPI struct{ mock.Mock }

func (m *MockDiscountAPI) Lookup(ctx context.Context, userID, code string) (*models.Discount, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Discount), args.Error(1)
}
func (m *MockDiscountAPI) Apply(ctx context.Context, userID, code, discountType string) error {
	args := m.Called(ctx, userID, code, discountType)
	return args.Error(0)
}
func (m *MockDiscountAPI) Remove(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProfileAPI struct{ mock.Mock }

func (m *MockProfileAPI) Get(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
func (m *MockProfileAPI) Update(ctx context.Context, userID, phoneNumber string, addresses []models.Address) error {
	args := m.Called(ctx, userID, phoneNumber, addresses)
	return args.Error(0)
}

type MockOrderAPI struct{ mock.Mock }

func (m *MockOrderAPI) Create(ctx context.Context, userID string, req *models.OrderRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}

type MockPaymentAPI struct{ mock.Mock }

func (m *MockPaymentAPI) Initiate(ctx context.Context, userID, orderID, method string) (string, *models.PaymentSession, error) {
	args := m.Called(ctx, userID, orderID, method)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.PaymentSession), args.Error(2)
}
func (m *MockPaymentAPI) Verify(ctx context.Context, userID string, v models.PaymentVerification) error {
	args := m.Called(ctx, userID, v)
	return args.Error(0)
}

type MockWishlistAPI struct{ mock.Mock }

func (m *MockWishlistAPI) Fetch(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistItem), args.Error(1)
}
func (m *MockWishlistAPI) Add(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}
func (m *MockWishlistAPI) Remove(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// stubProvider records the opened session and lets tests drive the callbacks.
type stubProvider struct {
	session   providers.Session
	callbacks providers.Callbacks
	openErr   error
	opened    bool
}

func (p *stubProvider) Open(_ context.Context, session providers.Session, callbacks providers.Callbacks) error {
	if p.openErr != nil {
		return p.openErr
	}
	p.session = session
	p.callbacks = callbacks
	p.opened = true
	return nil
}
