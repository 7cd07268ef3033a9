package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kunalkumaramar/daadis/models"
	"github.com/stretchr/testify/assert"
)

func orderServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "u1", r.Header.Get("X-User-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestOrderClientCreate(t *testing.T) {
	ctx := context.Background()
	req := &models.OrderRequest{PaymentMethod: "razorpay", TotalAmount: 650}

	t.Run("OrderIDField", func(t *testing.T) {
		srv := orderServer(t, http.StatusCreated, `{"data":{"orderId":"ord_123"}}`)
		defer srv.Close()

		client := NewOrderClient(NewBackendClient(srv.URL, time.Second))
		orderID, err := client.Create(ctx, "u1", req)

		assert.NoError(t, err)
		assert.Equal(t, "ord_123", orderID)
	})

	t.Run("MongoIDFallback", func(t *testing.T) {
		srv := orderServer(t, http.StatusCreated, `{"data":{"_id":"64f0c2"}}`)
		defer srv.Close()

		client := NewOrderClient(NewBackendClient(srv.URL, time.Second))
		orderID, err := client.Create(ctx, "u1", req)

		assert.NoError(t, err)
		assert.Equal(t, "64f0c2", orderID)
	})

	t.Run("NeitherFieldFailsHard", func(t *testing.T) {
		srv := orderServer(t, http.StatusCreated, `{"data":{"status":"created"}}`)
		defer srv.Close()

		client := NewOrderClient(NewBackendClient(srv.URL, time.Second))
		orderID, err := client.Create(ctx, "u1", req)

		assert.ErrorIs(t, err, ErrMissingOrderID)
		assert.Empty(t, orderID)
	})

	t.Run("UpstreamErrorMessageSurfaced", func(t *testing.T) {
		srv := orderServer(t, http.StatusBadRequest, `{"error":"Cart is empty"}`)
		defer srv.Close()

		client := NewOrderClient(NewBackendClient(srv.URL, time.Second))
		_, err := client.Create(ctx, "u1", req)

		assert.EqualError(t, err, "Cart is empty")
	})
}
