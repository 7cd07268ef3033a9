package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHostedCheckoutResolution(t *testing.T) {
	ctx := context.Background()

	newSession := func() Session {
		return Session{UserID: "u1", Key: "k", Amount: 65000, Currency: "INR", OrderID: "rzp_o1"}
	}

	t.Run("SuccessFiresOnce", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		var successes, failures, dismissals int
		cb := Callbacks{
			OnSuccess: func(context.Context, PaymentResult) { successes++ },
			OnFailure: func(context.Context, string) { failures++ },
			OnDismiss: func(context.Context) { dismissals++ },
		}

		assert.NoError(t, h.Open(ctx, newSession(), cb))

		result := PaymentResult{OrderID: "rzp_o1", PaymentID: "pay_1", Signature: "sig"}
		assert.NoError(t, h.ResolveSuccess(ctx, "u1", "rzp_o1", result))
		assert.Equal(t, 1, successes)

		// Any second resolution finds no session.
		assert.ErrorIs(t, h.ResolveSuccess(ctx, "u1", "rzp_o1", result), ErrSessionNotFound)
		assert.ErrorIs(t, h.ResolveFailure(ctx, "u1", "rzp_o1", "late"), ErrSessionNotFound)
		assert.ErrorIs(t, h.ResolveDismiss(ctx, "u1", "rzp_o1"), ErrSessionNotFound)
		assert.Equal(t, 1, successes)
		assert.Equal(t, 0, failures)
		assert.Equal(t, 0, dismissals)
	})

	t.Run("FailurePassesDescription", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		var got string
		cb := Callbacks{
			OnSuccess: func(context.Context, PaymentResult) {},
			OnFailure: func(_ context.Context, desc string) { got = desc },
			OnDismiss: func(context.Context) {},
		}
		assert.NoError(t, h.Open(ctx, newSession(), cb))
		assert.NoError(t, h.ResolveFailure(ctx, "u1", "rzp_o1", "card declined"))
		assert.Equal(t, "card declined", got)
	})

	t.Run("OnlyOwnerResolves", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		var failures, dismissals int
		cb := Callbacks{
			OnSuccess: func(context.Context, PaymentResult) {},
			OnFailure: func(context.Context, string) { failures++ },
			OnDismiss: func(context.Context) { dismissals++ },
		}
		assert.NoError(t, h.Open(ctx, newSession(), cb))

		// Another logged-in user who learned the provider order id cannot
		// fail or dismiss the session, and cannot tell that it exists.
		assert.ErrorIs(t, h.ResolveFailure(ctx, "u2", "rzp_o1", "nope"), ErrSessionNotFound)
		assert.ErrorIs(t, h.ResolveDismiss(ctx, "u2", "rzp_o1"), ErrSessionNotFound)
		assert.Equal(t, 0, failures)
		assert.Equal(t, 0, dismissals)

		// The session is still open for its owner.
		assert.NoError(t, h.ResolveDismiss(ctx, "u1", "rzp_o1"))
		assert.Equal(t, 1, dismissals)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		assert.ErrorIs(t, h.ResolveDismiss(ctx, "u1", "nope"), ErrSessionNotFound)
	})

	t.Run("MissingOrderIDRejected", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		assert.ErrorIs(t, h.Open(ctx, Session{UserID: "u1", Key: "k"}, Callbacks{}), ErrInvalidSession)
	})

	t.Run("DuplicateOpenRejected", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		assert.NoError(t, h.Open(ctx, newSession(), Callbacks{}))
		assert.ErrorIs(t, h.Open(ctx, newSession(), Callbacks{}), ErrSessionExists)
	})

	t.Run("SessionLookup", func(t *testing.T) {
		h := NewHostedCheckout(zap.NewNop())
		assert.NoError(t, h.Open(ctx, newSession(), Callbacks{}))

		s, ok := h.Session("rzp_o1")
		assert.True(t, ok)
		assert.Equal(t, int64(65000), s.Amount)

		_, ok = h.Session("other")
		assert.False(t, ok)
	})
}
