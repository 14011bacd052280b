package verifier

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeErrors "github.com/velvetlane/storefront/internal/errors"
	"github.com/velvetlane/storefront/internal/payment"
)

type fakeSessions struct {
	session payment.Session
	err     error
	calls   atomic.Int64
}

func (f *fakeSessions) GetSession(context.Context, string) (payment.Session, error) {
	f.calls.Add(1)
	return f.session, f.err
}

type fakeCarts struct {
	clears atomic.Int64
	err    error
}

func (f *fakeCarts) Clear(context.Context, string) error {
	f.clears.Add(1)
	return f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		session  payment.Session
		expected State
	}{
		{name: "paid is success", session: payment.Session{Status: "complete", PaymentStatus: "paid"}, expected: StateSuccess},
		{name: "paid wins over open", session: payment.Session{Status: "open", PaymentStatus: "paid"}, expected: StateSuccess},
		{name: "open is pending", session: payment.Session{Status: "open", PaymentStatus: "unpaid"}, expected: StatePending},
		{name: "unpaid is pending", session: payment.Session{Status: "complete", PaymentStatus: "unpaid"}, expected: StatePending},
		{name: "no payment required is pending", session: payment.Session{Status: "complete", PaymentStatus: "no_payment_required"}, expected: StatePending},
		{name: "expired is failed", session: payment.Session{Status: "expired", PaymentStatus: "canceled"}, expected: StateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.session))
		})
	}
}

func TestVerifyPaidClearsCartExactlyOnce(t *testing.T) {
	sessions := &fakeSessions{session: payment.Session{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}}
	carts := &fakeCarts{}
	v := NewVerifier(sessions, carts, NewMemoryGuard())

	for range 5 {
		result, err := v.Verify(context.Background(), "cs_1", "session-1")
		require.NoError(t, err)
		assert.Equal(t, StateSuccess, result.State)
		assert.Equal(t, "cs_1", result.Session.ID)
	}

	assert.Equal(t, int64(1), carts.clears.Load(), "repeated polls must clear the cart once")
}

func TestVerifyPendingNeverClears(t *testing.T) {
	sessions := &fakeSessions{session: payment.Session{ID: "cs_2", Status: "open", PaymentStatus: "unpaid"}}
	carts := &fakeCarts{}
	v := NewVerifier(sessions, carts, NewMemoryGuard())

	result, err := v.Verify(context.Background(), "cs_2", "session-1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, result.State)
	assert.Zero(t, carts.clears.Load())
}

func TestVerifyMissingSessionIDSkipsProvider(t *testing.T) {
	sessions := &fakeSessions{}
	v := NewVerifier(sessions, &fakeCarts{}, NewMemoryGuard())

	result, err := v.Verify(context.Background(), "", "session-1")
	require.ErrorIs(t, err, storeErrors.ErrMissingSessionID)
	assert.Equal(t, StateError, result.State)
	assert.Equal(t, "missing session_id parameter", result.Message)
	assert.Zero(t, sessions.calls.Load(), "missing session id must not call the provider")
}

func TestVerifyProviderFailureIsError(t *testing.T) {
	sessions := &fakeSessions{err: &storeErrors.UpstreamError{Message: "No such checkout.session", StatusCode: 404}}
	carts := &fakeCarts{}
	v := NewVerifier(sessions, carts, NewMemoryGuard())

	result, err := v.Verify(context.Background(), "cs_missing", "session-1")
	require.Error(t, err)
	assert.Equal(t, StateError, result.State)
	assert.Equal(t, "No such checkout.session", result.Message)
	assert.Zero(t, carts.clears.Load())
}

func TestVerifyUnreachableProviderIsError(t *testing.T) {
	sessions := &fakeSessions{err: storeErrors.ErrUpstreamUnreachable}
	v := NewVerifier(sessions, &fakeCarts{}, NewMemoryGuard())

	result, err := v.Verify(context.Background(), "cs_1", "session-1")
	require.ErrorIs(t, err, storeErrors.ErrUpstreamUnreachable)
	assert.Equal(t, StateError, result.State)
	assert.Equal(t, storeErrors.ErrUpstreamUnreachable.Error(), result.Message)
}

func TestMemoryGuard(t *testing.T) {
	guard := NewMemoryGuard()

	first, err := guard.FirstClear(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, first)

	first, err = guard.FirstClear(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.False(t, first)

	first, err = guard.FirstClear(context.Background(), "cs_2")
	require.NoError(t, err)
	assert.True(t, first, "guards are per checkout session")
}
