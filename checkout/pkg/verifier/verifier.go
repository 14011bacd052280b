package verifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/velvetlane/storefront/internal/constants"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
	inOtel "github.com/velvetlane/storefront/internal/otel"
	"github.com/velvetlane/storefront/internal/payment"
)

// State classifies one checkout attempt for display. Every state other than
// StateLoading is terminal, there is no automatic retry.
type State string

const (
	StateLoading State = "loading"
	StateSuccess State = "success"
	StatePending State = "pending"
	StateFailed  State = "failed"
	StateError   State = "error"
)

// Classify maps the provider's session fields onto a display state. Paid
// wins over everything, an open or not-yet-paid session is still pending,
// anything else is a failed attempt.
func Classify(session payment.Session) State {
	if session.PaymentStatus == "paid" {
		return StateSuccess
	}
	switch {
	case session.Status == "open",
		session.PaymentStatus == "unpaid",
		session.PaymentStatus == "no_payment_required":
		return StatePending
	default:
		return StateFailed
	}
}

// SessionReader fetches a checkout session from the payment provider.
type SessionReader interface {
	GetSession(c context.Context, sessionID string) (payment.Session, error)
}

// CartClearer empties the cart that produced the order once payment is
// confirmed.
type CartClearer interface {
	Clear(c context.Context, cartSessionID string) error
}

// ClearGuard makes the success side effect idempotent: FirstClear reports
// true exactly once per checkout session, across repeated polls and across
// processes when backed by the shared cache.
type ClearGuard interface {
	FirstClear(c context.Context, checkoutSessionID string) (bool, error)
}

// Result is what the session-check endpoint renders from.
type Result struct {
	State   State           `json:"state"`
	Message string          `json:"message,omitempty"`
	Session payment.Session `json:"session"`
}

type Verifier struct {
	sessions SessionReader
	carts    CartClearer
	guard    ClearGuard
}

func NewVerifier(sessions SessionReader, carts CartClearer, guard ClearGuard) *Verifier {
	return &Verifier{sessions: sessions, carts: carts, guard: guard}
}

// Verify resolves the display state for a checkout session after redirect
// back from the payment provider. A missing session id is an error state
// with no provider call. Transition into success clears the cart exactly
// once, a failed clear does not demote the success. The returned error is
// non-nil exactly when the state is StateError, so callers can map it to a
// transport status.
func (v *Verifier) Verify(c context.Context, checkoutSessionID, cartSessionID string) (Result, error) {
	c, span := inOtel.Tracer.Start(c, "Verifier Verify", trace.WithAttributes(
		attribute.String(constants.KEY_CHECKOUT_SESSION_ID, checkoutSessionID),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Verifier Verify").
		Str(constants.KEY_CHECKOUT_SESSION_ID, checkoutSessionID).
		Logger()

	if checkoutSessionID == "" {
		inOtel.RecordError(storeErrors.ErrMissingSessionID, span)
		logger.Error().Err(storeErrors.ErrMissingSessionID).Msg(storeErrors.ErrMissingSessionID.Error())
		return Result{State: StateError, Message: storeErrors.ErrMissingSessionID.Error()}, storeErrors.ErrMissingSessionID
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "getting checkout session").Logger()
	logger.Info().Msg("getting checkout session")
	span.AddEvent("getting checkout session")
	c = logger.WithContext(c)
	session, err := v.sessions.GetSession(c, checkoutSessionID)
	if err != nil {
		err = fmt.Errorf("failed getting checkout session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Result{State: StateError, Message: providerMessage(err)}, err
	}

	state := Classify(session)
	logger = logger.With().
		Str(constants.KEY_CHECKOUT_STATE, string(state)).
		Str(constants.KEY_SESSION_STATUS, session.Status).
		Str(constants.KEY_PAYMENT_STATUS, session.PaymentStatus).
		Logger()
	logger.Info().Msg("classified checkout session")
	span.SetAttributes(attribute.String(constants.KEY_CHECKOUT_STATE, string(state)))
	span.AddEvent("classified checkout session")

	if state == StateSuccess {
		v.clearCartOnce(c, logger, span, checkoutSessionID, cartSessionID)
	}

	return Result{State: state, Session: session}, nil
}

func (v *Verifier) clearCartOnce(
	c context.Context,
	logger zerolog.Logger,
	span trace.Span,
	checkoutSessionID string,
	cartSessionID string,
) {
	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()

	first, err := v.guard.FirstClear(c, checkoutSessionID)
	if err != nil {
		err = fmt.Errorf("failed checking clear guard with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	if !first {
		logger.Info().Msg("cart already cleared for this checkout session")
		span.AddEvent("cart already cleared for this checkout session")
		return
	}

	logger.Info().Msg("clearing cart")
	span.AddEvent("clearing cart")
	if err := v.carts.Clear(c, cartSessionID); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("cleared cart")
	span.AddEvent("cleared cart")
}

func providerMessage(err error) string {
	upstreamErr := &storeErrors.UpstreamError{}
	if errors.As(err, &upstreamErr) && upstreamErr.Message != "" {
		return upstreamErr.Message
	}
	if errors.Is(err, storeErrors.ErrUpstreamUnreachable) {
		return storeErrors.ErrUpstreamUnreachable.Error()
	}
	return "failed verifying checkout session"
}
