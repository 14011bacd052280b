package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/velvetlane/storefront/internal/constants"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
	inHttp "github.com/velvetlane/storefront/internal/http"
	"github.com/velvetlane/storefront/internal/middleware"
	inOtel "github.com/velvetlane/storefront/internal/otel"
	"github.com/velvetlane/storefront/internal/ratelimit"
	"github.com/velvetlane/storefront/order/internal/service"
	"github.com/velvetlane/storefront/order/pkg/request"
	"github.com/velvetlane/storefront/order/pkg/response"
)

type OrderController struct {
	service *service.OrderService
	limiter ratelimit.Limiter
}

func AttachOrderController(mux *mux.Router, service *service.OrderService, limiter ratelimit.Limiter) {
	controller := OrderController{service: service, limiter: limiter}

	router := mux.PathPrefix("/orders").Subrouter()
	router.HandleFunc("", controller.SubmitOrder).Methods(http.MethodPost)
	router.HandleFunc("/checkout", controller.CheckoutOrder).Methods(http.MethodPost)
}

func (t OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController SubmitOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController SubmitOrder").
		Logger()

	submission, ok := t.admit(w, r, &logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	c = logger.WithContext(c)
	order, err := t.service.SubmitOrder(c, submission)
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, message := upstreamFailure(err)
		inHttp.WriteError(c, w, statusCode, message)
		return
	}
	logger.Info().Msg("submitted order")

	inHttp.WriteJson(c, w, http.StatusOK, order)
}

func (t OrderController) CheckoutOrder(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController CheckoutOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController CheckoutOrder").
		Logger()

	submission, ok := t.admit(w, r, &logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "checking out order").Logger()
	logger.Info().Msg("checking out order")
	c = logger.WithContext(c)
	session, err := t.service.CheckoutOrder(c, submission)
	if err != nil {
		err = fmt.Errorf("failed checking out order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, message := upstreamFailure(err)
		inHttp.WriteError(c, w, statusCode, message)
		return
	}
	logger.Info().Str(constants.KEY_CHECKOUT_SESSION_ID, session.ID).Msg("checked out order")

	inHttp.WriteJson(c, w, http.StatusOK, response.Checkout{StripeSession: session})
}

// admit runs the rate limit check and then payload validation, in that
// order. The limit is counted even for requests that later fail validation.
func (t OrderController) admit(
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) (request.Submission, bool) {
	c := r.Context()
	span := trace.SpanFromContext(c)

	sessionID := middleware.SessionIDFromContext(c)
	clientKey := ratelimit.ClientKey(r, sessionID)
	*logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_RATE_LIMIT_KEY, clientKey).
		Logger()

	enriched := logger.With().Str(constants.KEY_PROCESS, "checking rate limit").Logger()
	enriched.Info().Msg("checking rate limit")
	allowed, retryAfter, err := t.limiter.Allow(c, clientKey)
	if err != nil {
		// The counter store being down should not take order intake
		// down with it.
		err = fmt.Errorf("failed checking rate limit with error=%w", err)
		inOtel.RecordError(err, span)
		enriched.Warn().Err(err).Msg("rate limit check failed, admitting request")
		allowed = true
	}
	if !allowed {
		enriched.Warn().
			Dur(constants.KEY_RETRY_AFTER, retryAfter).
			Err(storeErrors.ErrRateLimited).
			Msg("rate limit exceeded")
		span.AddEvent("rate limit exceeded")
		message := fmt.Sprintf(
			"%s, please wait %s and try again",
			storeErrors.ErrRateLimited.Error(),
			retryAfter.Round(time.Second),
		)
		inHttp.WriteError(c, w, http.StatusTooManyRequests, message)
		return request.Submission{}, false
	}

	enriched = logger.With().Str(constants.KEY_PROCESS, "validating payload").Logger()
	enriched.Info().Msg("validating payload")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		err = fmt.Errorf("failed reading request body with error=%w", err)
		inOtel.RecordError(err, span)
		enriched.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, storeErrors.ErrPayloadNotObject.Error())
		return request.Submission{}, false
	}
	submission, err := request.ParseSubmission(body)
	if err != nil {
		inOtel.RecordError(err, span)
		enriched.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err.Error())
		return request.Submission{}, false
	}
	enriched.Info().Int(constants.KEY_ORDER_PRODUCTS, len(submission.Products)).Msg("validated payload")

	return submission, true
}

func upstreamFailure(err error) (int, string) {
	upstreamErr := &storeErrors.UpstreamError{}
	switch {
	case errors.Is(err, storeErrors.ErrNotConfigured):
		return http.StatusInternalServerError, storeErrors.ErrNotConfigured.Error()
	case errors.Is(err, storeErrors.ErrUpstreamUnreachable):
		return http.StatusBadGateway, storeErrors.ErrUpstreamUnreachable.Error()
	case errors.As(err, &upstreamErr):
		return upstreamErr.StatusCode, upstreamErr.Message
	default:
		return http.StatusInternalServerError, "failed creating order"
	}
}
