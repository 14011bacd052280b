package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/velvetlane/storefront/checkout/internal/service"
	"github.com/velvetlane/storefront/internal/constants"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
	inHttp "github.com/velvetlane/storefront/internal/http"
	"github.com/velvetlane/storefront/internal/middleware"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

type CheckoutController struct {
	service *service.CheckoutService
}

func AttachCheckoutController(mux *mux.Router, service *service.CheckoutService) {
	controller := CheckoutController{service: service}

	router := mux.PathPrefix("/checkout").Subrouter()
	router.HandleFunc("/sessions", controller.VerifySession).Methods(http.MethodGet)
}

func (t CheckoutController) VerifySession(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CheckoutController VerifySession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CheckoutController VerifySession").
		Logger()

	checkoutSessionID := r.URL.Query().Get("session_id")
	cartSessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_CHECKOUT_SESSION_ID, checkoutSessionID).
		Str(constants.KEY_SESSION_ID, cartSessionID).
		Str(constants.KEY_PROCESS, "verifying checkout session").
		Logger()
	logger.Info().Msg("verifying checkout session")

	c = logger.WithContext(c)
	session, err := t.service.VerifySession(c, checkoutSessionID, cartSessionID)
	if err != nil {
		err = fmt.Errorf("failed verifying checkout session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, verificationStatusCode(err), verificationMessage(err))
		return
	}
	logger.Info().Str(constants.KEY_CHECKOUT_STATE, session.State).Msg("verified checkout session")

	inHttp.WriteJson(c, w, http.StatusOK, session)
}

func verificationStatusCode(err error) int {
	upstreamErr := &storeErrors.UpstreamError{}
	switch {
	case errors.Is(err, storeErrors.ErrMissingSessionID):
		return http.StatusBadRequest
	case errors.Is(err, storeErrors.ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.Is(err, storeErrors.ErrUpstreamUnreachable):
		return http.StatusBadGateway
	case errors.As(err, &upstreamErr):
		return upstreamErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}

func verificationMessage(err error) string {
	upstreamErr := &storeErrors.UpstreamError{}
	switch {
	case errors.Is(err, storeErrors.ErrMissingSessionID):
		return storeErrors.ErrMissingSessionID.Error()
	case errors.As(err, &upstreamErr) && upstreamErr.Message != "":
		return upstreamErr.Message
	case errors.Is(err, storeErrors.ErrUpstreamUnreachable):
		return storeErrors.ErrUpstreamUnreachable.Error()
	default:
		return "failed verifying checkout session"
	}
}
