package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/velvetlane/storefront/cart/internal/service"
	"github.com/velvetlane/storefront/cart/pkg/request"
	"github.com/velvetlane/storefront/cart/pkg/response"
	"github.com/velvetlane/storefront/cart/pkg/store"
	"github.com/velvetlane/storefront/internal/constants"
	inHttp "github.com/velvetlane/storefront/internal/http"
	"github.com/velvetlane/storefront/internal/middleware"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	router := mux.PathPrefix("/carts").Subrouter()
	router.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.RemoveAll).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items", controller.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc("/items", controller.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/items/increase", controller.IncreaseQuantity).Methods(http.MethodPost)
	router.HandleFunc("/items/decrease", controller.DecreaseQuantity).Methods(http.MethodPost)
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController GetCart").
		Logger()

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "getting cart").
		Logger()
	logger.Info().Msg("getting cart")
	c = logger.WithContext(c)
	state, err := t.service.GetCart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("got cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully got cart",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, store.Notice{}),
		},
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "adding item to cart").
		Logger()
	logger.Info().Msg("adding item to cart")
	c = logger.WithContext(c)
	state, notice, err := t.service.AddItem(c, sessionID, reqBody.Line())
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(constants.KEY_NOTICE, string(notice.Kind)).Msg("added item to cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully added item to cart",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, notice),
		},
	})
}

func (t CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateQuantity").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "updating quantity").
		Logger()
	logger.Info().Msg("updating quantity")
	c = logger.WithContext(c)
	state, notice, err := t.service.UpdateQuantity(c, sessionID, reqBody.Key(), reqBody.Quantity)
	if err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully updated quantity",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, notice),
		},
	})
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveItem").
		Logger()

	reqBody, ok := decodeLineKey(c, w, r, logger)
	if !ok {
		return
	}

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "removing item from cart").
		Logger()
	logger.Info().Msg("removing item from cart")
	c = logger.WithContext(c)
	state, notice, err := t.service.RemoveItem(c, sessionID, reqBody.Key())
	if err != nil {
		err = fmt.Errorf("failed removing item from cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed item from cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully removed item from cart",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, notice),
		},
	})
}

func (t CartController) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController IncreaseQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController IncreaseQuantity").
		Logger()

	reqBody, ok := decodeLineKey(c, w, r, logger)
	if !ok {
		return
	}

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "increasing quantity").
		Logger()
	logger.Info().Msg("increasing quantity")
	c = logger.WithContext(c)
	state, notice, err := t.service.IncreaseQuantity(c, sessionID, reqBody.Key())
	if err != nil {
		err = fmt.Errorf("failed increasing quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("increased quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully increased quantity",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, notice),
		},
	})
}

func (t CartController) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController DecreaseQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController DecreaseQuantity").
		Logger()

	reqBody, ok := decodeLineKey(c, w, r, logger)
	if !ok {
		return
	}

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "decreasing quantity").
		Logger()
	logger.Info().Msg("decreasing quantity")
	c = logger.WithContext(c)
	state, notice, err := t.service.DecreaseQuantity(c, sessionID, reqBody.Key())
	if err != nil {
		err = fmt.Errorf("failed decreasing quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decreased quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully decreased quantity",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, notice),
		},
	})
}

func (t CartController) RemoveAll(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController RemoveAll")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveAll").
		Logger()

	sessionID := middleware.SessionIDFromContext(c)
	logger = logger.With().
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "removing all items from cart").
		Logger()
	logger.Info().Msg("removing all items from cart")
	c = logger.WithContext(c)
	state, notice, err := t.service.RemoveAll(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed removing all items from cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed all items from cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully removed all items from cart",
		"data": map[string]interface{}{
			"cart": response.NewCart(state, notice),
		},
	})
}

func decodeLineKey(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger zerolog.Logger,
) (request.LineKey, bool) {
	logger = logger.With().Str(constants.KEY_PROCESS, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.LineKey{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return request.LineKey{}, false
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return request.LineKey{}, false
	}
	logger.Info().Msg("validated request body")

	return reqBody, true
}
