package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlane/storefront/cart/pkg/repository"
	"github.com/velvetlane/storefront/cart/pkg/store"
	"github.com/velvetlane/storefront/checkout/internal/service"
	"github.com/velvetlane/storefront/checkout/pkg/verifier"
	"github.com/velvetlane/storefront/internal/config"
	"github.com/velvetlane/storefront/internal/middleware"
	"github.com/velvetlane/storefront/internal/payment"
)

func newRouter(paymentURL string, carts repository.Persistence) *mux.Router {
	paymentClient := payment.NewClient(config.Payment{BaseURL: paymentURL, SecretKey: "sk_test_1"})
	checkoutService := service.NewCheckoutService(paymentClient, carts, verifier.NewMemoryGuard())

	router := mux.NewRouter()
	AttachCheckoutController(router, checkoutService)
	return router
}

func get(router *mux.Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.AttachSessionIDToContext(req.Context(), "session-1"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func seedCart(t *testing.T, carts repository.Persistence) {
	t.Helper()
	state, _ := store.AddItem(store.State{}, store.Line{Slug: "linen-shirt", Size: "M", ProductID: 7})
	require.NoError(t, carts.Save(context.Background(), "session-1", state))
}

func TestVerifySessionMissingID(t *testing.T) {
	providerCalled := false
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		providerCalled = true
	}))
	defer provider.Close()

	recorder := get(newRouter(provider.URL, repository.NewMemory()), "/checkout/sessions")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t, `{"error":"missing session_id parameter"}`, recorder.Body.String())
	assert.False(t, providerCalled)
}

func TestVerifySessionPaidClearsCartOnce(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"id":"cs_1",
			"status":"complete",
			"payment_status":"paid",
			"amount_total":17900,
			"currency":"eur",
			"customer_details":{"email":"anna@example.com","name":"Anna"},
			"payment_intent":{"id":"pi_1","status":"succeeded"}
		}`))
		require.NoError(t, err)
	}))
	defer provider.Close()

	carts := repository.NewMemory()
	seedCart(t, carts)

	router := newRouter(provider.URL, carts)
	for range 3 {
		recorder := get(router, "/checkout/sessions?session_id=cs_1")
		assert.Equal(t, http.StatusOK, recorder.Code)

		decoded := map[string]any{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
		assert.Equal(t, "success", decoded["state"])
		assert.Equal(t, "paid", decoded["paymentStatus"])
		assert.Equal(t, "anna@example.com", decoded["customerEmail"])
	}

	state, err := carts.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
}

func TestVerifySessionOpenIsPendingAndKeepsCart(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"id":"cs_2","status":"open","payment_status":"unpaid"}`))
		require.NoError(t, err)
	}))
	defer provider.Close()

	carts := repository.NewMemory()
	seedCart(t, carts)

	recorder := get(newRouter(provider.URL, carts), "/checkout/sessions?session_id=cs_2")
	assert.Equal(t, http.StatusOK, recorder.Code)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	assert.Equal(t, "pending", decoded["state"])

	state, err := carts.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Len(t, state.Lines, 1)
}

func TestVerifySessionProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error":{"message":"No such checkout.session: 'cs_missing'"}}`))
		require.NoError(t, err)
	}))
	defer provider.Close()

	recorder := get(newRouter(provider.URL, repository.NewMemory()), "/checkout/sessions?session_id=cs_missing")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"error":"No such checkout.session: 'cs_missing'"}`, recorder.Body.String())
}
