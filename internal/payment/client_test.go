package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlane/storefront/internal/config"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
)

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_1", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-06-20", r.Header.Get("Stripe-Version"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "hosted", r.PostForm.Get("ui_mode"))
		assert.Equal(t, "required", r.PostForm.Get("billing_address_collection"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_tax[enabled]"))
		assert.Equal(t, "true", r.PostForm.Get("invoice_creation[enabled]"))
		assert.Equal(t, "https://shop.example/success?session_id={CHECKOUT_SESSION_ID}", r.PostForm.Get("success_url"))
		assert.Equal(t, "eur", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Linen Shirt", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "8950", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "AT", r.PostForm.Get("shipping_address_collection[allowed_countries][0]"))
		assert.Equal(t, "FR", r.PostForm.Get("shipping_address_collection[allowed_countries][9]"))
		assert.Equal(t, "US", r.PostForm.Get("shipping_address_collection[allowed_countries][36]"))
		assert.Equal(t, "OM", r.PostForm.Get("shipping_address_collection[allowed_countries][55]"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"id":"cs_test_1","status":"open","payment_status":"unpaid","url":"https://checkout.example/cs_test_1"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.Payment{BaseURL: server.URL, SecretKey: "sk_test_1", APIVersion: "2024-06-20"})
	session, err := client.CreateSession(context.Background(), CheckoutParams{
		SuccessURL: "https://shop.example/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://shop.example",
		LineItems:  []LineItem{{Name: "Linen Shirt", UnitAmount: 8950, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.example/cs_test_1", session.URL)
}

func TestGetSessionExpandsPaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions/cs_test_2", r.URL.Path)
		assert.Equal(t, []string{"payment_intent", "customer"}, r.URL.Query()["expand[]"])

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"id":"cs_test_2",
			"status":"complete",
			"payment_status":"paid",
			"amount_total":17900,
			"currency":"eur",
			"customer_details":{"email":"anna@example.com","name":"Anna"},
			"payment_intent":{"id":"pi_1","status":"succeeded"}
		}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.Payment{BaseURL: server.URL, SecretKey: "sk_test_1"})
	session, err := client.GetSession(context.Background(), "cs_test_2")
	require.NoError(t, err)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, int64(17900), session.AmountTotal)
	assert.Equal(t, "anna@example.com", session.CustomerDetails.Email)
	assert.Equal(t, "pi_1", session.PaymentIntent.ID)
	assert.Equal(t, "succeeded", session.PaymentIntent.Status)
}

func TestGetSessionCollapsedPaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"id":"cs_test_3","status":"open","payment_status":"unpaid","payment_intent":"pi_2"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.Payment{BaseURL: server.URL, SecretKey: "sk_test_1"})
	session, err := client.GetSession(context.Background(), "cs_test_3")
	require.NoError(t, err)
	assert.Equal(t, "pi_2", session.PaymentIntent.ID)
	assert.Empty(t, session.PaymentIntent.Status)
}

func TestProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error":{"message":"No such checkout.session: 'cs_missing'"}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.Payment{BaseURL: server.URL, SecretKey: "sk_test_1"})
	_, err := client.GetSession(context.Background(), "cs_missing")
	require.Error(t, err)

	providerErr := &storeErrors.UpstreamError{}
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusNotFound, providerErr.StatusCode)
	assert.Equal(t, "No such checkout.session: 'cs_missing'", providerErr.Message)
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(config.Payment{BaseURL: "https://api.stripe.com"})
	_, err := client.CreateSession(context.Background(), CheckoutParams{})
	require.ErrorIs(t, err, storeErrors.ErrNotConfigured)
}
