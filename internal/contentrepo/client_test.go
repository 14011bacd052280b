package contentrepo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlane/storefront/internal/config"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
)

func TestFindProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "*", r.URL.Query().Get("populate"))
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"data":[{"id":7,"attributes":{"productName":"Linen Shirt","slug":"linen-shirt","price":89.5,"active":true,"imageUrl":["a.jpg","b.jpg"]}}],"meta":{}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"})
	products, err := client.FindProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(7), products[0].ID)
	assert.Equal(t, "linen-shirt", products[0].Attributes.Slug)
	assert.Equal(t, "89.5", products[0].Attributes.Price.String())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, []string(products[0].Attributes.ImageUrl))
}

func TestFindProductBySlugNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "missing", r.URL.Query().Get("filters[slug][$eq]"))
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"data":[],"meta":{}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"})
	_, err := client.FindProductBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, storeErrors.ErrNotFound)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		payload := map[string]OrderEntry{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		entry, ok := payload["data"]
		require.True(t, ok)
		assert.Equal(t, "cs_test_1", entry.CheckoutSessionID)
		require.Len(t, entry.Products, 2)
		assert.Equal(t, int64(3), entry.Products[0].ID)
		assert.Equal(t, 2, entry.Products[0].Quantity)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"data":{"id":41,"attributes":{"checkoutSessionId":"cs_test_1","products":[{"id":3,"quantity":2},{"id":9,"quantity":1}]}}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"})
	created, err := client.CreateOrder(context.Background(), OrderEntry{
		CheckoutSessionID: "cs_test_1",
		Products: []OrderProduct{
			{ID: 3, Quantity: 2},
			{ID: 9, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), created.ID)
	assert.JSONEq(
		t,
		`{"checkoutSessionId":"cs_test_1","products":[{"id":3,"quantity":2},{"id":9,"quantity":1}]}`,
		string(created.Attributes),
	)
}

func TestUpstreamErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte(`{"error":{"status":400,"message":"Invalid relation"}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"})
	_, err := client.FindProducts(context.Background())
	require.Error(t, err)

	upstreamErr := &storeErrors.UpstreamError{}
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
	assert.Equal(t, "Invalid relation", upstreamErr.Message)
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(config.ContentRepo{})
	_, err := client.FindProducts(context.Background())
	require.ErrorIs(t, err, storeErrors.ErrNotConfigured)
}

func TestUpstreamUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"})
	_, err := client.FindProducts(context.Background())
	require.ErrorIs(t, err, storeErrors.ErrUpstreamUnreachable)
}
