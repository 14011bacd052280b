package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlane/storefront/internal/config"
	"github.com/velvetlane/storefront/internal/contentrepo"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
)

func newFakeContentRepo(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	calls := &atomic.Int64{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/products":
			if slug := r.URL.Query().Get("filters[slug][$eq]"); slug != "" && slug != "linen-shirt" {
				_, err := w.Write([]byte(`{"data":[],"meta":{}}`))
				require.NoError(t, err)
				return
			}
			_, err := w.Write([]byte(`{"data":[
				{"id":1,"attributes":{"productName":"Linen Shirt","slug":"linen-shirt","price":89.5,"active":true,"isFeatured":true,"imageUrl":["/uploads/shirt.jpg","https://cdn.example/coat.jpg"]}},
				{"id":2,"attributes":{"productName":"Wool Coat","slug":"wool-coat","price":219,"active":true,"isFeatured":false,"imageUrl":["/uploads/coat.jpg"]}},
				{"id":3,"attributes":{"productName":"Retired","slug":"retired","price":10,"active":false,"isFeatured":true}}
			],"meta":{}}`))
			require.NoError(t, err)
		case "/api/home-images":
			_, err := w.Write([]byte(`{"data":[{"id":4,"attributes":{"homeImageName":"hero","slug":"hero","active":true,"image":{"id":9,"url":"/uploads/hero.jpg"}}}],"meta":{}}`))
			require.NoError(t, err)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, err := w.Write([]byte(`{"error":{"message":"Not Found"}}`))
			require.NoError(t, err)
		}
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestFindProductsNormalizesImageURLs(t *testing.T) {
	server, _ := newFakeContentRepo(t)
	svc := NewCatalogService(contentrepo.NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"}), nil)

	products, err := svc.FindProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, server.URL+"/uploads/shirt.jpg", products[0].Attributes.ImageUrl[0])
	assert.Equal(t, "https://cdn.example/coat.jpg", products[0].Attributes.ImageUrl[1], "absolute urls pass through untouched")
}

func TestFindFeaturedProductsFiltersActive(t *testing.T) {
	server, _ := newFakeContentRepo(t)
	svc := NewCatalogService(contentrepo.NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"}), nil)

	featured, err := svc.FindFeaturedProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "linen-shirt", featured[0].Attributes.Slug)
}

func TestFindProductBySlugNotFound(t *testing.T) {
	server, _ := newFakeContentRepo(t)
	svc := NewCatalogService(contentrepo.NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"}), nil)

	_, err := svc.FindProductBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, storeErrors.ErrNotFound)
}

func TestFindHomeImagesNormalizesImageURL(t *testing.T) {
	server, _ := newFakeContentRepo(t)
	svc := NewCatalogService(contentrepo.NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"}), nil)

	homeImages, err := svc.FindHomeImages(context.Background())
	require.NoError(t, err)
	require.Len(t, homeImages, 1)
	assert.Equal(t, server.URL+"/uploads/hero.jpg", homeImages[0].Image.URL)
}

func TestFindProductsWithoutCacheHitsRepositoryEachTime(t *testing.T) {
	server, calls := newFakeContentRepo(t)
	svc := NewCatalogService(contentrepo.NewClient(config.ContentRepo{BaseURL: server.URL, APIToken: "secret"}), nil)

	_, err := svc.FindProducts(context.Background())
	require.NoError(t, err)
	_, err = svc.FindProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}
