package contentrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/velvetlane/storefront/catalog/pkg/response"
	"github.com/velvetlane/storefront/internal/config"
	"github.com/velvetlane/storefront/internal/constants"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

// OrderProduct is one purchased line as the content repository stores it.
type OrderProduct struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// OrderEntry is the order payload persisted in the content repository.
type OrderEntry struct {
	CheckoutSessionID string         `json:"checkoutSessionId,omitempty"`
	Products          []OrderProduct `json:"products"`
}

// CreatedOrder is the record the content repository hands back after
// persisting an order. Attributes stay opaque so callers can echo them
// without knowing the repository's full order shape.
type CreatedOrder struct {
	Attributes json.RawMessage `json:"attributes"`
	ID         int64           `json:"id"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type upstreamErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the headless content repository that is the system of
// record for products, collections, categories, home images and orders.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

func NewClient(cfg config.ContentRepo) *Client {
	return &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
	}
}

func (cl *Client) Configured() bool {
	return cl.baseURL != "" && cl.apiToken != ""
}

func (cl *Client) BaseURL() string {
	return cl.baseURL
}

func (cl *Client) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()
	logger.Info().Msg("finding products")
	span.AddEvent("finding products")

	products := []response.Product{}
	query := url.Values{}
	query.Set("populate", "*")
	query.Set("pagination[pageSize]", "100")
	err := cl.get(c, "/api/products", query, &products)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger.Info().Int(constants.KEY_PRODUCTS, len(products)).Msg("found products")
	span.AddEvent("found products")
	return products, nil
}

func (cl *Client) FindProductBySlug(c context.Context, slug string) (response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindProductBySlug", trace.WithAttributes(attribute.String(constants.KEY_SLUG, slug)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindProductBySlug").
		Str(constants.KEY_SLUG, slug).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding product by slug=%s", slug)).
		Logger()
	logger.Info().Msgf("finding product by slug=%s", slug)
	span.AddEvent("finding product by slug")

	products := []response.Product{}
	query := url.Values{}
	query.Set("populate", "*")
	query.Set("filters[slug][$eq]", slug)
	err := cl.get(c, "/api/products", query, &products)
	if err != nil {
		err = fmt.Errorf("failed finding product by slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if len(products) == 0 {
		err = fmt.Errorf("failed finding product by slug=%s with error=%w", slug, storeErrors.ErrNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger.Info().Msgf("found product by slug=%s", slug)
	span.AddEvent("found product by slug")
	return products[0], nil
}

func (cl *Client) FindProductByID(c context.Context, id int64) (response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindProductByID", trace.WithAttributes(attribute.Int64(constants.KEY_PRODUCT_ID, id)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindProductByID").
		Int64(constants.KEY_PRODUCT_ID, id).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding product by id=%d", id)).
		Logger()
	logger.Info().Msgf("finding product by id=%d", id)
	span.AddEvent("finding product by id")

	product := response.Product{}
	query := url.Values{}
	query.Set("populate", "*")
	err := cl.get(c, "/api/products/"+strconv.FormatInt(id, 10), query, &product)
	if err != nil {
		err = fmt.Errorf("failed finding product by id=%d with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger.Info().Msgf("found product by id=%d", id)
	span.AddEvent("found product by id")
	return product, nil
}

func (cl *Client) FindCollections(c context.Context) ([]response.Collection, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindCollections")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindCollections").
		Str(constants.KEY_PROCESS, "finding collections").
		Logger()
	logger.Info().Msg("finding collections")
	span.AddEvent("finding collections")

	entries := []struct {
		Attributes response.Collection `json:"attributes"`
		ID         int64               `json:"id"`
	}{}
	query := url.Values{}
	query.Set("populate", "*")
	err := cl.get(c, "/api/collections", query, &entries)
	if err != nil {
		err = fmt.Errorf("failed finding collections with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	collections := make([]response.Collection, 0, len(entries))
	for _, entry := range entries {
		collection := entry.Attributes
		collection.ID = entry.ID
		collections = append(collections, collection)
	}

	logger.Info().Int(constants.KEY_COLLECTIONS, len(collections)).Msg("found collections")
	span.AddEvent("found collections")
	return collections, nil
}

func (cl *Client) FindCollectionBySlug(c context.Context, slug string) (response.Collection, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindCollectionBySlug", trace.WithAttributes(attribute.String(constants.KEY_SLUG, slug)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindCollectionBySlug").
		Str(constants.KEY_SLUG, slug).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding collection by slug=%s", slug)).
		Logger()
	logger.Info().Msgf("finding collection by slug=%s", slug)
	span.AddEvent("finding collection by slug")

	entries := []struct {
		Attributes response.Collection `json:"attributes"`
		ID         int64               `json:"id"`
	}{}
	query := url.Values{}
	query.Set("populate", "*")
	query.Set("filters[slug][$eq]", slug)
	err := cl.get(c, "/api/collections", query, &entries)
	if err != nil {
		err = fmt.Errorf("failed finding collection by slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Collection{}, err
	}
	if len(entries) == 0 {
		err = fmt.Errorf("failed finding collection by slug=%s with error=%w", slug, storeErrors.ErrNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Collection{}, err
	}

	collection := entries[0].Attributes
	collection.ID = entries[0].ID
	logger.Info().Msgf("found collection by slug=%s", slug)
	span.AddEvent("found collection by slug")
	return collection, nil
}

func (cl *Client) FindCategories(c context.Context) ([]response.Category, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()
	logger.Info().Msg("finding categories")
	span.AddEvent("finding categories")

	categories := []response.Category{}
	err := cl.get(c, "/api/categories", url.Values{}, &categories)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger.Info().Int(constants.KEY_CATEGORIES, len(categories)).Msg("found categories")
	span.AddEvent("found categories")
	return categories, nil
}

func (cl *Client) FindHomeImages(c context.Context) ([]response.HomeImage, error) {
	c, span := inOtel.Tracer.Start(c, "Client FindHomeImages")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindHomeImages").
		Str(constants.KEY_PROCESS, "finding home images").
		Logger()
	logger.Info().Msg("finding home images")
	span.AddEvent("finding home images")

	entries := []struct {
		Attributes response.HomeImage `json:"attributes"`
		ID         int64              `json:"id"`
	}{}
	query := url.Values{}
	query.Set("populate", "*")
	err := cl.get(c, "/api/home-images", query, &entries)
	if err != nil {
		err = fmt.Errorf("failed finding home images with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	homeImages := make([]response.HomeImage, 0, len(entries))
	for _, entry := range entries {
		homeImage := entry.Attributes
		homeImage.ID = entry.ID
		homeImages = append(homeImages, homeImage)
	}

	logger.Info().Int(constants.KEY_HOME_IMAGES, len(homeImages)).Msg("found home images")
	span.AddEvent("found home images")
	return homeImages, nil
}

func (cl *Client) CreateOrder(c context.Context, entry OrderEntry) (CreatedOrder, error) {
	c, span := inOtel.Tracer.Start(c, "Client CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client CreateOrder").
		Int(constants.KEY_ORDER_PRODUCTS, len(entry.Products)).
		Str(constants.KEY_PROCESS, "creating order").
		Logger()
	logger.Info().Msg("creating order")
	span.AddEvent("creating order")

	created := CreatedOrder{}
	err := cl.post(c, "/api/orders", map[string]OrderEntry{"data": entry}, &created)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return CreatedOrder{}, err
	}

	logger.Info().Int64("orderId", created.ID).Msg("created order")
	span.AddEvent("created order")
	return created, nil
}

func (cl *Client) get(c context.Context, path string, query url.Values, out any) error {
	if !cl.Configured() {
		return storeErrors.ErrNotConfigured
	}

	endpoint := cl.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(c, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed creating request for path=%s with error=%w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+cl.apiToken)

	return cl.do(req, out)
}

func (cl *Client) post(c context.Context, path string, payload any, out any) error {
	if !cl.Configured() {
		return storeErrors.ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed marshaling payload for path=%s with error=%w", path, err)
	}
	req, err := http.NewRequestWithContext(c, http.MethodPost, cl.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed creating request for path=%s with error=%w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+cl.apiToken)
	req.Header.Set("Content-Type", "application/json")

	return cl.do(req, out)
}

func (cl *Client) do(req *http.Request, out any) error {
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed requesting url=%s with error=%v: %w", req.URL.Path, err, storeErrors.ErrUpstreamUnreachable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed reading response for url=%s with error=%w", req.URL.Path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(body))
		decoded := upstreamErrorBody{}
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
			message = decoded.Error.Message
		}
		return &storeErrors.UpstreamError{Message: message, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	wrapped := envelope{}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return fmt.Errorf("failed unmarshaling response for url=%s with error=%w", req.URL.Path, err)
	}
	if len(wrapped.Data) == 0 || string(wrapped.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		return fmt.Errorf("failed unmarshaling response data for url=%s with error=%w", req.URL.Path, err)
	}
	return nil
}
