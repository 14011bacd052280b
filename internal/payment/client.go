package payment

import (
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

	"github.com/velvetlane/storefront/internal/config"
	"github.com/velvetlane/storefront/internal/constants"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

// LineItem is one priced checkout line. UnitAmount is in the currency's
// minor unit (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

// CheckoutParams describes the hosted checkout session to create.
type CheckoutParams struct {
	SuccessURL string
	CancelURL  string
	LineItems  []LineItem
}

// PaymentIntent is returned either expanded as an object or collapsed to a
// bare id string depending on the request's expand parameters.
type PaymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (p *PaymentIntent) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		p.ID = id
		return nil
	}

	type alias PaymentIntent
	decoded := alias{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = PaymentIntent(decoded)
	return nil
}

type CustomerDetails struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is the payment provider's view of a checkout session.
type Session struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Currency        string          `json:"currency"`
	URL             string          `json:"url"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	PaymentIntent   PaymentIntent   `json:"payment_intent"`
	AmountTotal     int64           `json:"amount_total"`
	ExpiresAt       int64           `json:"expires_at"`
}

type providerErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the hosted-checkout payment provider over its form-encoded
// HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	apiVersion string
}

func NewClient(cfg config.Payment) *Client {
	return &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		apiVersion: cfg.APIVersion,
	}
}

func (cl *Client) Configured() bool {
	return cl.baseURL != "" && cl.secretKey != ""
}

// Countries the shipping address collector offers at checkout: the EU,
// the rest of the EEA and European microstates, North America, and the
// larger Asian and Gulf markets.
var shippingCountries = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR", "DE", "GR", "HU", "IE", "IT",
	"LV", "LT", "LU", "MT", "NL", "PL", "PT", "RO", "SK", "SI", "ES", "SE",
	"IS", "LI", "NO",
	"GB", "CH", "AD", "SM", "VA", "MC",
	"US", "CA",
	"CN", "JP", "KR", "HK", "SG", "TW", "IN", "TH", "MY", "VN", "PH", "ID", "AE", "SA", "QA", "KW", "BH", "OM",
}

func (cl *Client) CreateSession(c context.Context, params CheckoutParams) (Session, error) {
	c, span := inOtel.Tracer.Start(c, "Client CreateSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client CreateSession").
		Int("lineItems", len(params.LineItems)).
		Str(constants.KEY_PROCESS, "creating checkout session").
		Logger()
	logger.Info().Msg("creating checkout session")
	span.AddEvent("creating checkout session")

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("ui_mode", "hosted")
	form.Set("billing_address_collection", "required")
	form.Set("automatic_tax[enabled]", "true")
	form.Set("invoice_creation[enabled]", "true")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for i, country := range shippingCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}
	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "eur")
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	session, err := cl.postForm(c, "/v1/checkout/sessions", form)
	if err != nil {
		err = fmt.Errorf("failed creating checkout session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}

	logger.Info().Str(constants.KEY_CHECKOUT_SESSION_ID, session.ID).Msg("created checkout session")
	span.AddEvent("created checkout session")
	return session, nil
}

func (cl *Client) GetSession(c context.Context, sessionID string) (Session, error) {
	c, span := inOtel.Tracer.Start(c, "Client GetSession", trace.WithAttributes(attribute.String(constants.KEY_CHECKOUT_SESSION_ID, sessionID)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client GetSession").
		Str(constants.KEY_CHECKOUT_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, fmt.Sprintf("getting checkout session with sessionId=%s", sessionID)).
		Logger()
	logger.Info().Msgf("getting checkout session with sessionId=%s", sessionID)
	span.AddEvent("getting checkout session")

	if !cl.Configured() {
		err := fmt.Errorf("failed getting checkout session with error=%w", storeErrors.ErrNotConfigured)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}

	endpoint := cl.baseURL + "/v1/checkout/sessions/" + url.PathEscape(sessionID) +
		"?expand[]=payment_intent&expand[]=customer"
	req, err := http.NewRequestWithContext(c, http.MethodGet, endpoint, nil)
	if err != nil {
		err = fmt.Errorf("failed creating request for sessionId=%s with error=%w", sessionID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}

	session, err := cl.do(req)
	if err != nil {
		err = fmt.Errorf("failed getting checkout session with sessionId=%s with error=%w", sessionID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}

	logger.Info().
		Str(constants.KEY_SESSION_STATUS, session.Status).
		Str(constants.KEY_PAYMENT_STATUS, session.PaymentStatus).
		Msgf("got checkout session with sessionId=%s", sessionID)
	span.AddEvent("got checkout session")
	return session, nil
}

func (cl *Client) postForm(c context.Context, path string, form url.Values) (Session, error) {
	if !cl.Configured() {
		return Session{}, storeErrors.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(c, http.MethodPost, cl.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("failed creating request for path=%s with error=%w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return cl.do(req)
}

func (cl *Client) do(req *http.Request) (Session, error) {
	req.Header.Set("Authorization", "Bearer "+cl.secretKey)
	if cl.apiVersion != "" {
		req.Header.Set("Stripe-Version", cl.apiVersion)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("failed requesting url=%s with error=%v: %w", req.URL.Path, err, storeErrors.ErrUpstreamUnreachable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("failed reading response for url=%s with error=%w", req.URL.Path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(body))
		decoded := providerErrorBody{}
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
			message = decoded.Error.Message
		}
		return Session{}, &storeErrors.UpstreamError{Message: message, StatusCode: resp.StatusCode}
	}

	session := Session{}
	if err := json.Unmarshal(body, &session); err != nil {
		return Session{}, fmt.Errorf("failed unmarshaling response for url=%s with error=%w", req.URL.Path, err)
	}
	return session, nil
}
