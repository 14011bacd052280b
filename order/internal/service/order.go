package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/velvetlane/storefront/internal/constants"
	"github.com/velvetlane/storefront/internal/contentrepo"
	inOtel "github.com/velvetlane/storefront/internal/otel"
	"github.com/velvetlane/storefront/internal/payment"
	"github.com/velvetlane/storefront/order/pkg/request"
	"github.com/velvetlane/storefront/order/pkg/response"
)

// OrderService turns validated submissions into order records, and for the
// payment flow builds a checkout session priced from live product data
// before the order is persisted.
type OrderService struct {
	contentRepo *contentrepo.Client
	payment     *payment.Client
	clientURL   string
}

func NewOrderService(contentRepo *contentrepo.Client, paymentClient *payment.Client, clientURL string) *OrderService {
	return &OrderService{contentRepo: contentRepo, payment: paymentClient, clientURL: clientURL}
}

func (s *OrderService) SubmitOrder(c context.Context, submission request.Submission) (response.Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService SubmitOrder", trace.WithAttributes(
		attribute.Int(constants.KEY_ORDER_PRODUCTS, len(submission.Products)),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService SubmitOrder").
		Int(constants.KEY_ORDER_PRODUCTS, len(submission.Products)).
		Str(constants.KEY_PROCESS, "submitting order").
		Logger()
	logger.Info().Msg("submitting order")
	span.AddEvent("submitting order")

	c = logger.WithContext(c)
	created, err := s.contentRepo.CreateOrder(c, orderEntry(submission, ""))
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger.Info().Int64("orderId", created.ID).Msg("submitted order")
	span.AddEvent("submitted order")
	return response.Order{ID: created.ID, Attributes: created.Attributes}, nil
}

func (s *OrderService) CheckoutOrder(c context.Context, submission request.Submission) (response.CheckoutSession, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService CheckoutOrder", trace.WithAttributes(
		attribute.Int(constants.KEY_ORDER_PRODUCTS, len(submission.Products)),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService CheckoutOrder").
		Int(constants.KEY_ORDER_PRODUCTS, len(submission.Products)).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "pricing line items").Logger()
	logger.Info().Msg("pricing line items")
	span.AddEvent("pricing line items")
	c = logger.WithContext(c)
	lineItems := make([]payment.LineItem, 0, len(submission.Products))
	for _, product := range submission.Products {
		found, err := s.contentRepo.FindProductByID(c, product.ID)
		if err != nil {
			err = fmt.Errorf("failed pricing productId=%d with error=%w", product.ID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.CheckoutSession{}, err
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:       lineItemName(found.Attributes.ProductName, product),
			UnitAmount: found.Attributes.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			// Stripe rejects zero quantities, so a submission never bills below one unit.
			Quantity: max(1, product.Quantity),
		})
	}
	logger.Info().Msg("priced line items")
	span.AddEvent("priced line items")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating checkout session").Logger()
	logger.Info().Msg("creating checkout session")
	span.AddEvent("creating checkout session")
	c = logger.WithContext(c)
	session, err := s.payment.CreateSession(c, payment.CheckoutParams{
		SuccessURL: s.clientURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.clientURL + "/cart",
		LineItems:  lineItems,
	})
	if err != nil {
		err = fmt.Errorf("failed creating checkout session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CheckoutSession{}, err
	}
	logger = logger.With().Str(constants.KEY_CHECKOUT_SESSION_ID, session.ID).Logger()
	logger.Info().Msg("created checkout session")
	span.AddEvent("created checkout session")

	logger = logger.With().Str(constants.KEY_PROCESS, "persisting order").Logger()
	logger.Info().Msg("persisting order")
	span.AddEvent("persisting order")
	c = logger.WithContext(c)
	created, err := s.contentRepo.CreateOrder(c, orderEntry(submission, session.ID))
	if err != nil {
		err = fmt.Errorf("failed persisting order for sessionId=%s with error=%w", session.ID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CheckoutSession{}, err
	}

	logger.Info().Int64("orderId", created.ID).Msg("persisted order")
	span.AddEvent("persisted order")
	return response.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func orderEntry(submission request.Submission, sessionID string) contentrepo.OrderEntry {
	entry := contentrepo.OrderEntry{
		CheckoutSessionID: sessionID,
		Products:          make([]contentrepo.OrderProduct, 0, len(submission.Products)),
	}
	for _, product := range submission.Products {
		entry.Products = append(entry.Products, contentrepo.OrderProduct{
			ID:       product.ID,
			Quantity: product.Quantity,
		})
	}
	return entry
}

func lineItemName(productName string, product request.Product) string {
	name := productName
	if name == "" {
		name = product.Name
	}
	if product.Size != "" {
		name = fmt.Sprintf("%s (%s)", name, product.Size)
	}
	return name
}
