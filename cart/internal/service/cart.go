package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/velvetlane/storefront/cart/pkg/repository"
	"github.com/velvetlane/storefront/cart/pkg/store"
	"github.com/velvetlane/storefront/internal/constants"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

// CartService loads a session's cart, applies one mutation, and writes the
// result back. The write happens only when the mutation actually changed
// the state, a rejected mutation must not touch the stored copy.
type CartService struct {
	persistence repository.Persistence
}

func NewCartService(persistence repository.Persistence) *CartService {
	return &CartService{persistence: persistence}
}

func (s *CartService) GetCart(c context.Context, sessionID string) (store.State, error) {
	c, span := inOtel.Tracer.Start(c, "CartService GetCart", trace.WithAttributes(attribute.String(constants.KEY_SESSION_ID, sessionID)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService GetCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "getting cart").
		Logger()
	logger.Info().Msg("getting cart")
	span.AddEvent("getting cart")

	state, err := s.persistence.Load(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, err
	}

	logger.Info().Int(constants.KEY_CART_LINE_COUNT, len(state.Lines)).Msg("got cart")
	span.AddEvent("got cart")
	return state, nil
}

func (s *CartService) AddItem(c context.Context, sessionID string, item store.Line) (store.State, store.Notice, error) {
	c, span := inOtel.Tracer.Start(c, "CartService AddItem", trace.WithAttributes(
		attribute.String(constants.KEY_SESSION_ID, sessionID),
		attribute.String(constants.KEY_SLUG, item.Slug),
		attribute.String(constants.KEY_SIZE, item.Size),
		attribute.String(constants.KEY_COLOR, item.Color),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_SLUG, item.Slug).
		Str(constants.KEY_SIZE, item.Size).
		Str(constants.KEY_COLOR, item.Color).
		Str(constants.KEY_PROCESS, "adding item to cart").
		Logger()
	logger.Info().Msg("adding item to cart")
	span.AddEvent("adding item to cart")

	return s.mutate(c, logger, span, sessionID, func(state store.State) (store.State, store.Notice) {
		return store.AddItem(state, item)
	})
}

func (s *CartService) RemoveItem(c context.Context, sessionID string, key store.Key) (store.State, store.Notice, error) {
	c, span := inOtel.Tracer.Start(c, "CartService RemoveItem", trace.WithAttributes(
		attribute.String(constants.KEY_SESSION_ID, sessionID),
		attribute.String(constants.KEY_SLUG, key.Slug),
		attribute.String(constants.KEY_SIZE, key.Size),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_SLUG, key.Slug).
		Str(constants.KEY_SIZE, key.Size).
		Str(constants.KEY_PROCESS, "removing item from cart").
		Logger()
	logger.Info().Msg("removing item from cart")
	span.AddEvent("removing item from cart")

	return s.mutate(c, logger, span, sessionID, func(state store.State) (store.State, store.Notice) {
		return store.RemoveItem(state, key)
	})
}

func (s *CartService) UpdateQuantity(c context.Context, sessionID string, key store.Key, quantity int) (store.State, store.Notice, error) {
	c, span := inOtel.Tracer.Start(c, "CartService UpdateQuantity", trace.WithAttributes(
		attribute.String(constants.KEY_SESSION_ID, sessionID),
		attribute.String(constants.KEY_SLUG, key.Slug),
		attribute.Int(constants.KEY_QUANTITY, quantity),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService UpdateQuantity").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_SLUG, key.Slug).
		Int(constants.KEY_QUANTITY, quantity).
		Str(constants.KEY_PROCESS, "updating quantity").
		Logger()
	logger.Info().Msg("updating quantity")
	span.AddEvent("updating quantity")

	return s.mutate(c, logger, span, sessionID, func(state store.State) (store.State, store.Notice) {
		return store.UpdateQuantity(state, key, quantity), store.Notice{}
	})
}

func (s *CartService) IncreaseQuantity(c context.Context, sessionID string, key store.Key) (store.State, store.Notice, error) {
	c, span := inOtel.Tracer.Start(c, "CartService IncreaseQuantity", trace.WithAttributes(
		attribute.String(constants.KEY_SESSION_ID, sessionID),
		attribute.String(constants.KEY_SLUG, key.Slug),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService IncreaseQuantity").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_SLUG, key.Slug).
		Str(constants.KEY_PROCESS, "increasing quantity").
		Logger()
	logger.Info().Msg("increasing quantity")
	span.AddEvent("increasing quantity")

	return s.mutate(c, logger, span, sessionID, func(state store.State) (store.State, store.Notice) {
		return store.IncreaseQuantity(state, key)
	})
}

func (s *CartService) DecreaseQuantity(c context.Context, sessionID string, key store.Key) (store.State, store.Notice, error) {
	c, span := inOtel.Tracer.Start(c, "CartService DecreaseQuantity", trace.WithAttributes(
		attribute.String(constants.KEY_SESSION_ID, sessionID),
		attribute.String(constants.KEY_SLUG, key.Slug),
	))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService DecreaseQuantity").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_SLUG, key.Slug).
		Str(constants.KEY_PROCESS, "decreasing quantity").
		Logger()
	logger.Info().Msg("decreasing quantity")
	span.AddEvent("decreasing quantity")

	return s.mutate(c, logger, span, sessionID, func(state store.State) (store.State, store.Notice) {
		return store.DecreaseQuantity(state, key)
	})
}

func (s *CartService) RemoveAll(c context.Context, sessionID string) (store.State, store.Notice, error) {
	c, span := inOtel.Tracer.Start(c, "CartService RemoveAll", trace.WithAttributes(attribute.String(constants.KEY_SESSION_ID, sessionID)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveAll").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PROCESS, "removing all items from cart").
		Logger()
	logger.Info().Msg("removing all items from cart")
	span.AddEvent("removing all items from cart")

	state, notice := store.RemoveAll(store.State{})
	err := s.persistence.Delete(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed removing all items from cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, store.Notice{}, err
	}

	logger.Info().Msg("removed all items from cart")
	span.AddEvent("removed all items from cart")
	return state, notice, nil
}

type mutation func(store.State) (store.State, store.Notice)

func (s *CartService) mutate(
	c context.Context,
	logger zerolog.Logger,
	span trace.Span,
	sessionID string,
	apply mutation,
) (store.State, store.Notice, error) {
	logger = logger.With().Str(constants.KEY_PROCESS, "loading cart").Logger()
	state, err := s.persistence.Load(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, store.Notice{}, err
	}

	next, notice := apply(state)
	if notice.Kind != store.NoticeNone {
		logger = logger.With().Str(constants.KEY_NOTICE, string(notice.Kind)).Logger()
		span.SetAttributes(attribute.String(constants.KEY_NOTICE, string(notice.Kind)))
	}
	if len(next.Lines) == len(state.Lines) && notice.Kind == store.NoticeMaxQuantity {
		logger.Info().Msg("mutation rejected, cart unchanged")
		span.AddEvent("mutation rejected, cart unchanged")
		return state, notice, nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "saving cart").Logger()
	err = s.persistence.Save(c, sessionID, next)
	if err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, store.Notice{}, err
	}

	logger.Info().Int(constants.KEY_CART_LINE_COUNT, len(next.Lines)).Msg("mutated cart")
	span.AddEvent("mutated cart")
	return next, notice, nil
}
