package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/velvetlane/storefront/cart/pkg/store"
	"github.com/velvetlane/storefront/internal/constants"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

const (
	KEY_CARTS = "carts:%s"

	// Matches the anonymous session cookie lifetime so a cart never
	// outlives the session that owns it.
	cartTTL = 30 * 24 * time.Hour
)

// Redis persists carts in the shared cache so every process sees the same
// cart for a session.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Load(c context.Context, sessionID string) (store.State, error) {
	c, span := inOtel.Tracer.Start(c, "Redis Load", trace.WithAttributes(attribute.String(constants.KEY_SESSION_ID, sessionID)))
	defer span.End()

	cacheKey := fmt.Sprintf(KEY_CARTS, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Redis Load").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Str(constants.KEY_PROCESS, "loading cart").
		Logger()
	logger.Info().Msg("loading cart")
	span.AddEvent("loading cart")

	serialized, err := r.client.Get(c, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		logger.Info().Msg("no cart stored for session")
		return store.State{}, nil
	}
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, err
	}

	doc := document{}
	if err := json.Unmarshal([]byte(serialized), &doc); err != nil || doc.Version != SchemaVersion {
		logger.Warn().Msg("stored cart is corrupt or from another schema version, treating as empty")
		span.AddEvent("stored cart is corrupt, treating as empty")
		return store.State{}, nil
	}

	logger.Info().Int(constants.KEY_CART_LINE_COUNT, len(doc.Lines)).Msg("loaded cart")
	span.AddEvent("loaded cart")
	return store.State{Lines: doc.Lines}, nil
}

func (r *Redis) Save(c context.Context, sessionID string, state store.State) error {
	c, span := inOtel.Tracer.Start(c, "Redis Save", trace.WithAttributes(attribute.String(constants.KEY_SESSION_ID, sessionID)))
	defer span.End()

	cacheKey := fmt.Sprintf(KEY_CARTS, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Redis Save").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Int(constants.KEY_CART_LINE_COUNT, len(state.Lines)).
		Str(constants.KEY_PROCESS, "saving cart").
		Logger()
	logger.Info().Msg("saving cart")
	span.AddEvent("saving cart")

	serialized, err := json.Marshal(document{Version: SchemaVersion, Lines: state.Lines})
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	err = r.client.Set(c, cacheKey, serialized, cartTTL).Err()
	if err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("saved cart")
	span.AddEvent("saved cart")
	return nil
}

func (r *Redis) Delete(c context.Context, sessionID string) error {
	c, span := inOtel.Tracer.Start(c, "Redis Delete", trace.WithAttributes(attribute.String(constants.KEY_SESSION_ID, sessionID)))
	defer span.End()

	cacheKey := fmt.Sprintf(KEY_CARTS, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Redis Delete").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Str(constants.KEY_PROCESS, "deleting cart").
		Logger()
	logger.Info().Msg("deleting cart")
	span.AddEvent("deleting cart")

	err := r.client.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("deleted cart")
	span.AddEvent("deleted cart")
	return nil
}
