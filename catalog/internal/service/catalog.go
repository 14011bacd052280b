package service

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

	"github.com/velvetlane/storefront/catalog/pkg/response"
	"github.com/velvetlane/storefront/internal/constants"
	"github.com/velvetlane/storefront/internal/contentrepo"
	"github.com/velvetlane/storefront/internal/media"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

const (
	KEY_PRODUCTS    = "catalog:products"
	KEY_PRODUCT     = "catalog:products:%s"
	KEY_COLLECTIONS = "catalog:collections"
	KEY_COLLECTION  = "catalog:collections:%s"
	KEY_CATEGORIES  = "catalog:categories"
	KEY_HOME_IMAGES = "catalog:home-images"

	catalogCacheTTL = 5 * time.Minute
)

// CatalogService reads catalog records from the content repository through a
// cache. Cache failures only cost the speedup, reads fall through to the
// repository.
type CatalogService struct {
	contentRepo *contentrepo.Client
	cache       *redis.Client
}

func NewCatalogService(contentRepo *contentrepo.Client, cache *redis.Client) *CatalogService {
	return &CatalogService{contentRepo: contentRepo, cache: cache}
}

func (s *CatalogService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()
	logger.Info().Msg("finding products")
	span.AddEvent("finding products")
	c = logger.WithContext(c)

	products, err := cached(c, s.cache, KEY_PRODUCTS, func(c context.Context) ([]response.Product, error) {
		found, err := s.contentRepo.FindProducts(c)
		if err != nil {
			return nil, err
		}
		for i := range found {
			found[i].Attributes.ImageUrl = media.AbsoluteURLs(s.contentRepo.BaseURL(), found[i].Attributes.ImageUrl)
		}
		return found, nil
	})
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

func (s *CatalogService) FindFeaturedProducts(c context.Context) ([]response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindFeaturedProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindFeaturedProducts").
		Str(constants.KEY_PROCESS, "finding featured products").
		Logger()
	logger.Info().Msg("finding featured products")
	span.AddEvent("finding featured products")

	c = logger.WithContext(c)
	products, err := s.FindProducts(c)
	if err != nil {
		return nil, err
	}

	featured := make([]response.Product, 0, len(products))
	for _, product := range products {
		if product.Attributes.IsFeatured && product.Attributes.Active {
			featured = append(featured, product)
		}
	}

	logger.Info().Int(constants.KEY_PRODUCTS, len(featured)).Msg("found featured products")
	span.AddEvent("found featured products")
	return featured, nil
}

func (s *CatalogService) FindProductBySlug(c context.Context, slug string) (response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindProductBySlug", trace.WithAttributes(attribute.String(constants.KEY_SLUG, slug)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindProductBySlug").
		Str(constants.KEY_SLUG, slug).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding product by slug=%s", slug)).
		Logger()
	logger.Info().Msgf("finding product by slug=%s", slug)
	span.AddEvent("finding product by slug")
	c = logger.WithContext(c)

	product, err := cached(c, s.cache, fmt.Sprintf(KEY_PRODUCT, slug), func(c context.Context) (response.Product, error) {
		found, err := s.contentRepo.FindProductBySlug(c, slug)
		if err != nil {
			return response.Product{}, err
		}
		found.Attributes.ImageUrl = media.AbsoluteURLs(s.contentRepo.BaseURL(), found.Attributes.ImageUrl)
		return found, nil
	})
	if err != nil {
		err = fmt.Errorf("failed finding product by slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger.Info().Msgf("found product by slug=%s", slug)
	span.AddEvent("found product by slug")
	return product, nil
}

func (s *CatalogService) FindCollections(c context.Context) ([]response.Collection, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindCollections")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindCollections").
		Str(constants.KEY_PROCESS, "finding collections").
		Logger()
	logger.Info().Msg("finding collections")
	span.AddEvent("finding collections")
	c = logger.WithContext(c)

	collections, err := cached(c, s.cache, KEY_COLLECTIONS, func(c context.Context) ([]response.Collection, error) {
		found, err := s.contentRepo.FindCollections(c)
		if err != nil {
			return nil, err
		}
		for i := range found {
			found[i].ImageUrl = media.AbsoluteURLs(s.contentRepo.BaseURL(), found[i].ImageUrl)
		}
		return found, nil
	})
	if err != nil {
		err = fmt.Errorf("failed finding collections with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger.Info().Int(constants.KEY_COLLECTIONS, len(collections)).Msg("found collections")
	span.AddEvent("found collections")
	return collections, nil
}

func (s *CatalogService) FindCollectionBySlug(c context.Context, slug string) (response.Collection, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindCollectionBySlug", trace.WithAttributes(attribute.String(constants.KEY_SLUG, slug)))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindCollectionBySlug").
		Str(constants.KEY_SLUG, slug).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding collection by slug=%s", slug)).
		Logger()
	logger.Info().Msgf("finding collection by slug=%s", slug)
	span.AddEvent("finding collection by slug")
	c = logger.WithContext(c)

	collection, err := cached(c, s.cache, fmt.Sprintf(KEY_COLLECTION, slug), func(c context.Context) (response.Collection, error) {
		found, err := s.contentRepo.FindCollectionBySlug(c, slug)
		if err != nil {
			return response.Collection{}, err
		}
		found.ImageUrl = media.AbsoluteURLs(s.contentRepo.BaseURL(), found.ImageUrl)
		return found, nil
	})
	if err != nil {
		err = fmt.Errorf("failed finding collection by slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Collection{}, err
	}

	logger.Info().Msgf("found collection by slug=%s", slug)
	span.AddEvent("found collection by slug")
	return collection, nil
}

func (s *CatalogService) FindCategories(c context.Context) ([]response.Category, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()
	logger.Info().Msg("finding categories")
	span.AddEvent("finding categories")
	c = logger.WithContext(c)

	categories, err := cached(c, s.cache, KEY_CATEGORIES, s.contentRepo.FindCategories)
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

func (s *CatalogService) FindHomeImages(c context.Context) ([]response.HomeImage, error) {
	c, span := inOtel.Tracer.Start(c, "CatalogService FindHomeImages")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService FindHomeImages").
		Str(constants.KEY_PROCESS, "finding home images").
		Logger()
	logger.Info().Msg("finding home images")
	span.AddEvent("finding home images")
	c = logger.WithContext(c)

	homeImages, err := cached(c, s.cache, KEY_HOME_IMAGES, func(c context.Context) ([]response.HomeImage, error) {
		found, err := s.contentRepo.FindHomeImages(c)
		if err != nil {
			return nil, err
		}
		for i := range found {
			found[i].Image.URL = media.AbsoluteURL(s.contentRepo.BaseURL(), found[i].Image.URL)
		}
		return found, nil
	})
	if err != nil {
		err = fmt.Errorf("failed finding home images with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger.Info().Int(constants.KEY_HOME_IMAGES, len(homeImages)).Msg("found home images")
	span.AddEvent("found home images")
	return homeImages, nil
}

// cached reads through the cache. A nil client, a miss, or a cache error all
// fall through to fetch; only the fetch error is ever returned.
func cached[T any](
	c context.Context,
	cache *redis.Client,
	cacheKey string,
	fetch func(context.Context) (T, error),
) (T, error) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_CACHE_KEY, cacheKey).Logger()

	var value T
	if cache != nil {
		serialized, err := cache.Get(c, cacheKey).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(serialized), &value); err == nil {
				logger.Debug().Msg("cache hit")
				return value, nil
			}
			logger.Warn().Msg("failed unmarshaling cached value, refetching")
		} else if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Msg("failed reading cache, falling through to content repository")
		}
	}

	value, err := fetch(c)
	if err != nil {
		var zero T
		return zero, err
	}

	if cache != nil {
		serialized, err := json.Marshal(value)
		if err == nil {
			if err := cache.Set(c, cacheKey, serialized, catalogCacheTTL).Err(); err != nil {
				logger.Warn().Err(err).Msg("failed writing cache")
			}
		}
	}
	return value, nil
}
