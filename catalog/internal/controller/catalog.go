package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/velvetlane/storefront/catalog/internal/service"
	"github.com/velvetlane/storefront/internal/constants"
	storeErrors "github.com/velvetlane/storefront/internal/errors"
	inHttp "github.com/velvetlane/storefront/internal/http"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

type CatalogController struct {
	service *service.CatalogService
}

func AttachCatalogController(mux *mux.Router, service *service.CatalogService) {
	controller := CatalogController{service: service}

	mux.HandleFunc("/products", controller.FindProducts).Methods(http.MethodGet)
	mux.HandleFunc("/products/featured", controller.FindFeaturedProducts).Methods(http.MethodGet)
	mux.HandleFunc("/products/{slug}", controller.FindProductBySlug).Methods(http.MethodGet)
	mux.HandleFunc("/collections", controller.FindCollections).Methods(http.MethodGet)
	mux.HandleFunc("/collections/{slug}", controller.FindCollectionBySlug).Methods(http.MethodGet)
	mux.HandleFunc("/categories", controller.FindCategories).Methods(http.MethodGet)
	mux.HandleFunc("/home-images", controller.FindHomeImages).Methods(http.MethodGet)
}

func (t CatalogController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()
	logger.Info().Msg("finding products")

	c = logger.WithContext(c)
	products, err := t.service.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found products",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t CatalogController) FindFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindFeaturedProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindFeaturedProducts").
		Str(constants.KEY_PROCESS, "finding featured products").
		Logger()
	logger.Info().Msg("finding featured products")

	c = logger.WithContext(c)
	products, err := t.service.FindFeaturedProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding featured products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found featured products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found featured products",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t CatalogController) FindProductBySlug(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindProductBySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindProductBySlug").
		Str(constants.KEY_SLUG, slug).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding product by slug=%s", slug)).
		Logger()
	logger.Info().Msgf("finding product by slug=%s", slug)

	c = logger.WithContext(c)
	product, err := t.service.FindProductBySlug(c, slug)
	if err != nil {
		err = fmt.Errorf("failed finding product by slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found product by slug=%s", slug)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("product with slug=%s found", slug),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (t CatalogController) FindCollections(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindCollections")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindCollections").
		Str(constants.KEY_PROCESS, "finding collections").
		Logger()
	logger.Info().Msg("finding collections")

	c = logger.WithContext(c)
	collections, err := t.service.FindCollections(c)
	if err != nil {
		err = fmt.Errorf("failed finding collections with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found collections")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found collections",
		"data": map[string]interface{}{
			"collections": collections,
		},
	})
}

func (t CatalogController) FindCollectionBySlug(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindCollectionBySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindCollectionBySlug").
		Str(constants.KEY_SLUG, slug).
		Str(constants.KEY_PROCESS, fmt.Sprintf("finding collection by slug=%s", slug)).
		Logger()
	logger.Info().Msgf("finding collection by slug=%s", slug)

	c = logger.WithContext(c)
	collection, err := t.service.FindCollectionBySlug(c, slug)
	if err != nil {
		err = fmt.Errorf("failed finding collection by slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found collection by slug=%s", slug)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("collection with slug=%s found", slug),
		"data": map[string]interface{}{
			"collection": collection,
		},
	})
}

func (t CatalogController) FindCategories(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()
	logger.Info().Msg("finding categories")

	c = logger.WithContext(c)
	categories, err := t.service.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found categories")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found categories",
		"data": map[string]interface{}{
			"categories": categories,
		},
	})
}

func (t CatalogController) FindHomeImages(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CatalogController FindHomeImages")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindHomeImages").
		Str(constants.KEY_PROCESS, "finding home images").
		Logger()
	logger.Info().Msg("finding home images")

	c = logger.WithContext(c)
	homeImages, err := t.service.FindHomeImages(c)
	if err != nil {
		err = fmt.Errorf("failed finding home images with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": catalogStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found home images")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found home images",
		"data": map[string]interface{}{
			"homeImages": homeImages,
		},
	})
}

func catalogStatusCode(err error) int {
	upstreamErr := &storeErrors.UpstreamError{}
	switch {
	case errors.Is(err, storeErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storeErrors.ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.Is(err, storeErrors.ErrUpstreamUnreachable):
		return http.StatusBadGateway
	case errors.As(err, &upstreamErr):
		return upstreamErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}
