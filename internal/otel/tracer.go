package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/velvetlane/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_MAIN_STOREFRONT)
