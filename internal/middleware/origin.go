package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/velvetlane/storefront/internal/constants"
	inErrors "github.com/velvetlane/storefront/internal/errors"
	inHttp "github.com/velvetlane/storefront/internal/http"
)

// OriginAllowlist rejects requests whose Origin header is present and not on
// the configured allow-list. An empty allow-list disables the check, and
// requests without an Origin header pass through.
func OriginAllowlist(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(constants.KEY_TAG, "middleware OriginAllowlist").
				Logger()

			origin := r.Header.Get("Origin")
			if len(allowed) > 0 && origin != "" && !slices.Contains(allowed, origin) {
				logger.Error().
					Str(constants.KEY_ORIGIN, origin).
					Err(inErrors.ErrOriginNotAllowed).
					Msg(inErrors.ErrOriginNotAllowed.Error())
				inHttp.WriteError(r.Context(), w, http.StatusForbidden, inErrors.ErrOriginNotAllowed.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
