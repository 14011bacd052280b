package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velvetlane/storefront/internal/constants"
)

const SessionCookieName = "storefront_session"

const sessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second)

type sessionId struct{}

func SessionIDFromContext(c context.Context) string {
	v, ok := c.Value(sessionId{}).(string)
	if !ok {
		return ""
	}
	return v
}

func AttachSessionIDToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, sessionId{}, id)
}

// AnonymousSession issues the HTTP-only anonymous session cookie on first
// contact and attaches its value to the request context. The token is random,
// it carries no identity.
func AnonymousSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).
			With().
			Str(constants.KEY_TAG, "middleware AnonymousSession").
			Logger()

		id := ""
		cookie, err := r.Cookie(SessionCookieName)
		if err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			logger.Info().Str(constants.KEY_SESSION_ID, id).Msg("issued anonymous session cookie")
		}

		logger = logger.With().Str(constants.KEY_SESSION_ID, id).Logger()
		c := AttachSessionIDToContext(r.Context(), id)
		c = logger.WithContext(c)
		next.ServeHTTP(w, r.WithContext(c))
	})
}
