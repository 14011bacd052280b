package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Limiter counts submissions per client key over a fixed window. Allow
// reports whether the request may proceed and, when it may not, how long the
// caller should wait before the window resets.
type Limiter interface {
	Allow(c context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// ClientKey builds the bucket key from the requester's IP and the anonymous
// session id issued by the session cookie.
func ClientKey(r *http.Request, sessionID string) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	return fmt.Sprintf("%s|%s", ip, sessionID)
}
