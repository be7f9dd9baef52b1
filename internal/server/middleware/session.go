package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// sessionKeyCtx is the context key under which the session identity is
// stored.
type sessionKeyCtx struct{}

// Session returns middleware that extracts the opaque session identity from
// either a Bearer token in the Authorization header or the X-Session-Id
// header and stores it in the request context. The engine treats the value as
// an opaque key only.
//
// When apiKey is non-empty, requests must present exactly that token;
// anything else is rejected. When apiKey is empty, any (or no) session key is
// accepted.
func Session(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)

			if apiKey != "" {
				if token == "" {
					writeUnauthorized(w, "missing session token")
					return
				}
				// Constant-time comparison to prevent timing attacks.
				if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
					writeUnauthorized(w, "invalid session token")
					return
				}
			}

			if token != "" {
				r = r.WithContext(context.WithValue(r.Context(), sessionKeyCtx{}, token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext returns the opaque session key stored by Session, or an
// empty string when the request carried none.
func SessionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKeyCtx{}).(string); ok {
		return v
	}
	return ""
}

// extractToken looks for a token in the Authorization header (Bearer scheme)
// or in the X-Session-Id header.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if key := r.Header.Get("X-Session-Id"); key != "" {
		return strings.TrimSpace(key)
	}

	return ""
}

// writeUnauthorized sends a 401 response with a JSON error body.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
