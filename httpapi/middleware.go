package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/auth"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/user"
)

type ctxKey int

const userKey ctxKey = iota

// currentUser returns the authenticated user from the request context,
// nil on unauthenticated routes.
func currentUser(r *http.Request) *user.User {
	u, _ := r.Context().Value(userKey).(*user.User)
	return u
}

// RequestLogger logs one line per request through a structured logger.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// authenticate resolves the bearer token to a user and stores it on the
// request context. Requests without a valid token get 401.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, auth.ErrInvalidToken)
			return
		}

		subject, err := a.tokens.Verify(tokenString)
		if err != nil {
			writeError(w, err)
			return
		}

		userID, err := id.ParseUserID(subject)
		if err != nil {
			writeError(w, auth.ErrInvalidToken)
			return
		}

		u, err := a.engine.GetUser(r.Context(), userID)
		if err != nil {
			if storefront.IsNotFound(err) {
				writeError(w, auth.ErrInvalidToken)
				return
			}
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects authenticated non-admin users.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil || !u.IsAdmin {
			writeError(w, storefront.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
