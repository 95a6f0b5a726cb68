package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/archimorph/archimorph-server/internal/auth"
	"github.com/archimorph/archimorph-server/internal/utils"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	EmailKey  contextKey = "email"
)

// Auth extracts and verifies the bearer token and puts the caller's identity
// into the request context. A missing or malformed Authorization header and
// a bad or expired token both map to 401 but are logged as different things.
func Auth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				log.WithField("path", r.URL.Path).Warn("request without bearer token")
				utils.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := issuer.Verify(tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					log.WithField("path", r.URL.Path).Info("expired token")
				} else {
					log.WithField("path", r.URL.Path).Warn("invalid token")
				}
				utils.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id placed by Auth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
