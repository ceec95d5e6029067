package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/unimarket/listing-service/internal/platform/logger"
)

// userIDKeyType is a private context key type to avoid collisions.
type userIDKeyType string

const userIDKey userIDKeyType = "authenticatedUserID"

// Claims is the JWT payload expected on protected routes.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionChecker looks up the active session token for a user. Sign-out
// drops the cached token, which must immediately refuse the JWT even
// though its signature and expiry are still valid.
type SessionChecker interface {
	GetToken(ctx context.Context, userID string) (string, error)
}

// UserIDFromContext returns the authenticated caller id set by JWTAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// JWTAuth verifies the Bearer token, checks it against the session cache
// when one is configured, and injects the caller id into the request
// context. Identity is then passed explicitly into usecases, never read
// from ambient state.
func JWTAuth(jwtSecret string, sessions SessionChecker, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "authorization token format is invalid, expected 'Bearer <token>'", http.StatusUnauthorized)
				return
			}
			tokenString := parts[1]

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("JWTAuth: token validation failed", "path", r.URL.Path, "error", err)
				http.Error(w, "token is invalid or expired", http.StatusUnauthorized)
				return
			}
			if claims.UserID == "" {
				http.Error(w, "user id not found in token claims", http.StatusUnauthorized)
				return
			}

			if sessions != nil {
				cached, err := sessions.GetToken(r.Context(), claims.UserID)
				if err != nil {
					log.Error("JWTAuth: session lookup failed", "user_id", claims.UserID, "error", err.Error())
					http.Error(w, "failed to verify the session", http.StatusUnauthorized)
					return
				}
				if cached != tokenString {
					http.Error(w, "session is no longer active", http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, claims.UserID)))
		})
	}
}
