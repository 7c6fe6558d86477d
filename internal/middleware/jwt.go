package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type key string

const userIDKey key = "user_id"

// GetUserID returns the authenticated user id stored by JWTMiddleware.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Exposed for tests.
func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// JWTMiddleware verifies the Authorization bearer token and stores the caller's
// user id in the request context. Rejections are 403 with a machine code:
// MISSING_CREDENTIAL when no well-formed token was presented, INVALID_CREDENTIAL
// for a bad signature, wrong algorithm, malformed token, or expiry.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				reject(w, "missing credential", "MISSING_CREDENTIAL")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				reject(w, "invalid credential", "INVALID_CREDENTIAL")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				reject(w, "invalid credential", "INVALID_CREDENTIAL")
				return
			}
			rawID, ok := claims["user_id"].(float64)
			if !ok {
				reject(w, "invalid credential", "INVALID_CREDENTIAL")
				return
			}

			ctx := WithUserID(r.Context(), int(rawID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
