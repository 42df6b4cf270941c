package middleware

import (
	"net/http"
	"strings"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/user"
	"fuelease-be/internal/utils"

	"go.uber.org/zap"
)

const AccessTokenCookie = "access_token"

type TokenParser interface {
	ParseJWT(token string) (*user.CustomClaims, error)
}

// ExtractAccessToken prefers the cookie and falls back to a Bearer header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	return ""
}

// AuthMiddleware is optional auth: anonymous requests pass through, a token
// that is present but invalid is rejected.
func AuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.ParseJWT(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Info("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "could not validate credentials", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
