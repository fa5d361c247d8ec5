package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/infra/observability"
)

var (
	errNoToken       = errors.New("missing bearer token")
	errBadAuthHeader = errors.New("invalid authorization header")
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuthHeader
	}
	return token, nil
}

// JWTAuthMiddleware accepts HS256 tokens signed with secret and records the
// token subject on the request log line and the server span. Everything
// else gets a 401.
func JWTAuthMiddleware(secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err == nil {
				var claims jwt.RegisteredClaims
				if _, err = parser.ParseWithClaims(token, &claims, keyFunc); err == nil {
					observability.AddLogFields(r.Context(), zap.String("subject", claims.Subject))
					trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("enduser.id", claims.Subject))
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("auth: request rejected",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			msg := "invalid or expired token"
			if errors.Is(err, errNoToken) || errors.Is(err, errBadAuthHeader) {
				msg = err.Error()
			}
			writeError(w, r, http.StatusUnauthorized, msg)
		})
	}
}
