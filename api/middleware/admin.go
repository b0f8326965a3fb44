package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/karunasetu/karuna-backend/api/responses"
	pkgauth "github.com/karunasetu/karuna-backend/pkg/auth"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const adminKeyHeader = "X-Admin-Key"

type tokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*pkgauth.AdminClaims, error)
}

// AdminGate protects mutating routes. A request passes with either the
// static admin key header or a valid bearer token; every rejection is the
// same 401 so probes learn nothing about which check failed.
func AdminGate(apiKey string, verifier tokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if key := r.Header.Get(adminKeyHeader); key != "" && apiKey != "" {
				if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
					if logg != nil {
						ctx = logg.WithAdmin(ctx, "api_key")
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if raw := bearerToken(r); raw != "" && verifier != nil {
				if _, err := verifier.VerifyToken(ctx, raw); err == nil {
					if logg != nil {
						ctx = logg.WithAdmin(ctx, "jwt")
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized"))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
