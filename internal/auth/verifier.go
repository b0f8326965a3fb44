package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	pkgauth "github.com/karunasetu/karuna-backend/pkg/auth"
	"github.com/karunasetu/karuna-backend/pkg/config"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Verifier authenticates the single configured admin identity. The admin
// password is hashed once at construction so the plaintext never lingers on
// the struct; when no password is configured, credential login is disabled
// and every attempt is rejected.
type Verifier struct {
	email        string
	passwordHash string
	jwtCfg       config.JWTConfig
	now          func() time.Time
}

func NewVerifier(ctx context.Context, cfg config.AdminConfig, jwtCfg config.JWTConfig, logg *logger.Logger) (*Verifier, error) {
	v := &Verifier{
		email:  strings.ToLower(strings.TrimSpace(cfg.Email)),
		jwtCfg: jwtCfg,
		now:    time.Now,
	}

	if cfg.Password == "" {
		if logg != nil {
			logg.Warn(ctx, "admin password not configured, credential login disabled")
		}
		return v, nil
	}

	hash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return nil, err
	}
	v.passwordHash = hash
	return v, nil
}

// VerifyCredentials checks the email/password pair. Failures are uniform so
// callers cannot distinguish a wrong email from a wrong password.
func (v *Verifier) VerifyCredentials(ctx context.Context, email, password string) error {
	if v.passwordHash == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	emailMatch := subtle.ConstantTimeCompare([]byte(normalized), []byte(v.email)) == 1
	passwordMatch := security.VerifyPassword(password, v.passwordHash)

	if !emailMatch || !passwordMatch {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return nil
}

// IssueToken mints the admin session JWT.
func (v *Verifier) IssueToken(ctx context.Context) (string, error) {
	token, err := pkgauth.MintAdminToken(v.jwtCfg, v.now(), v.email)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting admin token")
	}
	return token, nil
}

// VerifyToken validates a bearer token, failing closed on any parse or
// claims problem.
func (v *Verifier) VerifyToken(ctx context.Context, raw string) (*pkgauth.AdminClaims, error) {
	claims, err := pkgauth.ParseAdminToken(v.jwtCfg, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
	}
	if !claims.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return claims, nil
}
