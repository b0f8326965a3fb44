package controllers

import (
	"net/http"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	adminauth "github.com/karunasetu/karuna-backend/internal/auth"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin exchanges the admin credentials for a session token.
func AdminLogin(verifier *adminauth.Verifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := verifier.VerifyCredentials(r.Context(), payload.Email, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := verifier.IssueToken(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"token": token})
	}
}

// AdminLogout acknowledges the logout. Sessions are stateless JWTs, so the
// client discarding the token is the whole operation.
func AdminLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
