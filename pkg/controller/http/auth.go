package http

import (
	"net/http"

	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// logoutHandler revokes the session token and clears the cookie pair
func logoutHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			respondError(w, r, goerr.Wrap(usecase.ErrUnauthorized, "no caller identity"))
			return
		}

		if !authUC.NoAuthn() {
			if err := authUC.RevokeToken(r.Context(), token.ID); err != nil {
				respondError(w, r, err)
				return
			}
		}

		clearCookie(w, "token_id")
		clearCookie(w, "token_secret")
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler reports the caller identity bound to the session token
func meHandler() http.HandlerFunc {
	type response struct {
		TenantID string `json:"tenant_id"`
		UserID   int64  `json:"user_id"`
		Name     string `json:"name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			respondError(w, r, goerr.Wrap(usecase.ErrUnauthorized, "no caller identity"))
			return
		}

		respondJSON(w, r, http.StatusOK, response{
			TenantID: token.TenantID,
			UserID:   token.UserID,
			Name:     token.Name,
		})
	}
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
