package http

import (
	"net/http"
	"strings"

	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/usecase"
)

// authMiddleware validates the session token and stores it in the
// request context. Credentials come from the token cookie pair or an
// Authorization header carrying "Bearer <id>:<secret>". There is no
// default tenant: an unauthenticated request is rejected unless the
// server runs in no-auth mode with an explicit tenant.
func authMiddleware(authUC *usecase.AuthUseCase, noAuthTenant string) func(http.Handler) http.Handler {
	// one anonymous identity for the whole server; minting a token per
	// request would churn UUIDs and change identity between requests
	var anonymous *auth.Token
	if noAuthTenant != "" {
		anonymous = auth.NewToken(noAuthTenant, 0, "anonymous")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil || authUC.NoAuthn() {
				if anonymous == nil {
					http.Error(w, "Authentication required", http.StatusUnauthorized)
					return
				}
				ctx := auth.ContextWithToken(r.Context(), anonymous)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tokenID, tokenSecret, ok := requestCredentials(r)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestCredentials(r *http.Request) (auth.TokenID, auth.TokenSecret, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return "", "", false
		}
		id, secret, found := strings.Cut(raw, ":")
		if !found || id == "" || secret == "" {
			return "", "", false
		}
		return auth.TokenID(id), auth.TokenSecret(secret), true
	}

	idCookie, err := r.Cookie("token_id")
	if err != nil {
		return "", "", false
	}
	secretCookie, err := r.Cookie("token_secret")
	if err != nil {
		return "", "", false
	}
	return auth.TokenID(idCookie.Value), auth.TokenSecret(secretCookie.Value), true
}
