package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/leadstack/internal/infra/integration/supabase"
)

type contextKey string

const userContextKey contextKey = "auth.user"

type TokenVerifier interface {
	GetUser(ctx context.Context, token string) (*supabase.User, error)
}

type authErrorResponse struct {
	Error string `json:"error"`
}

// RequireUser protege toda rota de leads: extrai o bearer token e
// resolve contra o provedor de identidade. O principal resolvido vai
// para o contexto, mas não há escopo por usuário — qualquer sessão
// válida enxerga todos os leads (decisão de política, não esquecimento).
func RequireUser(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, "Missing bearer token")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := verifier.GetUser(r.Context(), token)
			if err != nil || user == nil {
				writeAuthError(w, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) *supabase.User {
	user, _ := ctx.Value(userContextKey).(*supabase.User)
	return user
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authErrorResponse{Error: message})
}
