package auth

import (
	"context"
	"net/http"
)

// Ключ контекста для узла
type contextKey string

const NodeContextKey contextKey = "node"

// AuthMiddleware проверяет JWT токен в заголовке Authorization
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := authenticate(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="workload-node"`)
			http.Error(w, "Не авторизован: "+err.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), NodeContextKey, claims)))
	})
}

// GetNodeFromContext извлекает утверждения узла из контекста
func GetNodeFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(NodeContextKey).(*Claims)
	return claims, ok
}
