package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	id, ok := v.(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given user id. Exposed for
// handler tests that bypass the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth resolves the caller's identity from a Bearer token. When
// allowImpersonation is set (local development only), a plain X-User-Id
// header is accepted as a fallback.
func RequireAuth(jwtSvc *JWT, allowImpersonation bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := ""

			h := r.Header.Get("Authorization")
			if strings.HasPrefix(h, "Bearer ") {
				token := strings.TrimPrefix(h, "Bearer ")
				if id, err := jwtSvc.Verify(token); err == nil {
					uid = id
				}
			}
			if uid == "" && allowImpersonation {
				uid = strings.TrimSpace(r.Header.Get("X-User-Id"))
			}
			if uid == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}
