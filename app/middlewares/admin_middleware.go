package middlewares

import (
	"context"
	"net/http"
	"net/url"

	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/expertwinding/storefront/app/utils/sessions"
)

type contextKey string

const authorizationKey contextKey = "authorization"

// AdminAuthMiddleware sends visitors without an admin session to the login
// page and remembers where they were going. Admins get an Authorization in
// the request context.
func AdminAuthMiddleware(store sessions.SessionStore, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.IsAdmin(r) {
				logger.WithRequestID(r.Context(), nil).Info("Admin session missing, redirecting to login", "path", r.URL.Path)
				http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
				return
			}

			ctx := ContextWithAuthorization(r.Context(), services.AdminAuthorization())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithAuthorization(ctx context.Context, auth services.Authorization) context.Context {
	return context.WithValue(ctx, authorizationKey, auth)
}

// AuthorizationFromContext returns the zero Authorization, which is not an
// admin, when none was set.
func AuthorizationFromContext(ctx context.Context) services.Authorization {
	auth, _ := ctx.Value(authorizationKey).(services.Authorization)
	return auth
}
