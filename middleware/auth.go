package middleware

import (
	"fmt"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/asset-registry/repositories"
	"github.com/blogem/asset-registry/userctx"
)

// RequireAuth ensures the request carries an authenticated session and
// resolves the session subject to a registry user, which is placed in
// the request context for handlers and the authorization gate.
func RequireAuth(userRepo repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.GetSession(r)
			userID, ok := sess.Get("user_id").(string)
			if !ok || userID == "" {
				unauthorized(w, "authentication required")
				return
			}

			user, err := userRepo.GetByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, "unknown session user")
				return
			}

			ctx := userctx.SetUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the structured error envelope with a 401 status
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success":false,"error":{"code":"UNAUTHORIZED","message":%q}}`, message)
}
