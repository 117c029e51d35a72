package auth

import (
	"net/http"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/config"
	"github.com/user/portfolio-api/respond"
)

// Authorize gates a route group to the given roles. The access token is read
// from the cookie jar and verified against the access secret; the identity is
// then re-fetched from the store on every request so account deletion and
// role changes take effect on the very next authorized request, never delayed
// by token caching. A deleted account is a 400, an insufficient current role
// a 403.
func Authorize(store UserStore, cfg *config.AuthConfig, roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				respond.Error(w, r, apperror.NewUnauthorizedError("No token received", nil))
				return
			}

			claims, err := VerifyToken(cookie.Value, cfg.AccessSecret)
			if err != nil {
				respond.Error(w, r, apperror.NewUnauthorizedError("Invalid token", err))
				return
			}

			user, err := store.FindByEmail(r.Context(), claims.Email)
			if err != nil {
				if apperror.IsNotFound(err) {
					respond.Error(w, r, apperror.NewBadRequestError("User does not exist", nil))
					return
				}
				respond.Error(w, r, err)
				return
			}

			// The token's embedded role is deliberately ignored here.
			if !roleAllowed(user.Role, roles) {
				respond.Error(w, r, apperror.NewForbiddenError("You are not permitted to view this route", nil))
				return
			}

			ctx := NewContextWithUser(r.Context(), &AuthUser{
				ID:       user.ID,
				Email:    user.Email,
				Role:     user.Role,
				Provider: user.Provider,
				Name:     user.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional attaches the acting identity when a valid access cookie is
// present and otherwise lets the request through anonymously. Used on public
// reads that grant extra visibility to the owner.
func Optional(store UserStore, cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := VerifyToken(cookie.Value, cfg.AccessSecret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.FindByEmail(r.Context(), claims.Email)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := NewContextWithUser(r.Context(), &AuthUser{
				ID:       user.ID,
				Email:    user.Email,
				Role:     user.Role,
				Provider: user.Provider,
				Name:     user.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
