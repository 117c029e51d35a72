package auth

import (
	"net/http"
	"time"

	"github.com/user/portfolio-api/config"
)

// Cookie names for the token pair.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieManager sets and clears the auth cookies. Set and Clear must use
// identical attributes: many user agents silently ignore a deletion whose
// attributes do not match the original cookie.
type CookieManager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

// NewCookieManager builds a CookieManager from configuration. Outside local
// development cookies are Secure with SameSite=None so the browser sends them
// on cross-site requests from the frontend; in development they are Lax and
// non-secure.
func NewCookieManager(authCfg *config.AuthConfig, serverCfg *config.ServerConfig) *CookieManager {
	return &CookieManager{
		accessTTL:  authCfg.AccessTokenDuration,
		refreshTTL: authCfg.RefreshTokenDuration,
		secure:     serverCfg.IsProduction(),
	}
}

func (m *CookieManager) sameSite() http.SameSite {
	if m.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Set attaches whichever tokens of the pair are present as httpOnly cookies
// scoped to path "/", with max-age matching each token's TTL.
func (m *CookieManager) Set(w http.ResponseWriter, tokens TokenPair) {
	if tokens.AccessToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     AccessTokenCookie,
			Value:    tokens.AccessToken,
			Path:     "/",
			MaxAge:   int(m.accessTTL.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: m.sameSite(),
		})
	}
	if tokens.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshTokenCookie,
			Value:    tokens.RefreshToken,
			Path:     "/",
			MaxAge:   int(m.refreshTTL.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: m.sameSite(),
		})
	}
}

// Clear removes both cookies using the same attributes they were set with.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: m.sameSite(),
		})
	}
}
