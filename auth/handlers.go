package auth

import (
	"encoding/json"
	"net/http"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/respond"
	"github.com/user/portfolio-api/validation"
)

// Handlers exposes the auth endpoints over HTTP.
type Handlers struct {
	service *Service
	cookies *CookieManager
}

// NewHandlers creates the auth handlers.
func NewHandlers(service *Service, cookies *CookieManager) *Handlers {
	return &Handlers{service: service, cookies: cookies}
}

// HandleSignup godoc
// @Summary Register a new user
// @Description Creates a credential identity. No session is started; the client logs in separately.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signupBody body auth.SignupRequest true "Registration details"
// @Success 201 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorEnvelope
// @Router /auth/signup [post]
func (h *Handlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		user, err := h.service.Signup(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, "User created successfully", user)
	}
}

// HandleLogin godoc
// @Summary Log in with email and password
// @Description Authenticates credentials, sets the accessToken/refreshToken cookies and returns the identity plus tokens.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Login credentials"
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.ErrorEnvelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		result, err := h.service.Login(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		h.cookies.Set(w, result.Tokens)
		respond.JSON(w, http.StatusOK, "Logged in successfully", result)
	}
}

// HandleProviderAuth godoc
// @Summary Authenticate with an OAuth provider profile
// @Description Upserts the identity for the provider profile and starts a session. Idempotent per email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param providerBody body auth.ProviderRequest true "Provider profile"
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorEnvelope
// @Router /auth/provider [post]
func (h *Handlers) HandleProviderAuth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProviderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		result, err := h.service.AuthWithProvider(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		h.cookies.Set(w, result.Tokens)
		respond.JSON(w, http.StatusOK, "Authenticated successfully", result)
	}
}

// HandleRefresh godoc
// @Summary Refresh the session tokens
// @Description Accepts the refresh token from the cookie or the body and rotates the pair, re-setting both cookies.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.ErrorEnvelope
// @Router /auth/refresh-token [post]
func (h *Handlers) HandleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := ""
		if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
			refreshToken = cookie.Value
		}
		if refreshToken == "" {
			var req RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				refreshToken = req.RefreshToken
			}
		}
		defer r.Body.Close()

		if refreshToken == "" {
			respond.Error(w, r, apperror.NewUnauthorizedError("No refresh token received", nil))
			return
		}

		result, err := h.service.Refresh(r.Context(), refreshToken)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		h.cookies.Set(w, result.Tokens)
		respond.JSON(w, http.StatusOK, "Token refreshed successfully", result)
	}
}

// HandleMe godoc
// @Summary Current identity
// @Tags Auth
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.ErrorEnvelope
// @Router /auth/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting, ok := UserFromContext(r.Context())
		if !ok {
			respond.Error(w, r, apperror.NewUnauthorizedError("No token received", nil))
			return
		}

		user, err := h.service.Me(r.Context(), acting.ID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Current user retrieved", user)
	}
}

// HandleLogout godoc
// @Summary Log out
// @Description Clears both auth cookies. Stateless: already-issued access tokens stay valid until natural expiry.
// @Tags Auth
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /auth/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.cookies.Clear(w)
		respond.JSON(w, http.StatusOK, "Logged out successfully", nil)
	}
}
