// Data transfer objects for the auth endpoints. Validation tags are enforced
// at the boundary by the validation package before any service call.
package auth

import (
	"github.com/user/portfolio-api/models"
)

// SignupRequest is the registration payload.
type SignupRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// LoginRequest is the credential login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProviderRequest is the OAuth upsert payload delivered by the frontend's
// auth callback.
type ProviderRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
	Provider       string  `json:"provider" validate:"required,oneof=GOOGLE GITHUB"`
}

// RefreshRequest carries a refresh token in the body for clients that cannot
// send the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by login, provider auth and refresh: the safe
// identity view plus the freshly minted token pair.
type LoginResult struct {
	User   models.SafeUser `json:"user"`
	Tokens TokenPair       `json:"tokens"`
}
