// Package auth implements the authentication and authorization subsystem:
// credential and provider login, token issuance and refresh, the session
// cookies, and the role-gating middleware.
package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/config"
	"github.com/user/portfolio-api/models"
)

// UserStore resolves identities for the authorization middleware. The auth
// Service is the production implementation.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service orchestrates signup, login, provider upsert, refresh and identity
// resolution.
type Service struct {
	db  *gorm.DB
	cfg config.AuthConfig
}

// NewService creates an auth Service.
func NewService(db *gorm.DB, cfg config.AuthConfig) *Service {
	return &Service{db: db, cfg: cfg}
}

// Signup registers a new credential identity. It fails with a conflict when
// the email is already registered (exact match on the stored value) and
// returns the safe view only; no tokens are issued, so registration never
// implicitly starts a session.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.SafeUser, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, apperror.NewConflictError("User already exists with this email", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	digest, err := HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       digest,
		Role:           models.RoleUser,
		Provider:       models.ProviderCredential,
		ProfilePicture: req.ProfilePicture,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	safe := user.Safe()
	return &safe, nil
}

// Login authenticates an email/password pair and mints a token pair bound to
// {id, email, role}. Unknown email is NotFound; a failed compare is
// Unauthorized. Provider accounts carry an empty digest and always fail the
// compare.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if !CheckPassword(req.Password, user.Password) {
		return nil, apperror.NewUnauthorizedError("Password is incorrect", nil)
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user.Safe(), Tokens: tokens}, nil
}

// AuthWithProvider upserts an identity from an external provider profile and
// mints a fresh token pair. Repeated calls for one email converge on a single
// row: absent identities are created with an empty password digest, existing
// ones have profile picture and provider updated on drift.
func (s *Service) AuthWithProvider(ctx context.Context, req ProviderRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Name:           req.Name,
			Email:          req.Email,
			Password:       "",
			Role:           models.RoleUser,
			Provider:       req.Provider,
			ProfilePicture: req.ProfilePicture,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, apperror.NewDatabaseError("failed to create user", err)
		}
	case err != nil:
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	default:
		updates := map[string]interface{}{}
		if req.ProfilePicture != nil && (user.ProfilePicture == nil || *user.ProfilePicture != *req.ProfilePicture) {
			updates["profile_picture"] = *req.ProfilePicture
			user.ProfilePicture = req.ProfilePicture
		}
		if user.Provider != req.Provider {
			updates["provider"] = req.Provider
			user.Provider = req.Provider
		}
		if len(updates) > 0 {
			if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
				return nil, apperror.NewDatabaseError("failed to update user", err)
			}
		}
	}

	tokens, err := s.issueTokenPair(&user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user.Safe(), Tokens: tokens}, nil
}

// Refresh verifies a refresh token against the refresh secret, re-resolves
// the identity by the embedded email, and rotates the pair: both a new access
// token and a new refresh token are minted, so the presented refresh token is
// superseded on every use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := VerifyToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return nil, apperror.NewUnauthorizedError("Invalid or expired token", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", claims.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("User no longer exists", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	tokens, err := s.issueTokenPair(&user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user.Safe(), Tokens: tokens}, nil
}

// Me returns the current safe identity view by id.
func (s *Service) Me(ctx context.Context, userID string) (*models.SafeUser, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}
	safe := user.Safe()
	return &safe, nil
}

// FindByEmail resolves an identity by its exact stored email. Implements
// UserStore for the middleware.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}
	return &user, nil
}

func (s *Service) issueTokenPair(user *models.User) (TokenPair, error) {
	accessToken, err := IssueToken(user.ID, user.Email, user.Role, s.cfg.AccessSecret, s.cfg.AccessTokenDuration)
	if err != nil {
		return TokenPair{}, apperror.NewInternalError("failed to generate access token", err)
	}
	refreshToken, err := IssueToken(user.ID, user.Email, user.Role, s.cfg.RefreshSecret, s.cfg.RefreshTokenDuration)
	if err != nil {
		return TokenPair{}, apperror.NewInternalError("failed to generate refresh token", err)
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
