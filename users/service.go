// Package users implements the admin account management surface. Accounts
// are hard-deleted; there is no soft-delete window for identities.
package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/auth"
	"github.com/user/portfolio-api/config"
	"github.com/user/portfolio-api/models"
	"github.com/user/portfolio-api/query"
)

// ListResult is a page of safe user views plus its pagination block.
type ListResult struct {
	Items []models.SafeUser `json:"items"`
	Meta  query.Meta        `json:"meta"`
}

// Service owns account reads and writes for the admin surface.
type Service struct {
	db  *gorm.DB
	cfg config.AuthConfig
}

// NewService creates the user service.
func NewService(db *gorm.DB, cfg config.AuthConfig) *Service {
	return &Service{db: db, cfg: cfg}
}

// List returns a page of accounts, searchable by name or email, newest
// first.
func (s *Service) List(ctx context.Context, p query.Params) (*ListResult, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(query.Search(p.Q, "name", "email"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count users", err)
	}

	var rows []models.User
	if err := base.Order("created_at DESC").Scopes(query.Paginate(p)).Find(&rows).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}

	items := make([]models.SafeUser, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Safe())
	}
	return &ListResult{Items: items, Meta: query.NewMeta(p, total)}, nil
}

// Get returns one account's safe view by id.
func (s *Service) Get(ctx context.Context, id string) (*models.SafeUser, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load user", err)
	}
	safe := user.Safe()
	return &safe, nil
}

// Create provisions a credential account with the given role, defaulting to
// USER. The email must be unused.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*models.SafeUser, error) {
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	digest, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       digest,
		Role:           role,
		Provider:       models.ProviderCredential,
		ProfilePicture: req.ProfilePicture,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	safe := user.Safe()
	return &safe, nil
}

// Update applies a partial update to an account. An email change must not
// collide with another account and a new password is hashed before storage.
func (s *Service) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.SafeUser, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		digest, err := auth.HashPassword(*req.Password, s.cfg.BcryptCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		user.Password = digest
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}

	safe := user.Safe()
	return &safe, nil
}

// Delete removes an account permanently. An admin cannot delete their own
// account, which keeps at least the acting admin alive.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return apperror.NewBadRequestError("You cannot delete your own account", nil)
	}
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return apperror.NewDatabaseError("failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("User not found", nil)
	}
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	var count int64
	db := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return apperror.NewDatabaseError("failed to check email", err)
	}
	if count > 0 {
		return apperror.NewConflictError("User already exists with this email", nil)
	}
	return nil
}
