// Package resumes implements resume documents. Visibility differs from the
// other catalogs: an unpublished resume is readable by admins and by the
// owning user, never by anyone else.
package resumes

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/auth"
	"github.com/user/portfolio-api/models"
	"github.com/user/portfolio-api/query"
)

// ListResult is a page of resumes plus its pagination block.
type ListResult struct {
	Items []models.Resume `json:"items"`
	Meta  query.Meta      `json:"meta"`
}

// Service owns resume reads and writes.
type Service struct {
	db *gorm.DB
}

// NewService creates the resume service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a page of resumes. Admins get the full visibility flags;
// authenticated users additionally see their own drafts; everyone else sees
// published, live rows only.
func (s *Service) List(ctx context.Context, acting *auth.AuthUser, p query.Params) (*ListResult, error) {
	admin := acting != nil && acting.IsAdmin()

	base := s.db.WithContext(ctx).Model(&models.Resume{}).
		Scopes(query.Search(p.Q, "title", "summary"))
	switch {
	case admin:
		base = base.Scopes(query.Visibility(true, p))
	case acting != nil:
		base = base.Where("published = ? OR user_id = ?", true, acting.ID)
	default:
		base = base.Where("published = ?", true)
	}
	if p.Tag != "" {
		base = base.Where("skills LIKE ?", `%"`+p.Tag+`"%`)
	}
	if p.Featured != nil {
		base = base.Where("featured = ?", *p.Featured)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count resumes", err)
	}

	items := make([]models.Resume, 0, p.Limit)
	if err := base.Scopes(query.Order(), query.Paginate(p)).Find(&items).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to list resumes", err)
	}

	return &ListResult{Items: items, Meta: query.NewMeta(p, total)}, nil
}

// Get returns a single resume by id. An unpublished resume resolves only for
// admins and its owner; everyone else gets NotFound rather than a visibility
// hint.
func (s *Service) Get(ctx context.Context, acting *auth.AuthUser, id string) (*models.Resume, error) {
	var resume models.Resume
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Resume not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load resume", err)
	}

	if !resume.Published {
		admin := acting != nil && acting.IsAdmin()
		owner := acting != nil && acting.ID == resume.UserID
		if !admin && !owner {
			return nil, apperror.NewNotFoundError("Resume not found", nil)
		}
	}
	return &resume, nil
}

// Create inserts a new resume. The owner defaults to the acting admin unless
// the payload names another user.
func (s *Service) Create(ctx context.Context, actorID string, req CreateResumeRequest) (*models.Resume, error) {
	resume := models.Resume{
		Title:             req.Title,
		Summary:           req.Summary,
		ProfessionalPhoto: req.ProfessionalPhoto,
		Skills:            models.NormalizeTags(req.Skills),
		Published:         req.Published,
		Featured:          req.Featured,
		Priority:          req.Priority,
		UserID:            req.UserID,
		CreatedByID:       actorID,
		UpdatedByID:       actorID,
	}
	if resume.UserID == "" {
		resume.UserID = actorID
	}
	if req.Published {
		now := time.Now().UTC()
		resume.PublishedAt = &now
	}

	var err error
	if resume.Experiences, err = normalizeDocument("experiences", req.Experiences); err != nil {
		return nil, err
	}
	if resume.Education, err = normalizeDocument("education", req.Education); err != nil {
		return nil, err
	}
	if resume.Projects, err = normalizeDocument("projects", req.Projects); err != nil {
		return nil, err
	}
	if resume.Certifications, err = normalizeDocument("certifications", req.Certifications); err != nil {
		return nil, err
	}
	if resume.ContactInfo, err = normalizeDocument("contactInfo", req.ContactInfo); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&resume).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to create resume", err)
	}
	return &resume, nil
}

// Update applies a partial update to a resume. A first transition to
// published stamps PublishedAt.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateResumeRequest) (*models.Resume, error) {
	var resume models.Resume
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Resume not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load resume", err)
	}

	if req.Title != nil {
		resume.Title = *req.Title
	}
	if req.Summary != nil {
		resume.Summary = req.Summary
	}
	if req.ProfessionalPhoto != nil {
		resume.ProfessionalPhoto = req.ProfessionalPhoto
	}
	if req.Skills != nil {
		resume.Skills = models.NormalizeTags(*req.Skills)
	}
	if req.Experiences != nil {
		if resume.Experiences, err = normalizeDocument("experiences", *req.Experiences); err != nil {
			return nil, err
		}
	}
	if req.Education != nil {
		if resume.Education, err = normalizeDocument("education", *req.Education); err != nil {
			return nil, err
		}
	}
	if req.Projects != nil {
		if resume.Projects, err = normalizeDocument("projects", *req.Projects); err != nil {
			return nil, err
		}
	}
	if req.Certifications != nil {
		if resume.Certifications, err = normalizeDocument("certifications", *req.Certifications); err != nil {
			return nil, err
		}
	}
	if req.ContactInfo != nil {
		if resume.ContactInfo, err = normalizeDocument("contactInfo", *req.ContactInfo); err != nil {
			return nil, err
		}
	}
	if req.Published != nil {
		if *req.Published && resume.PublishedAt == nil {
			now := time.Now().UTC()
			resume.PublishedAt = &now
		}
		resume.Published = *req.Published
	}
	if req.Featured != nil {
		resume.Featured = *req.Featured
	}
	if req.Priority != nil {
		resume.Priority = *req.Priority
	}
	resume.UpdatedByID = actorID

	if err := s.db.WithContext(ctx).Save(&resume).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to update resume", err)
	}
	return &resume, nil
}

// Delete soft-deletes a resume.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Resume{})
	if result.Error != nil {
		return apperror.NewDatabaseError("failed to delete resume", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Resume not found", nil)
	}
	return nil
}
