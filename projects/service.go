// Package projects implements the portfolio project catalog and its admin
// CRUD surface.
package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/cache"
	"github.com/user/portfolio-api/models"
	"github.com/user/portfolio-api/query"
)

const cachePrefix = "projects"

// ListResult is a page of projects plus its pagination block.
type ListResult struct {
	Items []models.Project `json:"items"`
	Meta  query.Meta       `json:"meta"`
}

// Service owns project reads and writes.
type Service struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewService creates the project service. cache may be nil to disable list
// caching.
func NewService(db *gorm.DB, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// List returns a page of projects under the caller's visibility. The tech
// stack shares the tag filter: tag matches entries of techStack.
func (s *Service) List(ctx context.Context, admin bool, p query.Params) (*ListResult, error) {
	key := listKey(p)
	if !admin && s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if result, ok := cached.(*ListResult); ok {
				return result, nil
			}
		}
	}

	base := s.db.WithContext(ctx).Model(&models.Project{}).
		Scopes(query.Visibility(admin, p), query.Search(p.Q, "title", "description"))
	if p.Tag != "" {
		base = base.Where("tech_stack LIKE ?", `%"`+p.Tag+`"%`)
	}
	if p.Featured != nil {
		base = base.Where("featured = ?", *p.Featured)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count projects", err)
	}

	items := make([]models.Project, 0, p.Limit)
	if err := base.Scopes(query.Order(), query.Paginate(p)).Find(&items).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to list projects", err)
	}

	result := &ListResult{Items: items, Meta: query.NewMeta(p, total)}
	if !admin && s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// GetBySlug returns a single project by slug under the caller's visibility.
func (s *Service) GetBySlug(ctx context.Context, admin bool, slug string) (*models.Project, error) {
	var project models.Project
	db := s.db.WithContext(ctx)
	if !admin {
		db = db.Where("published = ?", true)
	}
	err := db.Where("slug = ?", slug).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Project not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load project", err)
	}
	return &project, nil
}

// GetByID returns a single project by id for the admin surface, soft-deleted
// rows included.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Project not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load project", err)
	}
	return &project, nil
}

// Create inserts a new project. The slug defaults to a slugified title and
// must be unique among all rows, deleted ones included.
func (s *Service) Create(ctx context.Context, actorID string, req CreateProjectRequest) (*models.Project, error) {
	slug := req.Slug
	if slug == "" {
		slug = models.Slugify(req.Title)
	}
	if slug == "" {
		return nil, apperror.NewValidationError("slug cannot be derived from an empty title")
	}
	if err := s.ensureSlugFree(ctx, slug, ""); err != nil {
		return nil, err
	}

	project := models.Project{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		LiveURL:     req.LiveURL,
		RepoURL:     req.RepoURL,
		TechStack:   models.NormalizeTags(req.TechStack),
		Images:      models.StringList(req.Images),
		Published:   req.Published,
		Featured:    req.Featured,
		Priority:    req.Priority,
		AuthorID:    actorID,
		CreatedByID: actorID,
		UpdatedByID: actorID,
	}
	if req.Published {
		now := time.Now().UTC()
		project.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to create project", err)
	}
	s.invalidate()
	return &project, nil
}

// Update applies a partial update to a project. A first transition to
// published stamps PublishedAt.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Project not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load project", err)
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != project.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, project.ID); err != nil {
			return nil, err
		}
		project.Slug = *req.Slug
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.VideoURL != nil {
		project.VideoURL = req.VideoURL
	}
	if req.LiveURL != nil {
		project.LiveURL = req.LiveURL
	}
	if req.RepoURL != nil {
		project.RepoURL = req.RepoURL
	}
	if req.TechStack != nil {
		project.TechStack = models.NormalizeTags(*req.TechStack)
	}
	if req.Images != nil {
		project.Images = models.StringList(*req.Images)
	}
	if req.Published != nil {
		if *req.Published && project.PublishedAt == nil {
			now := time.Now().UTC()
			project.PublishedAt = &now
		}
		project.Published = *req.Published
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}
	project.UpdatedByID = actorID

	if err := s.db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to update project", err)
	}
	s.invalidate()
	return &project, nil
}

// Delete soft-deletes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return apperror.NewDatabaseError("failed to delete project", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Project not found", nil)
	}
	s.invalidate()
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug, excludeID string) error {
	var count int64
	db := s.db.WithContext(ctx).Unscoped().Model(&models.Project{}).Where("slug = ?", slug)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return apperror.NewDatabaseError("failed to check slug", err)
	}
	if count > 0 {
		return apperror.NewConflictError("A project with this slug already exists", nil)
	}
	return nil
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Clear(cachePrefix)
	}
}

func listKey(p query.Params) string {
	featured := ""
	if p.Featured != nil {
		featured = fmt.Sprintf("%t", *p.Featured)
	}
	return fmt.Sprintf("%s:list:q=%s:tag=%s:featured=%s:page=%d:limit=%d",
		cachePrefix, p.Q, p.Tag, featured, p.Page, p.Limit)
}
