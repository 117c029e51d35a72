// Package blogs implements the blog post catalog: public listing and
// slug-based reads with view counting, and the admin CRUD surface.
package blogs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/cache"
	"github.com/user/portfolio-api/models"
	"github.com/user/portfolio-api/query"
)

const cachePrefix = "blogs"

// ListResult is a page of posts plus its pagination block.
type ListResult struct {
	Items []models.Blog `json:"items"`
	Meta  query.Meta    `json:"meta"`
}

// Service owns blog reads and writes.
type Service struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewService creates the blog service. cache may be nil to disable list
// caching.
func NewService(db *gorm.DB, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// List returns a page of posts under the caller's visibility. Public pages
// are served from the TTL cache when possible; admin views always hit the
// database so draft and deleted rows are never cached.
func (s *Service) List(ctx context.Context, admin bool, p query.Params) (*ListResult, error) {
	key := listKey(p)
	if !admin && s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if result, ok := cached.(*ListResult); ok {
				return result, nil
			}
		}
	}

	base := s.db.WithContext(ctx).Model(&models.Blog{}).
		Scopes(query.Visibility(admin, p), query.Filters(p), query.Search(p.Q, "title", "content"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count blogs", err)
	}

	items := make([]models.Blog, 0, p.Limit)
	if err := base.Scopes(query.Order(), query.Paginate(p)).Find(&items).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to list blogs", err)
	}

	result := &ListResult{Items: items, Meta: query.NewMeta(p, total)}
	if !admin && s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// GetBySlug returns a single post by slug under the caller's visibility and
// records the view: the post's running total and the per-day counter are
// incremented together in one transaction.
func (s *Service) GetBySlug(ctx context.Context, admin bool, slug string) (*models.Blog, error) {
	var blog models.Blog
	db := s.db.WithContext(ctx)
	if !admin {
		db = db.Where("published = ?", true)
	}
	err := db.Where("slug = ?", slug).First(&blog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Blog not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load blog", err)
	}

	if err := s.recordView(ctx, blog.ID); err != nil {
		return nil, err
	}
	blog.Views++
	return &blog, nil
}

// GetByID returns a single post by id for the admin surface. Soft-deleted
// rows are reachable so a deleted post can still be inspected.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	err := s.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&blog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Blog not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load blog", err)
	}
	return &blog, nil
}

// Create inserts a new post. The slug defaults to a slugified title and must
// be unique among all rows, deleted ones included.
func (s *Service) Create(ctx context.Context, actorID string, req CreateBlogRequest) (*models.Blog, error) {
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

	blog := models.Blog{
		Title:       req.Title,
		Slug:        slug,
		Tags:        models.NormalizeTags(req.Tags),
		Thumbnail:   req.Thumbnail,
		Content:     req.Content,
		Published:   req.Published,
		Featured:    req.Featured,
		Priority:    req.Priority,
		AuthorID:    actorID,
		CreatedByID: actorID,
		UpdatedByID: actorID,
	}
	if req.Published {
		now := time.Now().UTC()
		blog.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(&blog).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to create blog", err)
	}
	s.invalidate()
	return &blog, nil
}

// Update applies a partial update to a post. A first transition to published
// stamps PublishedAt; unpublishing keeps the original stamp.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateBlogRequest) (*models.Blog, error) {
	var blog models.Blog
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError("Blog not found", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load blog", err)
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != blog.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, blog.ID); err != nil {
			return nil, err
		}
		blog.Slug = *req.Slug
	}
	if req.Tags != nil {
		blog.Tags = models.NormalizeTags(*req.Tags)
	}
	if req.Thumbnail != nil {
		blog.Thumbnail = *req.Thumbnail
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Published != nil {
		if *req.Published && blog.PublishedAt == nil {
			now := time.Now().UTC()
			blog.PublishedAt = &now
		}
		blog.Published = *req.Published
	}
	if req.Featured != nil {
		blog.Featured = *req.Featured
	}
	if req.Priority != nil {
		blog.Priority = *req.Priority
	}
	blog.UpdatedByID = actorID

	if err := s.db.WithContext(ctx).Save(&blog).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to update blog", err)
	}
	s.invalidate()
	return &blog, nil
}

// Delete soft-deletes a post. The row keeps its slug, so the slug stays
// reserved until a hard purge.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if result.Error != nil {
		return apperror.NewDatabaseError("failed to delete blog", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Blog not found", nil)
	}
	s.invalidate()
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug, excludeID string) error {
	var count int64
	db := s.db.WithContext(ctx).Unscoped().Model(&models.Blog{}).Where("slug = ?", slug)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return apperror.NewDatabaseError("failed to check slug", err)
	}
	if count > 0 {
		return apperror.NewConflictError("A blog with this slug already exists", nil)
	}
	return nil
}

func (s *Service) recordView(ctx context.Context, blogID string) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Blog{}).Where("id = ?", blogID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blog_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).Create(&models.BlogView{BlogID: blogID, Date: day, Count: 1}).Error
	})
	if err != nil {
		return apperror.NewDatabaseError("failed to record blog view", err)
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
