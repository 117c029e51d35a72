// Package stats aggregates dashboard numbers for the admin: entity counts,
// blog view totals and per-day series, and account breakdowns. Results are
// short-lived cached; a dashboard poll never recomputes inside the TTL.
package stats

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/cache"
	"github.com/user/portfolio-api/models"
)

const cachePrefix = "stats"

// Overview is the headline dashboard block.
type Overview struct {
	Blogs      ContentCounts `json:"blogs"`
	Projects   ContentCounts `json:"projects"`
	Resumes    ContentCounts `json:"resumes"`
	Users      int64         `json:"users"`
	TotalViews int64         `json:"totalViews"`
}

// ContentCounts breaks one catalog down by lifecycle state.
type ContentCounts struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
	Deleted   int64 `json:"deleted"`
}

// TopBlog is one entry of the most-viewed list.
type TopBlog struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Views int64  `json:"views"`
}

// DailyViews is one day of the blog view series.
type DailyViews struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// BlogStats is the blog dashboard block.
type BlogStats struct {
	Counts     ContentCounts `json:"counts"`
	TotalViews int64         `json:"totalViews"`
	TopBlogs   []TopBlog     `json:"topBlogs"`
	DailyViews []DailyViews  `json:"dailyViews"`
}

// ProjectStats is the project dashboard block.
type ProjectStats struct {
	Counts   ContentCounts `json:"counts"`
	Featured int64         `json:"featured"`
}

// ResumeStats is the resume dashboard block.
type ResumeStats struct {
	Counts ContentCounts `json:"counts"`
}

// UserStats is the account dashboard block.
type UserStats struct {
	Total      int64            `json:"total"`
	Admins     int64            `json:"admins"`
	ByProvider map[string]int64 `json:"byProvider"`
}

// Service computes the dashboard aggregates.
type Service struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewService creates the stats service. cache may be nil to disable caching.
func NewService(db *gorm.DB, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// Overview returns the headline counts across all catalogs.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	if cached, ok := s.get(cachePrefix + ":overview"); ok {
		if overview, ok := cached.(*Overview); ok {
			return overview, nil
		}
	}

	overview := &Overview{}
	var err error
	if overview.Blogs, err = s.contentCounts(ctx, &models.Blog{}); err != nil {
		return nil, err
	}
	if overview.Projects, err = s.contentCounts(ctx, &models.Project{}); err != nil {
		return nil, err
	}
	if overview.Resumes, err = s.contentCounts(ctx, &models.Resume{}); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&overview.Users).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count users", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Blog{}).Unscoped().
		Select("COALESCE(SUM(views), 0)").Scan(&overview.TotalViews).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to sum blog views", err)
	}

	s.set(cachePrefix+":overview", overview)
	return overview, nil
}

// Blogs returns the blog block: counts, view totals, the five most-viewed
// posts and the per-day view series for the trailing window.
func (s *Service) Blogs(ctx context.Context, days int) (*BlogStats, error) {
	if days != 30 {
		days = 7
	}
	key := fmt.Sprintf("%s:blogs:%d", cachePrefix, days)
	if cached, ok := s.get(key); ok {
		if stats, ok := cached.(*BlogStats); ok {
			return stats, nil
		}
	}

	stats := &BlogStats{}
	var err error
	if stats.Counts, err = s.contentCounts(ctx, &models.Blog{}); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Blog{}).Unscoped().
		Select("COALESCE(SUM(views), 0)").Scan(&stats.TotalViews).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to sum blog views", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Blog{}).
		Select("id", "title", "slug", "views").
		Where("published = ?", true).
		Order("views DESC").Limit(5).
		Scan(&stats.TopBlogs).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to load top blogs", err)
	}

	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
	if err := s.db.WithContext(ctx).Model(&models.BlogView{}).
		Select("date", "COALESCE(SUM(count), 0) AS count").
		Where("date >= ?", since).
		Group("date").Order("date ASC").
		Scan(&stats.DailyViews).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to load blog view series", err)
	}

	s.set(key, stats)
	return stats, nil
}

// Projects returns the project block.
func (s *Service) Projects(ctx context.Context) (*ProjectStats, error) {
	key := cachePrefix + ":projects"
	if cached, ok := s.get(key); ok {
		if stats, ok := cached.(*ProjectStats); ok {
			return stats, nil
		}
	}

	stats := &ProjectStats{}
	var err error
	if stats.Counts, err = s.contentCounts(ctx, &models.Project{}); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("featured = ?", true).Count(&stats.Featured).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count featured projects", err)
	}

	s.set(key, stats)
	return stats, nil
}

// Resumes returns the resume block.
func (s *Service) Resumes(ctx context.Context) (*ResumeStats, error) {
	key := cachePrefix + ":resumes"
	if cached, ok := s.get(key); ok {
		if stats, ok := cached.(*ResumeStats); ok {
			return stats, nil
		}
	}

	stats := &ResumeStats{}
	var err error
	if stats.Counts, err = s.contentCounts(ctx, &models.Resume{}); err != nil {
		return nil, err
	}

	s.set(key, stats)
	return stats, nil
}

// Users returns the account block: totals, admin count and the provider
// breakdown.
func (s *Service) Users(ctx context.Context) (*UserStats, error) {
	key := cachePrefix + ":users"
	if cached, ok := s.get(key); ok {
		if stats, ok := cached.(*UserStats); ok {
			return stats, nil
		}
	}

	stats := &UserStats{ByProvider: make(map[string]int64)}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.Total).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count users", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).Count(&stats.Admins).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count admins", err)
	}

	var rows []struct {
		Provider string
		Count    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("provider", "COUNT(*) AS count").
		Group("provider").
		Scan(&rows).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to count users by provider", err)
	}
	for _, row := range rows {
		stats.ByProvider[row.Provider] = row.Count
	}

	s.set(key, stats)
	return stats, nil
}

func (s *Service) contentCounts(ctx context.Context, model interface{}) (ContentCounts, error) {
	var counts ContentCounts
	db := s.db.WithContext(ctx).Model(model)

	if err := db.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return counts, apperror.NewDatabaseError("failed to count rows", err)
	}
	if err := db.Session(&gorm.Session{}).Where("published = ?", true).Count(&counts.Published).Error; err != nil {
		return counts, apperror.NewDatabaseError("failed to count published rows", err)
	}
	counts.Drafts = counts.Total - counts.Published
	if err := db.Session(&gorm.Session{}).Unscoped().
		Where("deleted_at IS NOT NULL").Count(&counts.Deleted).Error; err != nil {
		return counts, apperror.NewDatabaseError("failed to count deleted rows", err)
	}
	return counts, nil
}

func (s *Service) get(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Service) set(key string, value interface{}) {
	if s.cache != nil {
		s.cache.Set(key, value)
	}
}
