package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/models"
	"github.com/user/portfolio-api/query"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func params() query.Params {
	return query.Params{Page: 1, Limit: 20}
}

func TestCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil)

	repo := "https://github.com/me/shop"
	project, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{
		Title:       "Shop Backend",
		Description: "An e-commerce backend",
		RepoURL:     &repo,
		TechStack:   []string{" Go ", "Postgres", "go"},
		Images:      []string{"https://example.com/shot.png"},
		Published:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "shop-backend", project.Slug)
	assert.Equal(t, models.StringList{"go", "postgres"}, project.TechStack)
	assert.NotNil(t, project.PublishedAt)

	got, err := svc.GetBySlug(context.Background(), false, "shop-backend")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{Title: "Live", Description: "d", Published: true})
	require.NoError(t, err)
	draft, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{Title: "Draft", Description: "d"})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), false, params())
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	_, err = svc.GetBySlug(context.Background(), false, draft.Slug)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	got, err := svc.GetBySlug(context.Background(), true, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestTechStackFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{
		Title: "Go service", Description: "d", TechStack: []string{"Go", "Postgres"}, Published: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "admin-1", CreateProjectRequest{
		Title: "Frontend", Description: "d", TechStack: []string{"React"}, Published: true,
	})
	require.NoError(t, err)

	p := params()
	p.Tag = "postgres"
	result, err := svc.List(context.Background(), false, p)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "go-service", result.Items[0].Slug)
}

func TestSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{Title: "Shop", Description: "d"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "admin-1", CreateProjectRequest{Title: "Shop", Description: "d"})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateLinks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil)

	project, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{Title: "Shop", Description: "d"})
	require.NoError(t, err)
	require.Nil(t, project.LiveURL)

	live := "https://shop.example.com"
	updated, err := svc.Update(context.Background(), "admin-2", project.ID, UpdateProjectRequest{LiveURL: &live})
	require.NoError(t, err)
	require.NotNil(t, updated.LiveURL)
	assert.Equal(t, live, *updated.LiveURL)
	assert.Equal(t, "admin-2", updated.UpdatedByID)
	assert.Equal(t, "Shop", updated.Title, "untouched fields survive")
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil)

	project, err := svc.Create(context.Background(), "admin-1", CreateProjectRequest{Title: "Shop", Description: "d", Published: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), project.ID))

	_, err = svc.GetBySlug(context.Background(), false, project.Slug)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	err = svc.Delete(context.Background(), project.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
