package resumes

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/auth"
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

func adminUser() *auth.AuthUser {
	return &auth.AuthUser{ID: "admin-1", Role: models.RoleAdmin}
}

func regularUser(id string) *auth.AuthUser {
	return &auth.AuthUser{ID: id, Role: models.RoleUser}
}

func TestListVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), "admin-1", CreateResumeRequest{Title: "Public", Published: true, UserID: "owner-1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "admin-1", CreateResumeRequest{Title: "Owner draft", UserID: "owner-1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "admin-1", CreateResumeRequest{Title: "Other draft", UserID: "owner-2"})
	require.NoError(t, err)

	// Anonymous: published only.
	result, err := svc.List(context.Background(), nil, params())
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	// The owner also sees their own draft.
	result, err = svc.List(context.Background(), regularUser("owner-1"), params())
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)

	// Admin with drafts flag sees everything.
	p := params()
	p.IncludeDrafts = true
	result, err = svc.List(context.Background(), adminUser(), p)
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
}

func TestGetVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	draft, err := svc.Create(context.Background(), "admin-1", CreateResumeRequest{Title: "Draft", UserID: "owner-1"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), nil, draft.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Get(context.Background(), regularUser("owner-2"), draft.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	got, err := svc.Get(context.Background(), regularUser("owner-1"), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	got, err = svc.Get(context.Background(), adminUser(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestCreateNormalizesDocuments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	// Sections arrive either as JSON values or as JSON-encoded strings.
	resume, err := svc.Create(context.Background(), "admin-1", CreateResumeRequest{
		Title:       "Mine",
		Experiences: json.RawMessage(`[{"company":"Acme"}]`),
		Education:   json.RawMessage(`"[{\"school\":\"MIT\"}]"`),
		ContactInfo: json.RawMessage(`null`),
		Skills:      []string{" Go ", "SQL", "go"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"company":"Acme"}]`, string(resume.Experiences))
	assert.JSONEq(t, `[{"school":"MIT"}]`, string(resume.Education))
	assert.Empty(t, resume.ContactInfo)
	assert.Equal(t, models.StringList{"go", "sql"}, resume.Skills)
	assert.Equal(t, "admin-1", resume.UserID, "owner defaults to the actor")
}

func TestCreateRejectsMalformedDocument(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), "admin-1", CreateResumeRequest{
		Title:       "Broken",
		Experiences: json.RawMessage(`"{not json"`),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateDocumentsAndPublish(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	resume, err := svc.Create(context.Background(), "admin-1", CreateResumeRequest{Title: "Mine"})
	require.NoError(t, err)
	require.Nil(t, resume.PublishedAt)

	doc := json.RawMessage(`{"email":"me@example.com"}`)
	published := true
	updated, err := svc.Update(context.Background(), "admin-1", resume.ID, UpdateResumeRequest{
		ContactInfo: &doc,
		Published:   &published,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"me@example.com"}`, string(updated.ContactInfo))
	assert.True(t, updated.Published)
	assert.NotNil(t, updated.PublishedAt)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	resume, err := svc.Create(context.Background(), "admin-1", CreateResumeRequest{Title: "Mine", Published: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), resume.ID))

	_, err = svc.Get(context.Background(), adminUser(), resume.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	err = svc.Delete(context.Background(), resume.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
