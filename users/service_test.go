package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/auth"
	"github.com/user/portfolio-api/config"
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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	return NewService(db, config.AuthConfig{BcryptCost: 4}), db
}

func TestCreateUser(t *testing.T) {
	svc, db := newTestService(t)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role, "role defaults to USER")
	assert.Equal(t, models.ProviderCredential, user.Provider)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "jordan@example.com").First(&stored).Error)
	assert.NotEqual(t, "password123", stored.Password)
	assert.True(t, auth.CheckPassword("password123", stored.Password))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	req := CreateUserRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestListAndSearch(t *testing.T) {
	svc, _ := newTestService(t)

	for _, u := range []CreateUserRequest{
		{Name: "Jordan Lee", Email: "jordan@example.com", Password: "password123"},
		{Name: "Sam Park", Email: "sam@example.com", Password: "password123"},
	} {
		_, err := svc.Create(context.Background(), u)
		require.NoError(t, err)
	}

	result, err := svc.List(context.Background(), query.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Meta.Total)

	result, err = svc.List(context.Background(), query.Params{Page: 1, Limit: 20, Q: "jordan"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "jordan@example.com", result.Items[0].Email)
}

func TestUpdateUser(t *testing.T) {
	svc, db := newTestService(t)

	created, err := svc.Create(context.Background(), CreateUserRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	role := models.RoleAdmin
	password := "new-password-1"
	updated, err := svc.Update(context.Background(), created.ID, UpdateUserRequest{Role: &role, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	var stored models.User
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	assert.True(t, auth.CheckPassword("new-password-1", stored.Password))
	assert.False(t, auth.CheckPassword("password123", stored.Password))
}

func TestUpdateUserEmailConflict(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateUserRequest{Name: "A", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), CreateUserRequest{Name: "B", Email: "b@example.com", Password: "password123"})
	require.NoError(t, err)

	taken := "a@example.com"
	_, err = svc.Update(context.Background(), b.ID, UpdateUserRequest{Email: &taken})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestDeleteUserIsPermanent(t *testing.T) {
	svc, db := newTestService(t)

	created, err := svc.Create(context.Background(), CreateUserRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "admin-1", created.ID))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	err = svc.Delete(context.Background(), "admin-1", created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteOwnAccountRefused(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateUserRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, created.ID)
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}
