package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/config"
	"github.com/user/portfolio-api/models"
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

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:         "access-secret",
		RefreshSecret:        "refresh-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		BcryptCost:           4,
	}
}

func newTestService(t *testing.T) *Service {
	return NewService(setupTestDB(t), testAuthConfig())
}

func TestSignup(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.ProviderCredential, user.Provider)

	stored, err := svc.FindByEmail(context.Background(), "jordan@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password)
	assert.True(t, CheckPassword("password123", stored.Password))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	req := SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"}
	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestSignupEmailIsCaseSensitive(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "A", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	// A differently-cased email is a distinct account.
	_, err = svc.Signup(context.Background(), SignupRequest{Name: "B", Email: "Jordan@example.com", Password: "password123"})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, "jordan@example.com", result.User.Email)

	claims, err := VerifyToken(result.Tokens.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "jordan@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestAuthWithProviderCreatesAndConverges(t *testing.T) {
	svc := newTestService(t)
	picture := "https://example.com/me.png"

	first, err := svc.AuthWithProvider(context.Background(), ProviderRequest{
		Name: "Jordan", Email: "jordan@example.com", Provider: models.ProviderGoogle, ProfilePicture: &picture,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, first.User.Provider)

	// Same email through another provider updates the row instead of
	// creating a second one.
	second, err := svc.AuthWithProvider(context.Background(), ProviderRequest{
		Name: "Jordan", Email: "jordan@example.com", Provider: models.ProviderGitHub,
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, models.ProviderGitHub, second.User.Provider)

	// Provider accounts have no usable password.
	_, err = svc.Login(context.Background(), LoginRequest{Email: "jordan@example.com", Password: "anything"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestRefreshRotatesBothTokens(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)
	assert.NotEmpty(t, refreshed.Tokens.RefreshToken)

	_, err = VerifyToken(refreshed.Tokens.RefreshToken, "refresh-secret")
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	// The access token is signed with the other secret and must not refresh.
	_, err = svc.Refresh(context.Background(), login.Tokens.AccessToken)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestRefreshUserGone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testAuthConfig())

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), LoginRequest{Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, db.Where("email = ?", "jordan@example.com").Delete(&models.User{}).Error)

	_, err = svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMe(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, me.Email)

	_, err = svc.Me(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
