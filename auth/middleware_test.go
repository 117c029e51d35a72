package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/portfolio-api/models"
)

func authedRequest(t *testing.T, svc *Service, email string) *http.Request {
	t.Helper()
	user, err := svc.FindByEmail(context.Background(), email)
	require.NoError(t, err)

	token, err := IssueToken(user.ID, user.Email, user.Role, "access-secret", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	return req
}

func okHandler(captured **AuthUser) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			*captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthorizeNoCookie(t *testing.T) {
	svc := newTestService(t)
	cfg := testAuthConfig()

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Authorize(svc, &cfg, models.RoleUser)(okHandler(&captured)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthorizeInvalidToken(t *testing.T) {
	svc := newTestService(t)
	cfg := testAuthConfig()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "garbage"})

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Authorize(svc, &cfg, models.RoleUser)(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthorizeDeletedUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testAuthConfig())
	cfg := testAuthConfig()

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)
	req := authedRequest(t, svc, "jordan@example.com")

	require.NoError(t, db.Where("email = ?", "jordan@example.com").Delete(&models.User{}).Error)

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Authorize(svc, &cfg, models.RoleUser)(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthorizeInsufficientRole(t *testing.T) {
	svc := newTestService(t)
	cfg := testAuthConfig()

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)
	req := authedRequest(t, svc, "jordan@example.com")

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Authorize(svc, &cfg, models.RoleAdmin)(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthorizeUsesCurrentRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testAuthConfig())
	cfg := testAuthConfig()

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)
	// Token minted while the account was a plain USER.
	req := authedRequest(t, svc, "jordan@example.com")

	// Promotion takes effect on the very next request, stale token or not.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "jordan@example.com").
		Update("role", models.RoleAdmin).Error)

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Authorize(svc, &cfg, models.RoleAdmin)(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, models.RoleAdmin, captured.Role)
}

func TestOptionalAnonymous(t *testing.T) {
	svc := newTestService(t)
	cfg := testAuthConfig()

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Optional(svc, &cfg)(okHandler(&captured)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, captured)
}

func TestOptionalAttachesIdentity(t *testing.T) {
	svc := newTestService(t)
	cfg := testAuthConfig()

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)
	req := authedRequest(t, svc, "jordan@example.com")

	rec := httptest.NewRecorder()
	var captured *AuthUser
	Optional(svc, &cfg)(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "jordan@example.com", captured.Email)
}
