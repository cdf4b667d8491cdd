package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) SignIn(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthService) Verify(ctx context.Context, email, token string) (domain.Session, error) {
	args := m.Called(ctx, email, token)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockAuthService) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func authRoutes(svc AuthService) http.Handler {
	h := NewAuthHandler(svc)
	r := newRouter(nil)
	r.POST("/auth/otp", h.RequestOTP)
	r.POST("/auth/verify", h.Verify)
	r.POST("/auth/logout", h.Logout)
	return r
}

func TestRequestOTP(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("SignIn", mock.Anything, "ada@example.com").Return(nil).Once()
	r := authRoutes(svc)

	rec := doJSON(r, http.MethodPost, "/auth/otp", map[string]string{"email": "ada@example.com"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(r, http.MethodPost, "/auth/otp", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestVerifyOTP(t *testing.T) {
	svc := new(mockAuthService)
	session := domain.Session{
		AccessToken: "at",
		ExpiresAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Viewer:      domain.Viewer{ID: "u1", Email: "ada@example.com"},
	}
	svc.On("Verify", mock.Anything, "ada@example.com", "123456").Return(session, nil)
	svc.On("Verify", mock.Anything, "ada@example.com", "000000").Return(domain.Session{}, domain.ErrUnauthenticated)
	r := authRoutes(svc)

	rec := doJSON(r, http.MethodPost, "/auth/verify", map[string]string{"email": "ada@example.com", "token": "123456"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[response.Session](t, rec)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "ada", got.User.Handle)

	rec = doJSON(r, http.MethodPost, "/auth/verify", map[string]string{"email": "ada@example.com", "token": "000000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("SignOut", mock.Anything, "tok").Return(nil)

	req := newRequest(http.MethodPost, "/auth/logout")
	req.Header.Set("Authorization", "Bearer tok")
	rec := serve(authRoutes(svc), req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
