package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"law-pilot-server/internal/handler"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/state"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error) {
	args := m.Called(ctx, email, password, userAgent, ipAddress)
	return toTokens(args.Get(0)), toUser(args.Get(1)), toProfile(args.Get(2)), args.Error(3)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, fullName, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error) {
	args := m.Called(ctx, email, password, fullName, ipAddress)
	return toTokens(args.Get(0)), toUser(args.Get(1)), toProfile(args.Get(2)), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, userAgent, ipAddress, accessToken, refreshToken string) (*model.TokensPair, error) {
	args := m.Called(ctx, userAgent, ipAddress, accessToken, refreshToken)
	return toTokens(args.Get(0)), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userUUID string, refreshTokenUUID string) error {
	return m.Called(ctx, userUUID, refreshTokenUUID).Error(0)
}

func (m *MockAuthService) HandleOAuthCallback(ctx context.Context, code string, userAgent string, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error) {
	args := m.Called(ctx, code, userAgent, ipAddress)
	return toTokens(args.Get(0)), toUser(args.Get(1)), toProfile(args.Get(2)), args.Error(3)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userUUID string) (*model.User, *model.Profile, error) {
	args := m.Called(ctx, userUUID)
	return toUser(args.Get(0)), toProfile(args.Get(1)), args.Error(2)
}

func toTokens(v interface{}) *model.TokensPair {
	if t, ok := v.(*model.TokensPair); ok {
		return t
	}
	return nil
}

func toUser(v interface{}) *model.User {
	if u, ok := v.(*model.User); ok {
		return u
	}
	return nil
}

func toProfile(v interface{}) *model.Profile {
	if p, ok := v.(*model.Profile); ok {
		return p
	}
	return nil
}

func newTestAuthHandler() (*handler.AuthenticationHandler, *MockAuthService, *state.Manager) {
	mockAuth := new(MockAuthService)
	mockAssociation := new(MockAssociationService)
	manager := state.NewManager(time.Hour)
	h := handler.NewAuthenticationHandler(mockAuth, mockAssociation, manager, "/dashboard")
	return h, mockAuth, manager
}

func authorizedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	claims := &security.Claims{UserUUID: "U1", RefreshTokenUUID: "r1"}
	return req.WithContext(context.WithValue(req.Context(), security.UserContextKey, claims))
}

// ===== Тесты GetCurrentUser =====

func TestGetCurrentUser_ColdStateLoadsProfile(t *testing.T) {
	h, mockAuth, _ := newTestAuthHandler()

	// состояние сессии пустое, пользователь и профиль поднимаются из БД
	mockAuth.On("CurrentUser", mock.Anything, "U1").Return(
		&model.User{UUID: "U1", Email: "client@example.com"},
		&model.Profile{UUID: "U1", FullName: "Maria Torres", Role: model.RoleClient},
		nil)

	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, authorizedRequest("GET", "/api/auth/me"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Response struct {
			UserUUID string `json:"user_uuid"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
			Role     string `json:"role"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "U1", resp.Response.UserUUID)
	assert.Equal(t, "client@example.com", resp.Response.Email)
	assert.Equal(t, "Maria Torres", resp.Response.FullName)
	assert.Equal(t, model.RoleClient, resp.Response.Role)
	mockAuth.AssertExpectations(t)
}

func TestGetCurrentUser_WarmStateSkipsDB(t *testing.T) {
	h, mockAuth, manager := newTestAuthHandler()

	// прогреваем состояние сессии и переиспользуем её cookie
	seed := httptest.NewRequest("GET", "/", nil)
	seedRec := httptest.NewRecorder()
	store := manager.StoreFor(seedRec, seed)
	store.SetUser(&model.User{UUID: "U1", Email: "client@example.com"})
	store.SetProfile(&model.Profile{UUID: "U1", FullName: "Maria Torres", Role: model.RoleClient})
	cookie := seedRec.Result().Cookies()[0]

	req := authorizedRequest("GET", "/api/auth/me")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maria Torres")
	mockAuth.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
}

func TestGetCurrentUser_UnknownUser(t *testing.T) {
	h, mockAuth, _ := newTestAuthHandler()

	mockAuth.On("CurrentUser", mock.Anything, "U1").
		Return(nil, nil, errors.New("пользователь не найден"))

	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, authorizedRequest("GET", "/api/auth/me"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCurrentUser_NoClaims(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, httptest.NewRequest("GET", "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
