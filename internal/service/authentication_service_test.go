package service_test

import (
	"context"
	"errors"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/service"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== Моки auth-слоя =====

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	exec, _ := args.Get(0).(sqlx.ExtContext)
	return exec, func() error { return nil }, func() error { return nil }, args.Error(1)
}

type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, profile *model.Profile) error {
	return m.Called(ctx, exec, profile).Error(0)
}

func (m *MockProfileRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Profile, error) {
	args := m.Called(ctx, exec, uuid)
	if p, ok := args.Get(0).(*model.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) UpdateState(ctx context.Context, exec sqlx.ExtContext, uuid string, state string) error {
	return m.Called(ctx, exec, uuid, state).Error(0)
}

type MockJWTService struct{ mock.Mock }

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID string) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(userUUID)

	var tokens *model.TokensPair
	if t := args.Get(0); t != nil {
		tokens = t.(*model.TokensPair)
	}

	var refresh *model.RefreshToken
	if r := args.Get(1); r != nil {
		refresh = r.(*model.RefreshToken)
	}

	return tokens, refresh, args.Error(2)
}

func (m *MockJWTService) ValidateJWT(tokenString string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenString, secret)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockJWTRepo struct{ mock.Mock }

func (m *MockJWTRepo) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	args := m.Called(ctx, uuid)
	if token, ok := args.Get(0).(*model.RefreshToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTRepo) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

func (m *MockJWTRepo) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func newTestAuthService() (*service.AuthenticationService, *MockUserRepository, *MockProfileRepository, *MockJWTService, *MockJWTRepo) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockJWTService := new(MockJWTService)
	mockJWTRepo := new(MockJWTRepo)

	svc := service.NewAuthenticationService(
		mockJWTRepo,
		&config.AppConfig{
			JWT: config.JWTConfig{SecretKey: "secret"},
		},
		mockJWTService,
		mockUserRepo,
		mockProfileRepo,
	)

	return svc, mockUserRepo, mockProfileRepo, mockJWTService, mockJWTRepo
}

// ===== Тесты Login =====

func TestLogin_NoDBInContext(t *testing.T) {
	svc, _, _, _, _ := newTestAuthService()

	_, _, _, err := svc.Login(context.Background(), "client@example.com", "pass", "agent", "127.0.0.1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection")
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, mockUserRepo, _, _, _ := newTestAuthService()
	ctx := testContext()

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "client@example.com").
		Return(nil, errors.New("not found"))

	_, _, _, err := svc.Login(ctx, "client@example.com", "pass", "agent", "127.0.0.1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "пользователь не найден")
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mockUserRepo, _, _, _ := newTestAuthService()
	ctx := testContext()

	hash, _ := security.HashPassword("goodpass1")
	user := &model.User{UUID: "U1", PasswordHash: hash}

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "client@example.com").Return(user, nil)

	_, _, _, err := svc.Login(ctx, "client@example.com", "badpass", "agent", "127.0.0.1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "неверный пароль")
}

func TestLogin_Success(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := testContext()

	hash, _ := security.HashPassword("goodpass1")
	user := &model.User{UUID: "U1", Email: "client@example.com", PasswordHash: hash}
	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}
	refresh := &model.RefreshToken{UUID: "r1", UserUUID: "U1", ExpireAt: time.Now().Add(24 * time.Hour)}
	profile := &model.Profile{UUID: "U1", FullName: "Maria Torres", Role: model.RoleClient, State: "logged in"}

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "client@example.com").Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "U1").Return(tokens, refresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, refresh).Return(nil)
	mockProfileRepo.On("UpdateState", ctx, mock.Anything, "U1", "logged in").Return(nil)
	mockProfileRepo.On("FindByUUID", ctx, mock.Anything, "U1").Return(profile, nil)

	resultTokens, resultUser, resultProfile, err := svc.Login(ctx, "client@example.com", "goodpass1", "agent", "127.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, tokens, resultTokens)
	assert.Equal(t, user, resultUser)
	// профиль читается при входе и заполняет состояние клиента
	assert.Equal(t, profile, resultProfile)
	assert.Equal(t, "agent", refresh.UserAgent)
	assert.Equal(t, "127.0.0.1", refresh.IpAddress)
	mockJWTRepo.AssertExpectations(t)
	mockProfileRepo.AssertExpectations(t)
}

func TestLogin_MissingProfileNotFatal(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := testContext()

	hash, _ := security.HashPassword("goodpass1")
	user := &model.User{UUID: "U1", Email: "client@example.com", PasswordHash: hash}

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "client@example.com").Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "U1").
		Return(&model.TokensPair{}, &model.RefreshToken{}, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, mock.Anything).Return(nil)
	mockProfileRepo.On("UpdateState", ctx, mock.Anything, "U1", "logged in").Return(nil)
	mockProfileRepo.On("FindByUUID", ctx, mock.Anything, "U1").
		Return(nil, errors.New("профиль не найден"))

	_, resultUser, resultProfile, err := svc.Login(ctx, "client@example.com", "goodpass1", "agent", "127.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, user, resultUser)
	assert.Nil(t, resultProfile)
}

// ===== Тесты Register =====

func TestRegister_ShortPassword(t *testing.T) {
	svc, mockUserRepo, _, _, _ := newTestAuthService()

	_, _, _, err := svc.Register(testContext(), "client@example.com", "short", "Иван Иванов", "127.0.0.1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "минимум 8 символов")
	mockUserRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc, _, _, _, _ := newTestAuthService()

	_, _, _, err := svc.Register(testContext(), "not-an-email", "goodpass1", "", "127.0.0.1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "некорректный email")
}

func TestRegister_Success(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := testContext()

	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}
	refresh := &model.RefreshToken{UUID: "r1"}

	mockUserRepo.On("BeginTX", ctx).Return(&config.Database{}, nil)
	mockUserRepo.On("CreateUser", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "client@example.com" && u.PasswordHash != "" && u.UUID != ""
	})).Return(&model.User{UUID: "U1", Email: "client@example.com"}, nil)
	mockProfileRepo.On("Upsert", ctx, mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.UUID == "U1" && p.FullName == "Иван Иванов" && p.Role == model.RoleClient && p.State == "logged in"
	})).Return(nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "U1").Return(tokens, refresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, refresh).Return(nil)

	resultTokens, user, profile, err := svc.Register(ctx, "client@example.com", "goodpass1", "Иван Иванов", "127.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, tokens, resultTokens)
	assert.Equal(t, "U1", user.UUID)
	require.NotNil(t, profile)
	assert.Equal(t, "Иван Иванов", profile.FullName)
	mockProfileRepo.AssertExpectations(t)
}

func TestRegister_FullNameDefaultsToEmailLocalPart(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := testContext()

	mockUserRepo.On("BeginTX", ctx).Return(&config.Database{}, nil)
	mockUserRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
		Return(&model.User{UUID: "U1", Email: "client@example.com"}, nil)
	mockProfileRepo.On("Upsert", ctx, mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.FullName == "client"
	})).Return(nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "U1").
		Return(&model.TokensPair{}, &model.RefreshToken{}, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, mock.Anything).Return(nil)

	_, _, _, err := svc.Register(ctx, "client@example.com", "goodpass1", "", "127.0.0.1")

	require.NoError(t, err)
	mockProfileRepo.AssertExpectations(t)
}

func TestRegister_ProfileErrorAbortsTransaction(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, mockJWTService, _ := newTestAuthService()
	ctx := testContext()

	mockUserRepo.On("BeginTX", ctx).Return(&config.Database{}, nil)
	mockUserRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
		Return(&model.User{UUID: "U1"}, nil)
	mockProfileRepo.On("Upsert", ctx, mock.Anything, mock.Anything).
		Return(errors.New("db error"))

	_, _, _, err := svc.Register(ctx, "client@example.com", "goodpass1", "", "127.0.0.1")

	require.Error(t, err)
	mockJWTService.AssertNotCalled(t, "GenerateAccessRefreshTokens", mock.Anything)
}

// ===== Тесты CurrentUser =====

func TestCurrentUser_Success(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, _, _ := newTestAuthService()
	ctx := testContext()

	user := &model.User{UUID: "U1", Email: "client@example.com"}
	profile := &model.Profile{UUID: "U1", FullName: "Maria Torres", Role: model.RoleClient}

	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "U1").Return(user, nil)
	mockProfileRepo.On("FindByUUID", ctx, mock.Anything, "U1").Return(profile, nil)

	resultUser, resultProfile, err := svc.CurrentUser(ctx, "U1")

	require.NoError(t, err)
	assert.Equal(t, user, resultUser)
	assert.Equal(t, profile, resultProfile)
}

func TestCurrentUser_UserNotFound(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, _, _ := newTestAuthService()
	ctx := testContext()

	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "U404").
		Return(nil, errors.New("not found"))

	_, _, err := svc.CurrentUser(ctx, "U404")

	require.Error(t, err)
	mockProfileRepo.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCurrentUser_MissingProfileNotFatal(t *testing.T) {
	svc, mockUserRepo, mockProfileRepo, _, _ := newTestAuthService()
	ctx := testContext()

	user := &model.User{UUID: "U1", Email: "client@example.com"}
	mockUserRepo.On("FindByUUID", ctx, mock.Anything, "U1").Return(user, nil)
	mockProfileRepo.On("FindByUUID", ctx, mock.Anything, "U1").
		Return(nil, errors.New("профиль не найден"))

	resultUser, resultProfile, err := svc.CurrentUser(ctx, "U1")

	require.NoError(t, err)
	assert.Equal(t, user, resultUser)
	assert.Nil(t, resultProfile)
}

// ===== Тесты RefreshToken =====

func TestRefreshToken_UsedToken(t *testing.T) {
	svc, _, _, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	claims := &security.Claims{UserUUID: "U1", RefreshTokenUUID: "r1"}
	mockJWTService.On("ValidateJWT", "token", mock.Anything).Return(claims, nil)
	mockJWTRepo.On("FindByUUID", ctx, "r1").Return(&model.RefreshToken{Used: true}, nil)

	tokens, err := svc.RefreshToken(ctx, "agent", "127.0.0.1", "token", "refresh")

	assert.Nil(t, tokens)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "невалидный токен")
}

func TestRefreshToken_UserAgentMismatch(t *testing.T) {
	svc, _, _, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	claims := &security.Claims{UserUUID: "U1", RefreshTokenUUID: "r1"}
	rt := &model.RefreshToken{Used: false, ExpireAt: time.Now().Add(time.Hour), UserAgent: "old-agent"}

	mockJWTService.On("ValidateJWT", "token", mock.Anything).Return(claims, nil)
	mockJWTRepo.On("FindByUUID", ctx, "r1").Return(rt, nil)
	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)

	tokens, err := svc.RefreshToken(ctx, "new-agent", "127.0.0.1", "token", "refresh")

	assert.Nil(t, tokens)
	require.Error(t, err)
	// смена User-Agent деавторизует: токен помечен использованным
	mockJWTRepo.AssertExpectations(t)
}

func TestRefreshToken_Success(t *testing.T) {
	svc, _, _, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	claims := &security.Claims{UserUUID: "U1", RefreshTokenUUID: "r1"}
	hash, _ := security.HashPassword("refresh123")
	rt := &model.RefreshToken{
		Used:      false,
		ExpireAt:  time.Now().Add(time.Hour),
		UserAgent: "agent",
		IpAddress: "127.0.0.1",
		TokenHash: hash,
	}
	tokensPair := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}
	newRefresh := &model.RefreshToken{}

	mockJWTService.On("ValidateJWT", "token", mock.Anything).Return(claims, nil)
	mockJWTRepo.On("FindByUUID", ctx, "r1").Return(rt, nil)
	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "U1").Return(tokensPair, newRefresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, newRefresh).Return(nil)

	result, err := svc.RefreshToken(ctx, "agent", "127.0.0.1", "token", "refresh123")

	require.NoError(t, err)
	assert.Equal(t, tokensPair, result)
	assert.Equal(t, "agent", newRefresh.UserAgent)
}

// ===== Тесты Logout =====

func TestLogout_MarksTokenAndProfile(t *testing.T) {
	svc, _, mockProfileRepo, _, mockJWTRepo := newTestAuthService()
	ctx := testContext()

	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)
	mockProfileRepo.On("UpdateState", ctx, mock.Anything, "U1", "logged out").Return(nil)

	err := svc.Logout(ctx, "U1", "r1")

	require.NoError(t, err)
	mockProfileRepo.AssertExpectations(t)
}
