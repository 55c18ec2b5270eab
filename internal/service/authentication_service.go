package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/ports"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/util"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthenticationService struct {
	jwtRepoInterface ports.JWTRepositoryInterface
	*config.AppConfig
	jwtServiceInterface ports.JWTServiceInterface
	userRepository      ports.UserRepository
	profileRepository   ports.ProfileRepository
	oauthConfig         *oauth2.Config
}

func NewAuthenticationService(
	repo ports.JWTRepositoryInterface,
	cfg *config.AppConfig,
	service ports.JWTServiceInterface,
	userRepository ports.UserRepository,
	profileRepository ports.ProfileRepository,
) *AuthenticationService {
	return &AuthenticationService{
		jwtRepoInterface:    repo,
		AppConfig:           cfg,
		jwtServiceInterface: service,
		userRepository:      userRepository,
		profileRepository:   profileRepository,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *AuthenticationService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, nil, nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db, email)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, nil, fmt.Errorf("неверный пароль")
	}

	tokens, err := s.issueTokens(ctx, user.UUID, userAgent, ipAddress)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := s.profileRepository.UpdateState(ctx, db, user.UUID, "logged in"); err != nil {
		log.Printf("[AuthService] не удалось обновить состояние профиля: %v", err)
	}

	// профиль заполняет состояние клиентской сессии; его отсутствие вход не ломает
	profile, err := s.profileRepository.FindByUUID(ctx, db, user.UUID)
	if err != nil {
		log.Printf("[AuthService] профиль пользователя %s не найден: %v", user.UUID, err)
		profile = nil
	}

	return tokens, user, profile, nil
}

func (s *AuthenticationService) Register(ctx context.Context, email, password, fullName, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error) {
	if _, ok := ctx.Value("db").(*config.Database); !ok {
		return nil, nil, nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	if !strings.Contains(email, "@") {
		return nil, nil, nil, fmt.Errorf("[AuthService] некорректный email")
	}
	if err := validatePassword(password); err != nil {
		return nil, nil, nil, fmt.Errorf("[AuthService] %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("[AuthService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	// пользователь и профиль создаются одним коммитом
	tx, commit, rollback, err := s.userRepository.BeginTX(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("[AuthService] не удалось открыть транзакцию: %w", err)
	}

	created, err := s.userRepository.CreateUser(ctx, tx, user)
	if err != nil {
		rollback()
		return nil, nil, nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	if fullName == "" {
		fullName = strings.Split(email, "@")[0]
	}
	profile := &model.Profile{
		UUID:     created.UUID,
		FullName: fullName,
		Role:     model.RoleClient,
		State:    "logged in",
	}
	if err := s.profileRepository.Upsert(ctx, tx, profile); err != nil {
		rollback()
		return nil, nil, nil, fmt.Errorf("[AuthService] не удалось сохранить профиль: %w", err)
	}

	if err := commit(); err != nil {
		return nil, nil, nil, fmt.Errorf("[AuthService] не удалось закоммитить транзакцию: %w", err)
	}

	tokens, err := s.issueTokens(ctx, created.UUID, "", ipAddress)
	if err != nil {
		return nil, nil, nil, err
	}

	return tokens, created, profile, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}
	return nil
}

// HandleOAuthCallback обрабатывает redirect от Google:
// обменивает code на токен, читает профиль Google, заводит или обновляет
// пользователя с профилем (state = 'logged in') и выдаёт свою пару токенов.
func (s *AuthenticationService) HandleOAuthCallback(ctx context.Context, code string, userAgent string, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, nil, nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	oauthToken, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, nil, nil, util.LogError("[AuthService] не удалось обменять код авторизации", err)
	}

	userInfo, err := fetchGoogleUserInfo(ctx, s.oauthConfig, oauthToken)
	if err != nil {
		return nil, nil, nil, util.LogError("[AuthService] не удалось получить профиль Google", err)
	}

	user, err := s.userRepository.FindByEmail(ctx, db, userInfo.Email)
	if err != nil {
		// первый вход через Google, пароля нет
		user, err = s.userRepository.CreateUser(ctx, db, &model.User{
			UUID:  uuid.New().String(),
			Email: userInfo.Email,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
		}
	}

	fullName := userInfo.Name
	if fullName == "" {
		fullName = strings.Split(userInfo.Email, "@")[0]
	}
	profile := &model.Profile{
		UUID:      user.UUID,
		FullName:  fullName,
		AvatarURL: userInfo.Picture,
		Role:      model.RoleClient,
		State:     "logged in",
	}
	if err := s.profileRepository.Upsert(ctx, db, profile); err != nil {
		return nil, nil, nil, fmt.Errorf("[AuthService] не удалось сохранить профиль: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user.UUID, userAgent, ipAddress)
	if err != nil {
		return nil, nil, nil, err
	}

	return tokens, user, profile, nil
}

// CurrentUser загружает пользователя и его профиль по UUID из claims.
// Нужен, когда состояние клиентской сессии пустое (например, после
// перезапуска сервера), а access-токен ещё жив.
func (s *AuthenticationService) CurrentUser(ctx context.Context, userUUID string) (*model.User, *model.Profile, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByUUID(ctx, db, userUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	profile, err := s.profileRepository.FindByUUID(ctx, db, userUUID)
	if err != nil {
		log.Printf("[AuthService] профиль пользователя %s не найден: %v", userUUID, err)
		profile = nil
	}

	return user, profile, nil
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo: статус %d, ответ: %s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *AuthenticationService) issueTokens(ctx context.Context, userUUID, userAgent, ipAddress string) (*model.TokensPair, error) {
	tokens, refreshToken, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(userUUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress

	if err := s.jwtRepoInterface.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("ошибка сохранения refresh токена: %w", err)
	}

	return tokens, nil
}

// RefreshToken обновляет пару токенов.
// Операцию refresh можно выполнить только той парой токенов, которая была
// выдана вместе; смена User-Agent запрещает обновление и деавторизует пользователя.
func (s *AuthenticationService) RefreshToken(ctx context.Context, userAgent string, ipAddress string, accessToken string, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtServiceInterface.ValidateJWT(accessToken, []byte(s.AppConfig.JWT.SecretKey))
	if err != nil {
		return nil, util.LogError("не удалось провалидировать токен", err)
	}

	refreshTokenUUID := claims.RefreshTokenUUID
	userUUID := claims.UserUUID

	storedRefreshToken, err := s.jwtRepoInterface.FindByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return nil, util.LogError("не удалось найти рефреш токен", err)
	}
	if storedRefreshToken.Used {
		log.Printf("refresh token %s уже был использован", refreshTokenUUID)
		return nil, fmt.Errorf("невалидный токен")
	}

	if time.Now().UTC().After(storedRefreshToken.ExpireAt) {
		log.Printf("refresh token %s просрочен", refreshTokenUUID)
		return nil, fmt.Errorf("невалидный токен")
	}

	if storedRefreshToken.UserAgent != userAgent {
		if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
			log.Printf("не удалось пометить токен использованным: %v", err)
		}
		log.Printf("refresh token %s: попытка обновления с другого User-Agent", refreshTokenUUID)
		return nil, fmt.Errorf("невалидный токен")
	}

	err = bcrypt.CompareHashAndPassword([]byte(storedRefreshToken.TokenHash), []byte(refreshToken))
	if err != nil {
		return nil, util.LogError("невалидный токен", err)
	}

	if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return nil, util.LogError("не удалось использовать токен", err)
	}

	tokensPair, err := s.issueTokens(ctx, userUUID, userAgent, ipAddress)
	if err != nil {
		return nil, util.LogError("не удалось сохранить рефреш токен", err)
	}

	return tokensPair, nil
}

// Logout "деактивирует" пользователя: помечает refresh-токен использованным
// и переводит профиль в состояние 'logged out'
func (s *AuthenticationService) Logout(ctx context.Context, userUUID string, refreshTokenUUID string) error {
	err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return fmt.Errorf("не удалось использовать токен: %w", err)
	}

	if db, ok := ctx.Value("db").(*config.Database); ok {
		if err := s.profileRepository.UpdateState(ctx, db, userUUID, "logged out"); err != nil {
			log.Printf("[AuthService] не удалось обновить состояние профиля: %v", err)
		}
	}

	return nil
}
