package handler

import (
	"encoding/json"
	"law-pilot-server/internal/ports"
	requestresponse "law-pilot-server/internal/model/requestresponse"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/state"
	"law-pilot-server/internal/util"
	"log"
	"net/http"
)

type AuthenticationHandler struct {
	authService        ports.AuthenticationService
	associationService ports.AssociationService
	stateManager       *state.Manager
	dashboardURL       string
}

func NewAuthenticationHandler(
	authService ports.AuthenticationService,
	associationService ports.AssociationService,
	stateManager *state.Manager,
	dashboardURL string,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authService:        authService,
		associationService: associationService,
		stateManager:       stateManager,
		dashboardURL:       dashboardURL,
	}
}

// Login godoc
// @Summary Аутентификация по email и паролю
// @Description После успешного входа гостевые загрузки текущей сессии переносятся в новое дело пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body requestresponse.LoginRequest true "Данные для входа"
// @Success 200 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	tokens, user, profile, err := h.authService.Login(r.Context(), req.Email, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "неверный email или пароль", http.StatusUnauthorized)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	store.SetUser(user)
	store.SetProfile(profile)

	redirect := h.finishAuthentication(w, r, store, user.UUID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Access   string `json:"accessToken"`
		Refresh  string `json:"refreshToken"`
		Redirect string `json:"redirect"`
	}{
		Access:   tokens.AccessToken,
		Refresh:  tokens.RefreshToken,
		Redirect: redirect,
	})
}

// Register godoc
// @Summary Регистрация нового клиента
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body requestresponse.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	tokens, user, profile, err := h.authService.Register(r.Context(), req.Email, req.Password, req.FullName, r.RemoteAddr)
	if err != nil {
		log.Println(err)
		util.HandleError(w, err.Error(), http.StatusBadRequest)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	store.SetUser(user)
	store.SetProfile(profile)

	redirect := h.finishAuthentication(w, r, store, user.UUID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Access   string `json:"accessToken"`
		Refresh  string `json:"refreshToken"`
		Redirect string `json:"redirect"`
	}{
		Access:   tokens.AccessToken,
		Refresh:  tokens.RefreshToken,
		Redirect: redirect,
	})
}

// OAuthCallback godoc
// @Summary Callback входа через Google
// @Description Обменивает код авторизации, обновляет профиль и переносит гостевые загрузки в дело. Итог виден только во флаге query-строки редиректа.
// @Tags Auth
// @Param code query string true "Код авторизации от Google"
// @Success 302
// @Router /auth/callback [get]
func (h *AuthenticationHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=auth_failed", http.StatusFound)
		return
	}

	_, user, profile, err := h.authService.HandleOAuthCallback(r.Context(), code, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		log.Printf("ошибка OAuth callback: %v", err)
		http.Redirect(w, r, "/login?error=auth_failed", http.StatusFound)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	store.SetUser(user)
	store.SetProfile(profile)

	redirect := h.finishAuthentication(w, r, store, user.UUID)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// finishAuthentication запускает перенос гостевых загрузок после входа
// и возвращает маршрут дашборда с флагом результата.
// При частичном сбое миграции пользователь всё равно уходит на дашборд.
func (h *AuthenticationHandler) finishAuthentication(w http.ResponseWriter, r *http.Request, store *state.Store, userUUID string) string {
	sessionID := store.SessionID()

	if sessionID != "" {
		log.Printf("ассоциация гостевых документов сессии %s", sessionID)
		if err := h.associationService.AssociateGuestDocuments(r.Context(), sessionID, userUUID); err != nil {
			log.Printf("не удалось ассоциировать гостевые документы: %v", err)
			return h.dashboardURL + "?error=association_failed"
		}
		store.ClearIntake()
		return h.dashboardURL + "?new_case=success"
	}

	if store.PendingCase() != nil {
		return h.dashboardURL + "?new_case=success"
	}

	return h.dashboardURL
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	user := store.User()
	profile := store.Profile()

	// после перезапуска сервера состояние сессии пустое, поднимаем из БД
	if user == nil {
		user, profile, err = h.authService.CurrentUser(r.Context(), claims.UserUUID)
		if err != nil {
			log.Println(err)
			util.HandleError(w, "пользователь не найден", http.StatusUnauthorized)
			return
		}
		store.SetUser(user)
		store.SetProfile(profile)
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = claims.UserUUID
	resp.Response.Email = user.Email
	if profile != nil {
		resp.Response.FullName = profile.FullName
		resp.Response.Role = profile.Role
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Tags Auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param refresh body requestresponse.RefreshTokenRequest true "Refresh токен"
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	authorizationHeader := r.Header.Get("Authorization")
	accessToken := ""
	if len(authorizationHeader) > len("Bearer ") {
		accessToken = authorizationHeader[len("Bearer "):]
	}

	tokens, err := h.authService.RefreshToken(r.Context(), r.UserAgent(), r.RemoteAddr, accessToken, req.RefreshToken)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "невалидный токен", http.StatusUnauthorized)
		return
	}

	resp := requestresponse.RefreshTokenResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.RefreshToken = tokens.RefreshToken

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Помечает refresh-токен использованным, переводит профиль в 'logged out' и очищает состояние клиентской сессии
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/logout [delete]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), claims.UserUUID, claims.RefreshTokenUUID); err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось завершить сессию", http.StatusInternalServerError)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	store.SignOut()
	h.stateManager.Drop(r)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "Операция выполнена успешно"})
}
