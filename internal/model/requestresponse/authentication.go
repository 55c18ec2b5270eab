package requestresponse

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"client@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Email    string `json:"email" example:"client@example.com"`
	Password string `json:"password" example:"P@ssw0rd!"`
	FullName string `json:"full_name" example:"Maria Torres"`
}

// RegisterResponse : успешный ответ
type RegisterResponse struct {
	Response struct {
		Email string `json:"email" example:"client@example.com"`
	} `json:"response"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email    string `json:"email" example:"client@example.com"`
		FullName string `json:"full_name" example:"Maria Torres"`
		Role     string `json:"role" example:"client"`
	} `json:"response"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"sfuqwejqjoiu93e29"`
}

// RefreshTokenResponse : ответ на успешный запрос
type RefreshTokenResponse struct {
	Response struct {
		AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		RefreshToken string `json:"refresh_token" example:"sfuqwejqjoiu93e29"`
	} `json:"response"`
}
