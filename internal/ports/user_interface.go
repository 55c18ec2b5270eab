package ports

import (
	"context"
	"law-pilot-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, profile *model.Profile) error
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Profile, error)
	UpdateState(ctx context.Context, exec sqlx.ExtContext, uuid string, state string) error
}

type AuthenticationService interface {
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error)
	Register(ctx context.Context, email, password, fullName, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error)
	RefreshToken(ctx context.Context, userAgent, ipAddress, accessToken, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, userUUID string, refreshTokenUUID string) error
	HandleOAuthCallback(ctx context.Context, code string, userAgent string, ipAddress string) (*model.TokensPair, *model.User, *model.Profile, error)
	CurrentUser(ctx context.Context, userUUID string) (*model.User, *model.Profile, error)
}
