package repository

import (
	"context"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type ProfileRepository struct {
	*config.Database
}

func NewProfileRepository(database *config.Database) *ProfileRepository {
	return &ProfileRepository{database}
}

// Upsert : создаёт или обновляет профиль (вызывается на OAuth callback и регистрации)
func (r *ProfileRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (uuid, full_name, avatar_url, role, state, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (uuid) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    avatar_url = EXCLUDED.avatar_url,
		    state = EXCLUDED.state,
		    updated_at = NOW()
	`
	_, err := exec.ExecContext(ctx, query,
		profile.UUID,
		profile.FullName,
		profile.AvatarURL,
		profile.Role,
		profile.State)

	if err != nil {
		return util.LogError("[ProfileRepo] не удалось сохранить профиль", err)
	}
	return nil
}

// FindByUUID : ищет профиль по UUID пользователя
func (r *ProfileRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Profile, error) {
	query := `SELECT uuid, full_name, avatar_url, role, state, updated_at FROM profiles WHERE uuid = $1`
	var profile model.Profile
	if err := sqlx.GetContext(ctx, exec, &profile, query, uuid); err != nil {
		return nil, util.LogError("[ProfileRepo] не удалось найти профиль", err)
	}
	return &profile, nil
}

// UpdateState : отмечает вход/выход пользователя ('logged in' / 'logged out')
func (r *ProfileRepository) UpdateState(ctx context.Context, exec sqlx.ExtContext, uuid string, state string) error {
	query := `UPDATE profiles SET state = $2, updated_at = NOW() WHERE uuid = $1`
	if _, err := exec.ExecContext(ctx, query, uuid, state); err != nil {
		return util.LogError("[ProfileRepo] не удалось обновить состояние профиля", err)
	}
	return nil
}
