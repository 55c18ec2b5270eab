package repository

import (
	"context"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type CaseRepository struct {
	*config.Database
}

func NewCaseRepository(database *config.Database) *CaseRepository {
	return &CaseRepository{database}
}

// Create : сохраняет новое дело клиента
func (r *CaseRepository) Create(ctx context.Context, exec sqlx.ExtContext, c *model.Case) error {
	query := `
		INSERT INTO cases (uuid, client_uuid, title, category, service_type, status, progress)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		c.UUID,
		c.ClientUUID,
		c.Title,
		c.Category,
		c.ServiceType,
		c.Status,
		c.Progress)

	if err != nil {
		return util.LogError("[CaseRepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// GetByUUID : возвращает дело, если оно принадлежит клиенту
func (r *CaseRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, caseUUID string, clientUUID string) (*model.Case, error) {
	query := `
		SELECT uuid, client_uuid, title, category, service_type, status, progress, created_at, updated_at
		FROM cases
		WHERE uuid = $1 AND client_uuid = $2
	`

	var c model.Case
	if err := sqlx.GetContext(ctx, exec, &c, query, caseUUID, clientUUID); err != nil {
		return nil, util.LogError("[CaseRepo] дело не найдено", err)
	}
	return &c, nil
}

// ListByClient : дела клиента для дашборда, новые сверху
func (r *CaseRepository) ListByClient(ctx context.Context, exec sqlx.ExtContext, clientUUID string) ([]model.Case, error) {
	query := `
		SELECT uuid, client_uuid, title, category, service_type, status, progress, created_at, updated_at
		FROM cases
		WHERE client_uuid = $1
		ORDER BY created_at DESC
	`

	cases := []model.Case{}
	if err := sqlx.SelectContext(ctx, exec, &cases, query, clientUUID); err != nil {
		return nil, util.LogError("[CaseRepo] не удалось получить список дел", err)
	}
	return cases, nil
}
