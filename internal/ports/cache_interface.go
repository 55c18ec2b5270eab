package ports

import (
	"context"
	"law-pilot-server/internal/model"
)

// CacheRepository : Redis слой, кэш списка дел клиента
type CacheRepository interface {
	SetCases(ctx context.Context, clientUUID string, cases []model.Case) error
	GetCases(ctx context.Context, clientUUID string) ([]model.Case, error)
	DeleteCases(ctx context.Context, clientUUID string) error
}
