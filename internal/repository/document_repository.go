package repository

import (
	"context"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// CreateBatch : вставляет документы дела одним батчем.
// Используется при миграции гостевых загрузок и при finalize:
// file_path, name и file_type копируются как есть, без повторной загрузки блоба.
func (r *DocumentRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}

	query := `
		INSERT INTO documents (uuid, case_uuid, name, file_path, file_type, status)
		VALUES (:uuid, :case_uuid, :name, :file_path, :file_type, :status)
	`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, docs); err != nil {
		return util.LogError("[DocumentRepo] ошибка вставки документов в БД", err)
	}
	return nil
}

// ListByCase : документы одного дела
func (r *DocumentRepository) ListByCase(ctx context.Context, exec sqlx.ExtContext, caseUUID string) ([]model.Document, error) {
	query := `
		SELECT uuid, case_uuid, name, file_path, file_type, status, created_at
		FROM documents
		WHERE case_uuid = $1
		ORDER BY created_at ASC
	`

	docs := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &docs, query, caseUUID); err != nil {
		return nil, util.LogError("[DocumentRepo] не удалось получить документы дела", err)
	}
	return docs, nil
}
