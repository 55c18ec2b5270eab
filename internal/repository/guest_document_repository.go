package repository

import (
	"context"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type GuestDocumentRepository struct {
	*config.Database
}

func NewGuestDocumentRepository(database *config.Database) *GuestDocumentRepository {
	return &GuestDocumentRepository{database}
}

// Create : сохраняет запись о гостевой загрузке
func (r *GuestDocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, doc *model.GuestDocument) error {
	query := `
		INSERT INTO guest_documents (uuid, session_id, name, file_path, file_type, case_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		doc.UUID,
		doc.SessionID,
		doc.Name,
		doc.FilePath,
		doc.FileType,
		doc.CaseType)

	if err != nil {
		return util.LogError("[GuestDocRepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// ListBySession : все гостевые загрузки анонимной сессии в порядке создания
func (r *GuestDocumentRepository) ListBySession(ctx context.Context, exec sqlx.ExtContext, sessionID string) ([]model.GuestDocument, error) {
	query := `
		SELECT uuid, session_id, name, file_path, file_type, case_type, created_at
		FROM guest_documents
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	docs := []model.GuestDocument{}
	if err := sqlx.SelectContext(ctx, exec, &docs, query, sessionID); err != nil {
		return nil, util.LogError("[GuestDocRepo] не удалось получить гостевые документы", err)
	}
	return docs, nil
}

// Delete : удаляет одну гостевую загрузку, возвращает storage path для очистки блоба
func (r *GuestDocumentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, sessionID string, docUUID string) (string, error) {
	query := `
		DELETE FROM guest_documents
		WHERE uuid = $1 AND session_id = $2
		RETURNING file_path
	`

	var filePath string
	err := sqlx.GetContext(ctx, exec, &filePath, query, docUUID, sessionID)
	if err != nil {
		return "", util.LogError("[GuestDocRepo] не удалось удалить гостевой документ", err)
	}

	return filePath, nil
}

// DeleteBySession : финальный шаг ассоциации, чистит все записи сессии
func (r *GuestDocumentRepository) DeleteBySession(ctx context.Context, exec sqlx.ExtContext, sessionID string) error {
	query := `DELETE FROM guest_documents WHERE session_id = $1`
	if _, err := exec.ExecContext(ctx, query, sessionID); err != nil {
		return util.LogError("[GuestDocRepo] не удалось удалить записи сессии", err)
	}
	return nil
}
