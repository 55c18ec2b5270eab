package repository_test

import (
	"context"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/repository"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return &config.Database{DB: db}, mock
}

// ===== Тесты GuestDocumentRepository =====

func TestGuestDocumentCreate(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := repository.NewGuestDocumentRepository(db)

	doc := &model.GuestDocument{
		UUID:      "gd-1",
		SessionID: "S1",
		Name:      "passport.pdf",
		FilePath:  "guests/S1/a.pdf",
		FileType:  "application/pdf",
		CaseType:  "H-1B Work Visa",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO guest_documents")).
		WithArgs(doc.UUID, doc.SessionID, doc.Name, doc.FilePath, doc.FileType, doc.CaseType).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), db, doc)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDocumentListBySession(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := repository.NewGuestDocumentRepository(db)

	createdAt := time.Now()
	rows := sqlmock.NewRows([]string{"uuid", "session_id", "name", "file_path", "file_type", "case_type", "created_at"}).
		AddRow("gd-1", "S1", "passport.pdf", "guests/S1/a.pdf", "application/pdf", "H-1B Work Visa", createdAt).
		AddRow("gd-2", "S1", "diploma.pdf", "guests/S1/b.pdf", "application/pdf", "H-1B Work Visa", createdAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM guest_documents")).
		WithArgs("S1").
		WillReturnRows(rows)

	docs, err := repo.ListBySession(context.Background(), db, "S1")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "passport.pdf", docs[0].Name)
	assert.Equal(t, "guests/S1/b.pdf", docs[1].FilePath)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDocumentListBySession_Empty(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := repository.NewGuestDocumentRepository(db)

	rows := sqlmock.NewRows([]string{"uuid", "session_id", "name", "file_path", "file_type", "case_type", "created_at"})
	mock.ExpectQuery(regexp.QuoteMeta("FROM guest_documents")).
		WithArgs("S-empty").
		WillReturnRows(rows)

	docs, err := repo.ListBySession(context.Background(), db, "S-empty")

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestGuestDocumentDelete_ReturnsFilePath(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := repository.NewGuestDocumentRepository(db)

	rows := sqlmock.NewRows([]string{"file_path"}).AddRow("guests/S1/a.pdf")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM guest_documents")).
		WithArgs("gd-1", "S1").
		WillReturnRows(rows)

	filePath, err := repo.Delete(context.Background(), db, "S1", "gd-1")

	require.NoError(t, err)
	assert.Equal(t, "guests/S1/a.pdf", filePath)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDocumentDelete_NotFound(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := repository.NewGuestDocumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM guest_documents")).
		WithArgs("gd-404", "S1").
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}))

	filePath, err := repo.Delete(context.Background(), db, "S1", "gd-404")

	require.Error(t, err)
	assert.Empty(t, filePath)
}

func TestGuestDocumentDeleteBySession(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := repository.NewGuestDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM guest_documents WHERE session_id = $1")).
		WithArgs("S1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteBySession(context.Background(), db, "S1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
