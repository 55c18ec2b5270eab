package ports

import (
	"context"
	"io"
	"law-pilot-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// GuestDocumentRepository : SQL слой гостевых загрузок
type GuestDocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, doc *model.GuestDocument) error
	ListBySession(ctx context.Context, exec sqlx.ExtContext, sessionID string) ([]model.GuestDocument, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, sessionID string, docUUID string) (string, error)
	DeleteBySession(ctx context.Context, exec sqlx.ExtContext, sessionID string) error
}

type IntakeService interface {
	RecordGuestUpload(ctx context.Context, file io.Reader, filename string, fileType string, sessionID string, caseType string) (*model.GuestDocument, error)
	RemoveGuestUpload(ctx context.Context, sessionID string, docUUID string) error
	ListGuestUploads(ctx context.Context, sessionID string) ([]model.GuestDocument, error)
}
