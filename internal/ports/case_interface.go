package ports

import (
	"context"
	"law-pilot-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// CaseRepository : SQL слой дел
type CaseRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, c *model.Case) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, caseUUID string, clientUUID string) (*model.Case, error)
	ListByClient(ctx context.Context, exec sqlx.ExtContext, clientUUID string) ([]model.Case, error)
}

// DocumentRepository : SQL слой документов дел
type DocumentRepository interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, docs []model.Document) error
	ListByCase(ctx context.Context, exec sqlx.ExtContext, caseUUID string) ([]model.Document, error)
}

// AssociationService : перенос гостевых загрузок в дело пользователя
type AssociationService interface {
	AssociateGuestDocuments(ctx context.Context, sessionID string, userUUID string) error
	FinalizeApplication(ctx context.Context, userUUID string, caseType string, pendingFiles []model.PendingFileSelection) (*model.Case, error)
}

type CaseService interface {
	ListCases(ctx context.Context, clientUUID string) ([]model.Case, error)
	ListCaseDocuments(ctx context.Context, caseUUID string, clientUUID string) ([]model.Document, error)
	SignedDocumentURL(ctx context.Context, caseUUID string, clientUUID string, docUUID string) (string, error)
}
