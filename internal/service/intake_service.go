package service

import (
	"context"
	"fmt"
	"io"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/ports"
	"law-pilot-server/internal/util"
	"log"

	"github.com/google/uuid"
)

// IntakeService принимает гостевые загрузки мастера подачи заявки.
// Файл сначала уходит в хранилище, и только после успешной загрузки
// вставляется строка guest_documents: при ошибке вставки блоб остаётся
// сиротой в хранилище, это принятый риск.
type IntakeService struct {
	guestRepository  ports.GuestDocumentRepository
	storageInterface ports.S3Storage
}

func NewIntakeService(
	guestRepository ports.GuestDocumentRepository,
	storageInterface ports.S3Storage,
) *IntakeService {
	return &IntakeService{
		guestRepository:  guestRepository,
		storageInterface: storageInterface,
	}
}

// RecordGuestUpload : загружает файл гостя и записывает его метаданные под session_id
func (s *IntakeService) RecordGuestUpload(ctx context.Context, file io.Reader, filename string, fileType string, sessionID string, caseType string) (*model.GuestDocument, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("[IntakeService] пустой session_id")
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[IntakeService] database connection не найден в context")
	}

	filePath := util.GuestStoragePath(sessionID, filename)

	if err := s.storageInterface.UploadObject(ctx, filePath, file, fileType); err != nil {
		return nil, util.LogError("[IntakeService] не удалось загрузить файл в хранилище", err)
	}

	doc := &model.GuestDocument{
		UUID:      uuid.New().String(),
		SessionID: sessionID,
		Name:      filename,
		FilePath:  filePath,
		FileType:  fileType,
		CaseType:  caseType,
	}

	if err := s.guestRepository.Create(ctx, db, doc); err != nil {
		return nil, util.LogError("[IntakeService] не удалось сохранить гостевой документ в БД", err)
	}

	log.Printf("[IntakeService] гостевой файл %s записан для сессии %s", filename, sessionID)
	return doc, nil
}

// RemoveGuestUpload : явное удаление гостевой загрузки вместе с блобом
func (s *IntakeService) RemoveGuestUpload(ctx context.Context, sessionID string, docUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return fmt.Errorf("[IntakeService] database connection не найден в context")
	}

	filePath, err := s.guestRepository.Delete(ctx, db, sessionID, docUUID)
	if err != nil {
		return util.LogError("[IntakeService] не удалось удалить гостевой документ", err)
	}

	if err := s.storageInterface.DeleteObject(ctx, filePath); err != nil {
		// запись уже удалена, осиротевший блоб только логируем
		log.Printf("[IntakeService] не удалось удалить блоб %s: %v", filePath, err)
	}

	return nil
}

// ListGuestUploads : загрузки текущей анонимной сессии
func (s *IntakeService) ListGuestUploads(ctx context.Context, sessionID string) ([]model.GuestDocument, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[IntakeService] database connection не найден в context")
	}

	return s.guestRepository.ListBySession(ctx, db, sessionID)
}
