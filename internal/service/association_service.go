package service

import (
	"bytes"
	"context"
	"fmt"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/ports"
	"law-pilot-server/internal/util"
	"log"

	"github.com/google/uuid"
)

// AssociationService переносит гостевые загрузки анонимной сессии
// в дело авторизованного пользователя после входа.
//
// Последовательность шагов фиксированная: выборка гостевых записей →
// создание дела → перенос документов → очистка гостевых записей.
// Шаги не обёрнуты в транзакцию: ошибка на любом шаге прерывает
// оставшиеся, уже выполненные шаги не откатываются. Защиты от двух
// одновременных вызовов для одной сессии тоже нет — повторный callback
// до очистки создаст второе дело.
type AssociationService struct {
	guestRepository    ports.GuestDocumentRepository
	caseRepository     ports.CaseRepository
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
}

func NewAssociationService(
	guestRepository ports.GuestDocumentRepository,
	caseRepository ports.CaseRepository,
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
) *AssociationService {
	return &AssociationService{
		guestRepository:    guestRepository,
		caseRepository:     caseRepository,
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
	}
}

// AssociateGuestDocuments : миграция гостевых загрузок сессии в дело пользователя.
// Пустая сессия — no-op: дело для неё не создаётся.
func (s *AssociationService) AssociateGuestDocuments(ctx context.Context, sessionID string, userUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return fmt.Errorf("[AssociationService] database connection не найден в context")
	}

	guestDocs, err := s.guestRepository.ListBySession(ctx, db, sessionID)
	if err != nil {
		return util.LogError("[AssociationService] не удалось получить гостевые документы", err)
	}

	if len(guestDocs) == 0 {
		log.Printf("[AssociationService] сессия %s пуста, ассоциация не требуется", sessionID)
		return nil
	}

	// Гостевая сессия держит документы одного типа дела,
	// тип берём из первой записи.
	caseType := guestDocs[0].CaseType

	newCase := &model.Case{
		UUID:        uuid.New().String(),
		ClientUUID:  userUUID,
		Title:       fmt.Sprintf("%s Application", caseType),
		Category:    "immigration",
		ServiceType: caseType,
		Status:      model.StatusPending,
	}

	if err := s.caseRepository.Create(ctx, db, newCase); err != nil {
		return util.LogError("[AssociationService] не удалось создать дело", err)
	}

	docs := make([]model.Document, 0, len(guestDocs))
	for _, gd := range guestDocs {
		docs = append(docs, model.Document{
			UUID:     uuid.New().String(),
			CaseUUID: newCase.UUID,
			Name:     gd.Name,
			FilePath: gd.FilePath,
			FileType: gd.FileType,
			Status:   model.StatusPending,
		})
	}

	if err := s.documentRepository.CreateBatch(ctx, db, docs); err != nil {
		return util.LogError("[AssociationService] не удалось перенести документы", err)
	}

	if err := s.guestRepository.DeleteBySession(ctx, db, sessionID); err != nil {
		return util.LogError("[AssociationService] не удалось очистить гостевые записи", err)
	}

	if err := s.cacheRepository.DeleteCases(ctx, userUUID); err != nil {
		fmt.Printf("[AssociationService] ошибка инвалидации кэша дел: %v\n", err)
	}

	log.Printf("[AssociationService] сессия %s: %d документов перенесено в дело %s", sessionID, len(docs), newCase.UUID)
	return nil
}

// FinalizeApplication : подача заявки файлами, которые держались в памяти.
// Каждый файл загружается в хранилище под путём пользователя, затем
// создаётся одно дело и по одной записи документа на файл.
// Политика отказов та же, что и у ассоциации: без отката.
func (s *AssociationService) FinalizeApplication(ctx context.Context, userUUID string, caseType string, pendingFiles []model.PendingFileSelection) (*model.Case, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[AssociationService] database connection не найден в context")
	}

	docs := make([]model.Document, 0, len(pendingFiles))
	for _, pf := range pendingFiles {
		filePath := util.UserStoragePath(userUUID, pf.Name)

		if err := s.storageInterface.UploadObject(ctx, filePath, bytes.NewReader(pf.Content), pf.FileType); err != nil {
			return nil, util.LogError("[AssociationService] не удалось загрузить файл заявки", err)
		}

		docs = append(docs, model.Document{
			UUID:     uuid.New().String(),
			Name:     pf.Name,
			FilePath: filePath,
			FileType: pf.FileType,
			Status:   model.StatusPending,
		})
	}

	newCase := &model.Case{
		UUID:        uuid.New().String(),
		ClientUUID:  userUUID,
		Title:       fmt.Sprintf("%s Application", caseType),
		Category:    "immigration",
		ServiceType: caseType,
		Status:      model.StatusPending,
	}

	if err := s.caseRepository.Create(ctx, db, newCase); err != nil {
		return nil, util.LogError("[AssociationService] не удалось создать дело", err)
	}

	for i := range docs {
		docs[i].CaseUUID = newCase.UUID
	}

	if err := s.documentRepository.CreateBatch(ctx, db, docs); err != nil {
		return nil, util.LogError("[AssociationService] не удалось сохранить документы заявки", err)
	}

	if err := s.cacheRepository.DeleteCases(ctx, userUUID); err != nil {
		fmt.Printf("[AssociationService] ошибка инвалидации кэша дел: %v\n", err)
	}

	log.Printf("[AssociationService] заявка %s подана, дело %s", caseType, newCase.UUID)
	return newCase, nil
}
