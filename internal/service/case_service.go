package service

import (
	"context"
	"fmt"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/ports"
	"law-pilot-server/internal/util"
	"log"
	"time"
)

type CaseService struct {
	caseRepository     ports.CaseRepository
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	ttl                time.Duration
}

func NewCaseService(
	caseRepository ports.CaseRepository,
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	ttl time.Duration,
) *CaseService {
	return &CaseService{
		caseRepository:     caseRepository,
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		ttl:                ttl,
	}
}

// ListCases : дела клиента для дашборда, сначала из кэша, при промахе из БД
func (s *CaseService) ListCases(ctx context.Context, clientUUID string) ([]model.Case, error) {
	cases, err := s.cacheRepository.GetCases(ctx, clientUUID)
	if err != nil {
		log.Printf("[CaseService] ошибка кэширования: %v", err)
	}
	if cases != nil {
		log.Printf("[CaseService] список дел клиента %s взят из кэша Redis", clientUUID)
		return cases, nil
	}

	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[CaseService] database connection не найден в context")
	}

	cases, err = s.caseRepository.ListByClient(ctx, db, clientUUID)
	if err != nil {
		return nil, util.LogError("[CaseService] не удалось получить список дел", err)
	}

	if err := s.cacheRepository.SetCases(ctx, clientUUID, cases); err != nil {
		fmt.Printf("[CaseService] ошибка кэширования списка дел: %v\n", err)
	}

	return cases, nil
}

// ListCaseDocuments : документы дела, если дело принадлежит клиенту
func (s *CaseService) ListCaseDocuments(ctx context.Context, caseUUID string, clientUUID string) ([]model.Document, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[CaseService] database connection не найден в context")
	}

	if _, err := s.caseRepository.GetByUUID(ctx, db, caseUUID, clientUUID); err != nil {
		return nil, util.LogError("[CaseService] дело не найдено или доступ запрещён", err)
	}

	return s.documentRepository.ListByCase(ctx, db, caseUUID)
}

// SignedDocumentURL : временная ссылка на скачивание документа дела
func (s *CaseService) SignedDocumentURL(ctx context.Context, caseUUID string, clientUUID string, docUUID string) (string, error) {
	docs, err := s.ListCaseDocuments(ctx, caseUUID, clientUUID)
	if err != nil {
		return "", err
	}

	for _, doc := range docs {
		if doc.UUID == docUUID {
			url, err := s.storageInterface.GeneratePresignedGetURL(ctx, doc.FilePath, s.ttl)
			if err != nil {
				return "", util.LogError("[CaseService] не удалось сгенерировать pre-signed GET URL", err)
			}
			return url, nil
		}
	}

	return "", fmt.Errorf("[CaseService] документ не найден")
}
