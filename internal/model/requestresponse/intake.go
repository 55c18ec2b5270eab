package requestresponse

import (
	"law-pilot-server/internal/model"
	"time"
)

// GuestUploadResponse : ответ на гостевую загрузку файла
type GuestUploadResponse struct {
	Data GuestUploadData `json:"data"`
}

type GuestUploadData struct {
	UUID     string `json:"uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	FilePath string `json:"file_path" example:"guests/S1/0f8fad5b-d9cb-469f-a165-70867728950e.pdf"`
}

// GuestDocumentResponse : гостевой документ в ответах API
type GuestDocumentResponse struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name" example:"passport.pdf"`
	FileType string `json:"file_type" example:"application/pdf"`
	CaseType string `json:"case_type" example:"H-1B Work Visa"`
	Created  string `json:"created" example:"2026-08-23T12:34:56Z"`
}

func GuestDocumentResponseFromModel(doc *model.GuestDocument) GuestDocumentResponse {
	return GuestDocumentResponse{
		UUID:     doc.UUID,
		Name:     doc.Name,
		FileType: doc.FileType,
		CaseType: doc.CaseType,
		Created:  doc.CreatedAt.Format(time.RFC3339),
	}
}

// ListGuestDocumentsResponse : список гостевых загрузок текущей сессии
type ListGuestDocumentsResponse struct {
	Data struct {
		Docs []GuestDocumentResponse `json:"docs"`
	} `json:"data"`
}

// SaveDraftRequest : тело запроса на сохранение черновика заявки
type SaveDraftRequest struct {
	ServiceID string                   `json:"service_id" example:"employment_based_immigration"`
	CaseType  string                   `json:"case_type" example:"H-1B Work Visa"`
	Files     []model.PendingFileEntry `json:"files"`
}

// FinalizeResponse : ответ на подачу заявки
type FinalizeResponse struct {
	Response struct {
		CaseUUID  string `json:"case_uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
		Submitted bool   `json:"submitted" example:"true"`
	} `json:"response"`
}

// SignedURLResponse : ссылка на скачивание документа
type SignedURLResponse struct {
	Response struct {
		URL       string `json:"url"`
		ExpiresIn string `json:"expires_in" example:"1h0m0s"`
	} `json:"response"`
}
