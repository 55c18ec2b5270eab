package requestresponse

import (
	"law-pilot-server/internal/model"
	"time"
)

// CaseResponse : дело клиента для JSON-ответа
type CaseResponse struct {
	UUID        string `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Title       string `json:"title" example:"H-1B Work Visa Application"`
	Category    string `json:"category" example:"immigration"`
	ServiceType string `json:"service_type" example:"H-1B Work Visa"`
	Status      string `json:"status" example:"pending"`
	Progress    int    `json:"progress" example:"0"`
	Created     string `json:"created" example:"2026-08-23T12:34:56Z"`
}

func CaseResponseFromModel(c *model.Case) CaseResponse {
	return CaseResponse{
		UUID:        c.UUID,
		Title:       c.Title,
		Category:    c.Category,
		ServiceType: c.ServiceType,
		Status:      c.Status,
		Progress:    c.Progress,
		Created:     c.CreatedAt.Format(time.RFC3339),
	}
}

// ListCasesResponse : список дел клиента для дашборда
type ListCasesResponse struct {
	Data struct {
		Cases []CaseResponse `json:"cases"`
	} `json:"data"`
	Count int `json:"count" example:"3"`
}

// CaseDocumentsResponse : документы дела
type CaseDocumentsResponse struct {
	Data struct {
		Docs []model.Document `json:"docs"`
	} `json:"data"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"for example: invalid session"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}
