package handler

import (
	"encoding/json"
	"law-pilot-server/internal/catalog"
	requestresponse "law-pilot-server/internal/model/requestresponse"
	"law-pilot-server/internal/ports"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/util"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type CaseHandler struct {
	caseService ports.CaseService
	catalog     *catalog.Catalog
	urlTTL      time.Duration
}

func NewCaseHandler(caseService ports.CaseService, cat *catalog.Catalog, urlTTL time.Duration) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
		catalog:     cat,
		urlTTL:      urlTTL,
	}
}

// ListCases godoc
// @Summary Дела текущего клиента
// @Tags Cases
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListCasesResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/cases [get]
func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	cases, err := h.caseService.ListCases(r.Context(), claims.UserUUID)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось получить список дел", http.StatusInternalServerError)
		return
	}

	resp := requestresponse.ListCasesResponse{}
	resp.Data.Cases = make([]requestresponse.CaseResponse, 0, len(cases))
	for i := range cases {
		resp.Data.Cases = append(resp.Data.Cases, requestresponse.CaseResponseFromModel(&cases[i]))
	}
	resp.Count = len(resp.Data.Cases)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListCaseDocuments godoc
// @Summary Документы дела
// @Tags Cases
// @Produce json
// @Param case_id path string true "UUID дела"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CaseDocumentsResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/cases/{case_id}/docs [get]
func (h *CaseHandler) ListCaseDocuments(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	caseUUID := chi.URLParam(r, "case_id")

	docs, err := h.caseService.ListCaseDocuments(r.Context(), caseUUID, claims.UserUUID)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "дело не найдено", http.StatusNotFound)
		return
	}

	resp := requestresponse.CaseDocumentsResponse{}
	resp.Data.Docs = docs

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetDocumentURL godoc
// @Summary Временная ссылка на документ дела
// @Tags Cases
// @Produce json
// @Param case_id path string true "UUID дела"
// @Param doc_id path string true "UUID документа"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SignedURLResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/cases/{case_id}/docs/{doc_id}/url [get]
func (h *CaseHandler) GetDocumentURL(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	caseUUID := chi.URLParam(r, "case_id")
	docUUID := chi.URLParam(r, "doc_id")

	url, err := h.caseService.SignedDocumentURL(r.Context(), caseUUID, claims.UserUUID, docUUID)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "документ не найден", http.StatusNotFound)
		return
	}

	resp := requestresponse.SignedURLResponse{}
	resp.Response.URL = url
	resp.Response.ExpiresIn = h.urlTTL.String()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListServices godoc
// @Summary Каталог иммиграционных услуг
// @Tags Services
// @Produce json
// @Success 200 {object} catalog.Catalog
// @Router /api/services [get]
func (h *CaseHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.catalog)
}
