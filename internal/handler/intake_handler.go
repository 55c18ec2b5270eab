package handler

import (
	"context"
	"encoding/json"
	"io"
	"law-pilot-server/internal/catalog"
	"law-pilot-server/internal/model"
	requestresponse "law-pilot-server/internal/model/requestresponse"
	"law-pilot-server/internal/ports"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/state"
	"law-pilot-server/internal/util"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type IntakeHandler struct {
	intakeService      ports.IntakeService
	associationService ports.AssociationService
	stateManager       *state.Manager
	serviceCatalog     *catalog.Catalog
}

func NewIntakeHandler(intakeService ports.IntakeService, associationService ports.AssociationService, stateManager *state.Manager, serviceCatalog *catalog.Catalog) *IntakeHandler {
	return &IntakeHandler{
		intakeService:      intakeService,
		associationService: associationService,
		stateManager:       stateManager,
		serviceCatalog:     serviceCatalog,
	}
}

// UploadGuestDocument godoc
// @Summary Гостевая загрузка файла
// @Description Принимает файл мастера подачи до входа. Сессия создаётся лениво и привязывается к cookie браузера.
// @Tags Intake
// @Accept multipart/form-data
// @Produce json
// @Param case_type formData string true "Тип дела из каталога услуг"
// @Param file formData file true "Файл документа"
// @Success 201 {object} requestresponse.GuestUploadResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный формат запроса"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/intake/docs [post]
func (h *IntakeHandler) UploadGuestDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithUploadTimeout(r)
	defer cancel()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	caseType := r.FormValue("case_type")
	if caseType == "" {
		util.HandleError(w, "не указан тип дела", http.StatusBadRequest)
		return
	}
	if _, ok := h.serviceCatalog.FindCaseType(caseType); !ok {
		util.HandleError(w, "неизвестный тип дела", http.StatusBadRequest)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	sessionID := store.EnsureSessionID()

	mimeType := header.Header.Get("Content-Type")
	doc, err := h.intakeService.RecordGuestUpload(ctx, file, header.Filename, mimeType, sessionID, caseType)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось сохранить файл", http.StatusInternalServerError)
		return
	}

	resp := requestresponse.GuestUploadResponse{}
	resp.Data.UUID = doc.UUID
	resp.Data.FilePath = doc.FilePath

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// ListGuestDocuments godoc
// @Summary Загрузки текущей анонимной сессии
// @Tags Intake
// @Produce json
// @Success 200 {object} requestresponse.ListGuestDocumentsResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/intake/docs [get]
func (h *IntakeHandler) ListGuestDocuments(w http.ResponseWriter, r *http.Request) {
	store := h.stateManager.StoreFor(w, r)
	sessionID := store.SessionID()

	resp := requestresponse.ListGuestDocumentsResponse{}
	resp.Data.Docs = []requestresponse.GuestDocumentResponse{}

	if sessionID != "" {
		docs, err := h.intakeService.ListGuestUploads(r.Context(), sessionID)
		if err != nil {
			log.Println(err)
			util.HandleError(w, "не удалось получить список загрузок", http.StatusInternalServerError)
			return
		}
		for i := range docs {
			resp.Data.Docs = append(resp.Data.Docs, requestresponse.GuestDocumentResponseFromModel(&docs[i]))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RemoveGuestDocument godoc
// @Summary Удаление гостевой загрузки
// @Tags Intake
// @Produce json
// @Param doc_id path string true "UUID гостевого документа"
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/intake/docs/{doc_id} [delete]
func (h *IntakeHandler) RemoveGuestDocument(w http.ResponseWriter, r *http.Request) {
	store := h.stateManager.StoreFor(w, r)
	sessionID := store.SessionID()
	docUUID := chi.URLParam(r, "doc_id")

	if sessionID == "" {
		util.HandleError(w, "сессия не найдена", http.StatusNotFound)
		return
	}

	if err := h.intakeService.RemoveGuestUpload(r.Context(), sessionID, docUUID); err != nil {
		log.Println(err)
		util.HandleError(w, "документ не найден", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "Операция выполнена успешно"})
}

// SaveDraft godoc
// @Summary Сохранение черновика заявки
// @Description Черновик живёт в состоянии клиентской сессии и очищается после подачи или ассоциации
// @Tags Intake
// @Accept json
// @Produce json
// @Param draft body requestresponse.SaveDraftRequest true "Черновик"
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/intake/draft [post]
func (h *IntakeHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	if _, ok := h.serviceCatalog.FindCaseType(req.CaseType); !ok {
		util.HandleError(w, "неизвестный тип дела", http.StatusBadRequest)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	store.SetPendingCase(&model.PendingCaseDraft{
		ServiceID: req.ServiceID,
		CaseType:  req.CaseType,
		Files:     req.Files,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "Операция выполнена успешно"})
}

// SelectFile godoc
// @Summary Выбор файла без загрузки в хранилище
// @Description Файл держится в памяти до подачи заявки и не переживает перезапуск сессии
// @Tags Intake
// @Accept multipart/form-data
// @Produce json
// @Param id formData string true "Идентификатор пункта чек-листа"
// @Param case_type formData string true "Тип дела"
// @Param file formData file true "Файл документа"
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/intake/files [post]
func (h *IntakeHandler) SelectFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	id := r.FormValue("id")
	caseType := r.FormValue("case_type")
	if id == "" || caseType == "" {
		util.HandleError(w, "не указан идентификатор или тип дела", http.StatusBadRequest)
		return
	}
	if _, ok := h.serviceCatalog.FindCaseType(caseType); !ok {
		util.HandleError(w, "неизвестный тип дела", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
		return
	}

	store := h.stateManager.StoreFor(w, r)

	// повторный выбор по тому же id заменяет файл
	selections := store.PendingFiles()
	updated := make([]model.PendingFileSelection, 0, len(selections)+1)
	for _, sel := range selections {
		if sel.ID != id {
			updated = append(updated, sel)
		}
	}
	updated = append(updated, model.PendingFileSelection{
		ID:       id,
		Name:     header.Filename,
		FileType: header.Header.Get("Content-Type"),
		Content:  content,
		CaseType: caseType,
	})
	store.SetPendingFiles(updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "Операция выполнена успешно"})
}

// DeselectFile godoc
// @Summary Отмена выбора файла
// @Tags Intake
// @Produce json
// @Param id path string true "Идентификатор пункта чек-листа"
// @Success 200 {object} requestresponse.SuccessResponse
// @Router /api/intake/files/{id} [delete]
func (h *IntakeHandler) DeselectFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	store := h.stateManager.StoreFor(w, r)

	selections := store.PendingFiles()
	updated := make([]model.PendingFileSelection, 0, len(selections))
	for _, sel := range selections {
		if sel.ID != id {
			updated = append(updated, sel)
		}
	}
	store.SetPendingFiles(updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "Операция выполнена успешно"})
}

// SubmitApplication godoc
// @Summary Подача заявки авторизованным пользователем
// @Description Загружает выбранные в памяти файлы, создаёт одно дело и записи документов. После успеха черновик и файлы очищаются.
// @Tags Intake
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FinalizeResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/intake/submit [post]
func (h *IntakeHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithUploadTimeout(r)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	store := h.stateManager.StoreFor(w, r)
	pendingFiles := store.PendingFiles()
	draft := store.PendingCase()

	caseType := ""
	if draft != nil {
		caseType = draft.CaseType
	} else if len(pendingFiles) > 0 {
		caseType = pendingFiles[0].CaseType
	}
	if caseType == "" {
		util.HandleError(w, "нет заявки для подачи", http.StatusBadRequest)
		return
	}

	newCase, err := h.associationService.FinalizeApplication(ctx, claims.UserUUID, caseType, pendingFiles)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось подать заявку", http.StatusInternalServerError)
		return
	}

	// состояние очищается только после полного успеха
	store.ClearIntake()

	resp := requestresponse.FinalizeResponse{}
	resp.Response.CaseUUID = newCase.UUID
	resp.Response.Submitted = true

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func contextWithUploadTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 30*time.Second)
}
