package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/http/middleware"
	"github.com/xavierca1/leadstack/internal/usecase"
)

type LeadHandler struct {
	Repo     entity.LeadRepositoryInterface
	CreateUC *usecase.CreateLeadUseCase
	UpdateUC *usecase.UpdateLeadUseCase
	DeleteUC *usecase.DeleteLeadUseCase
	ImportUC *usecase.ImportLeadsUseCase
	Logger   *zap.Logger
}

func NewLeadHandler(
	repo entity.LeadRepositoryInterface,
	createUC *usecase.CreateLeadUseCase,
	updateUC *usecase.UpdateLeadUseCase,
	deleteUC *usecase.DeleteLeadUseCase,
	importUC *usecase.ImportLeadsUseCase,
	logger *zap.Logger,
) *LeadHandler {
	return &LeadHandler{
		Repo:     repo,
		CreateUC: createUC,
		UpdateUC: updateUC,
		DeleteUC: deleteUC,
		ImportUC: importUC,
		Logger:   logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type importRequest struct {
	Leads []map[string]any `json:"leads"`
}

type addTagRequest struct {
	Tag string `json:"tag"`
}

// List (GET /leads): todos os leads, mais novo primeiro.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.FindAll(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, leads)
}

// Create (POST /leads): corpo = lead parcial; 400 se falhar no gate.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), body)
	if err != nil {
		h.respondUseCaseError(w, err)
		return
	}

	middleware.RecordLeadsCreated("api", 1)
	h.respondJSON(w, http.StatusCreated, lead)
}

// Get (GET /leads/{id}): 404 se não existir.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := h.Repo.FindByID(r.Context(), id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, lead)
}

// Update (PUT /leads/{id}): sobrescrita completa do payload. Id
// inexistente NÃO vira 404 aqui: sobe como erro do banco (500),
// comportamento herdado do caminho original de update.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.UpdateUC.Execute(r.Context(), id, body)
	if err != nil {
		h.respondUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /leads/{id}): {success:true} ou o erro do banco.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.DeleteUC.Execute(r.Context(), id); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Import (POST /leads/import): lote JSON, tudo-ou-nada.
func (h *LeadHandler) Import(w http.ResponseWriter, r *http.Request) {
	var body importRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.ImportUC.Execute(r.Context(), body.Leads, "")
	if err != nil {
		h.respondUseCaseError(w, err)
		return
	}

	middleware.RecordLeadsCreated("import", output.Inserted)
	middleware.RecordLeadsImported(output.Inserted)
	h.respondJSON(w, http.StatusCreated, output)
}

// ImportCSV (POST /leads/import/csv): multipart com campo "file";
// o arquivo passa pelo mapeador de linhas e segue o mesmo caminho
// tudo-ou-nada do import JSON.
func (h *LeadHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing `file` field")
		return
	}
	defer file.Close()

	rows, err := usecase.ParseLeadsCSV(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid CSV: "+err.Error())
		return
	}

	output, err := h.ImportUC.Execute(r.Context(), rows, header.Filename)
	if err != nil {
		h.respondUseCaseError(w, err)
		return
	}

	middleware.RecordLeadsCreated("csv", output.Inserted)
	middleware.RecordLeadsImported(output.Inserted)
	h.respondJSON(w, http.StatusCreated, output)
}

// AddTag (POST /leads/{id}/tags): caminho interativo de tag, o único
// que deduplica. Tag repetida ou vazia devolve o lead como está.
func (h *LeadHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body addTagRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.Repo.FindByID(r.Context(), id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tags, added := usecase.AppendTag(lead.Tags, body.Tag)
	if !added {
		h.respondJSON(w, http.StatusOK, lead)
		return
	}

	lead.Tags = tags
	updated, err := h.Repo.Update(r.Context(), id, &lead.LeadPayload)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, updated)
}

func (h *LeadHandler) respondUseCaseError(w http.ResponseWriter, err error) {
	if usecase.IsDomainError(err) {
		middleware.RecordValidationFailure()
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondError(w, http.StatusInternalServerError, err.Error())
}

func (h *LeadHandler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *LeadHandler) respondError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.Error("request failed", zap.Int("status", status), zap.String("error", message))
	}
	h.respondJSON(w, status, errorResponse{Error: message})
}
