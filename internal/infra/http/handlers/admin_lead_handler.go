package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/prefab-leads/internal/entity"
	"github.com/xavierca1/prefab-leads/internal/infra/http/middleware"
	"github.com/xavierca1/prefab-leads/internal/usecase"
)

// AdminLeadHandler exposes the leads console. Each request gets its own
// console so no view state leaks between operators.
type AdminLeadHandler struct {
	Store usecase.LeadStoreInterface
	Log   logrus.FieldLogger
}

func NewAdminLeadHandler(store usecase.LeadStoreInterface, log logrus.FieldLogger) *AdminLeadHandler {
	return &AdminLeadHandler{Store: store, Log: log}
}

type LeadListResponse struct {
	Leads []entity.Lead   `json:"leads"`
	Total int             `json:"total"`
	Query ConsoleQueryDTO `json:"query"`
}

type ConsoleQueryDTO struct {
	Search string `json:"q"`
	Status string `json:"status"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
}

func (h *AdminLeadHandler) console() *usecase.LeadsConsole {
	return usecase.NewLeadsConsole(h.Store, h.Log)
}

// List handles GET /admin/leads?q=&status=&sort=&order=
func (h *AdminLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := usecase.ParseConsoleState(q.Get("q"), q.Get("status"), q.Get("sort"), q.Get("order"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	c := h.console()
	c.SetState(state)
	leads := c.View(r.Context())

	writeJSON(w, http.StatusOK, LeadListResponse{
		Leads: leads,
		Total: len(leads),
		Query: ConsoleQueryDTO{
			Search: state.SearchQuery,
			Status: state.StatusFilter,
			Sort:   string(state.SortKey),
			Order:  string(state.SortDirection),
		},
	})
}

// Get handles GET /admin/leads/{id}
func (h *AdminLeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.console().Select(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail.Lead)
}

// UpdateStatus handles PUT /admin/leads/{id}/status
func (h *AdminLeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	status, err := entity.ParseStatus(strings.TrimSpace(input.Status))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	c := h.console()
	detail, err := c.Select(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if err := c.ChangeStatus(r.Context(), status); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "STORAGE_ERROR", "status change not saved")
		return
	}

	middleware.RecordLeadStatusChange(string(status))
	writeJSON(w, http.StatusOK, detail.Lead)
}

// AddNote handles POST /admin/leads/{id}/notes
func (h *AdminLeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	c := h.console()
	detail, err := c.Select(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	added, err := c.AddNote(r.Context(), input.Note)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "STORAGE_ERROR", "note not saved")
		return
	}
	if !added {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_NOTE", "note must not be blank")
		return
	}

	writeJSON(w, http.StatusCreated, detail.Lead)
}
