package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/prefab-leads/internal/entity"
	"github.com/xavierca1/prefab-leads/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError maps use case and entity errors to a response.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	switch {
	case errors.As(err, &de):
		status := http.StatusBadRequest
		if de.Code == "PRODUCT_NOT_FOUND" {
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, de.Code, de.Message)
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", err.Error())
	case errors.Is(err, entity.ErrInvalidStatus):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case usecase.IsTechnicalError(err):
		var te *usecase.TechnicalError
		errors.As(err, &te)
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Message)
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
