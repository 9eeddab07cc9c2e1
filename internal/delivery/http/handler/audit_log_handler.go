package handler

import (
	"net/http"

	"pulseride/internal/usecase"
	"pulseride/pkg/response"
)

type AuditLogHandler struct {
	auditUsecase usecase.AuditUsecase
}

func NewAuditLogHandler(auditUsecase usecase.AuditUsecase) *AuditLogHandler {
	return &AuditLogHandler{auditUsecase: auditUsecase}
}

func (h *AuditLogHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load audit log")
		return
	}
	response.JSON(w, http.StatusOK, entries)
}
