package handler

import (
	"net/http"
	"strconv"

	"account-service/internal/converter"
	"account-service/internal/usecase"
	"account-service/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["auditlog_id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetByID(r.Context(), auditLogID)
	if err != nil {
		writeError(w, err, "Failed to get audit log")
		return
	}
	if auditLog == nil {
		response.NotFound(w, "Audit log not found")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", converter.AuditLogToResponse(auditLog))
}

func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, auditLogFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	auditLogs, err := h.auditLogUsecase.GetAll(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}
	total, err := h.auditLogUsecase.Count(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to count audit logs")
		return
	}

	response.List(w, "Audit logs retrieved successfully", converter.AuditLogsToResponses(auditLogs), pageMeta(q, total))
}
