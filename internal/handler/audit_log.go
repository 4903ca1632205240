// internal/handler/audit_log.go
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/repository"
	"github.com/harborgate/tenancy/internal/service"
)

// AuditLogHandler serves the staff-only audit query endpoints.
type AuditLogHandler struct {
	auditService *service.AccessAuditLogService
}

func NewAuditLogHandler(auditService *service.AccessAuditLogService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// List handles GET /api/admin/audit-logs with filtering and pagination.
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := repository.QueryParams{
		ActionType:  q.Get("action_type"),
		ObjectType:  q.Get("object_type"),
		ObjectID:    q.Get("object_id"),
		SubjectType: q.Get("subject_type"),
		SubjectID:   q.Get("subject_id"),
		Permission:  q.Get("permission"),
	}

	if v := q.Get("result"); v != "" {
		result, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid result filter")
			return
		}
		params.Result = &result
	}

	if v := q.Get("start_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid start_time; expected RFC3339")
			return
		}
		params.StartTime = t
	}

	if v := q.Get("end_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid end_time; expected RFC3339")
			return
		}
		params.EndTime = t
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		params.Limit = limit
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		params.Offset = offset
	}

	logs, total, err := h.auditService.GetAuditLogs(r.Context(), params)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
	})
}

// Detail handles GET /api/admin/audit-logs/{logID}.
func (h *AuditLogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	logID, err := uuid.Parse(chi.URLParam(r, "logID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Audit log not found")
		return
	}

	log, err := h.auditService.GetAuditLogByID(r.Context(), logID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Audit log not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"log": log,
	})
}
