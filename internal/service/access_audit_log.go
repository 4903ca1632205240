// internal/service/access_audit_log.go
package service

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/audit"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/repository"
)

// Ensure AccessAuditLogService implements the audit.Logger interface
var _ audit.Logger = (*AccessAuditLogService)(nil)

// AccessAuditLogService handles operations related to access audit logs
type AccessAuditLogService struct {
	repo *repository.AccessAuditLogRepository
}

// NewAccessAuditLogService creates a new AccessAuditLogService
func NewAccessAuditLogService(repo *repository.AccessAuditLogRepository) *AccessAuditLogService {
	return &AccessAuditLogService{repo: repo}
}

// LogGateDecision logs one access-policy gate evaluation
func (s *AccessAuditLogService) LogGateDecision(
	ctx context.Context,
	subject model.Subject,
	permission string,
	object model.Object,
	result bool,
	contextData map[string]interface{},
	req *http.Request,
) error {
	log := &model.AccessAuditLog{
		ActionType:  model.ActionGateDecision,
		Result:      &result,
		ObjectType:  object.Type,
		ObjectID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Permission:  permission,
		Context:     model.JSONMap(contextData),
		Timestamp:   time.Now().UTC(),
	}

	if req != nil {
		log.RequestID = middleware.GetReqID(ctx)
		log.ClientIP = req.RemoteAddr
		log.UserAgent = req.UserAgent()
	}

	return s.repo.Create(ctx, log)
}

// LogEntityCreate logs an entity creation operation
func (s *AccessAuditLogService) LogEntityCreate(
	ctx context.Context,
	objectType string,
	objectID string,
	attributes map[string]interface{},
	req *http.Request,
) error {
	log := &model.AccessAuditLog{
		ActionType: model.ActionEntityCreate,
		ObjectType: objectType,
		ObjectID:   objectID,
		Context:    model.JSONMap(attributes),
		Timestamp:  time.Now().UTC(),
	}

	if req != nil {
		log.RequestID = middleware.GetReqID(ctx)
		log.ClientIP = req.RemoteAddr
		log.UserAgent = req.UserAgent()
	}

	return s.repo.Create(ctx, log)
}

// LogEntityDelete logs an entity deletion operation
func (s *AccessAuditLogService) LogEntityDelete(
	ctx context.Context,
	objectType string,
	objectID string,
	req *http.Request,
) error {
	log := &model.AccessAuditLog{
		ActionType: model.ActionEntityDelete,
		ObjectType: objectType,
		ObjectID:   objectID,
		Timestamp:  time.Now().UTC(),
	}

	if req != nil {
		log.RequestID = middleware.GetReqID(ctx)
		log.ClientIP = req.RemoteAddr
		log.UserAgent = req.UserAgent()
	}

	return s.repo.Create(ctx, log)
}

// GetAuditLogs retrieves audit logs with filtering and pagination
func (s *AccessAuditLogService) GetAuditLogs(ctx context.Context, params repository.QueryParams) ([]model.AccessAuditLog, int64, error) {
	return s.repo.Query(ctx, params)
}

// GetAuditLogByID retrieves a specific audit log entry
func (s *AccessAuditLogService) GetAuditLogByID(ctx context.Context, id uuid.UUID) (*model.AccessAuditLog, error) {
	return s.repo.FindByID(ctx, id)
}
