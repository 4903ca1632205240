// internal/repository/access_audit_log.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/model"
	"gorm.io/gorm"
)

// AccessAuditLogRepository handles database operations for access audit logs
type AccessAuditLogRepository struct {
	db *gorm.DB
}

// NewAccessAuditLogRepository creates a new AccessAuditLogRepository
func NewAccessAuditLogRepository(db *gorm.DB) *AccessAuditLogRepository {
	return &AccessAuditLogRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AccessAuditLogRepository) Create(ctx context.Context, log *model.AccessAuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).Create(log)
	if result.Error != nil {
		return fmt.Errorf("failed to create access audit log: %w", result.Error)
	}

	return nil
}

// FindByID retrieves an audit log entry by its ID
func (r *AccessAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AccessAuditLog, error) {
	var log model.AccessAuditLog
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&log)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find access audit log: %w", result.Error)
	}

	return &log, nil
}

// QueryParams holds parameters for querying audit logs
type QueryParams struct {
	ActionType  string
	ObjectType  string
	ObjectID    string
	SubjectType string
	SubjectID   string
	Permission  string
	Result      *bool
	StartTime   time.Time
	EndTime     time.Time
	Limit       int
	Offset      int
}

// Query retrieves audit logs based on the provided query parameters
func (r *AccessAuditLogRepository) Query(ctx context.Context, params QueryParams) ([]model.AccessAuditLog, int64, error) {
	var logs []model.AccessAuditLog
	var count int64

	query := r.db.WithContext(ctx).Model(&model.AccessAuditLog{})

	// Apply filters
	if params.ActionType != "" {
		query = query.Where("action_type = ?", params.ActionType)
	}
	if params.ObjectType != "" {
		query = query.Where("object_type = ?", params.ObjectType)
	}
	if params.ObjectID != "" {
		query = query.Where("object_id = ?", params.ObjectID)
	}
	if params.SubjectType != "" {
		query = query.Where("subject_type = ?", params.SubjectType)
	}
	if params.SubjectID != "" {
		query = query.Where("subject_id = ?", params.SubjectID)
	}
	if params.Permission != "" {
		query = query.Where("permission = ?", params.Permission)
	}
	if params.Result != nil {
		query = query.Where("result = ?", *params.Result)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("timestamp >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("timestamp <= ?", params.EndTime)
	}

	// Get total count for pagination
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count access audit logs: %w", err)
	}

	// Apply pagination
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	} else {
		query = query.Limit(100) // Default limit
	}

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("timestamp DESC").Find(&logs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query access audit logs: %w", result.Error)
	}

	return logs, count, nil
}
