// internal/model/access_audit_log.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccessAuditLog records one access-policy gate decision.
type AccessAuditLog struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Timestamp   time.Time `json:"timestamp" gorm:"default:CURRENT_TIMESTAMP"`
	ActionType  string    `json:"action_type"`
	Result      *bool     `json:"result"`
	ObjectType  string    `json:"object_type"`
	ObjectID    string    `json:"object_id"`
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	Permission  string    `json:"permission"`
	Context     JSONMap   `json:"context" gorm:"type:jsonb"`
	RequestID   string    `json:"request_id"`
	ClientIP    string    `json:"client_ip"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for AccessAuditLog
func (AccessAuditLog) TableName() string {
	return "access_audit_logs"
}

// JSONMap represents a generic map stored as JSONB in the database
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion failed: failed to decode JSONB")
	}

	return json.Unmarshal(bytes, m)
}

// Subject identifies the caller a gate evaluated.
type Subject struct {
	Type string
	ID   string
}

// Object identifies the resource a gate protected.
type Object struct {
	Type string
	ID   string
}

// Constants for AccessAuditLog action types
const (
	ActionGateDecision = "gate_decision"
	ActionEntityCreate = "entity_create"
	ActionEntityDelete = "entity_delete"
)
