// internal/audit/logger.go
package audit

import (
	"context"
	"net/http"

	"github.com/harborgate/tenancy/internal/model"
)

// Logger defines the interface for auditing operations
type Logger interface {
	// LogGateDecision logs one access-policy gate evaluation
	LogGateDecision(
		ctx context.Context,
		subject model.Subject,
		permission string,
		object model.Object,
		result bool,
		contextData map[string]interface{},
		req *http.Request,
	) error

	// LogEntityCreate logs an entity creation operation
	LogEntityCreate(
		ctx context.Context,
		objectType string,
		objectID string,
		attributes map[string]interface{},
		req *http.Request,
	) error

	// LogEntityDelete logs an entity deletion operation
	LogEntityDelete(
		ctx context.Context,
		objectType string,
		objectID string,
		req *http.Request,
	) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogGateDecision implements Logger.LogGateDecision
func (l *NoOpLogger) LogGateDecision(
	ctx context.Context,
	subject model.Subject,
	permission string,
	object model.Object,
	result bool,
	contextData map[string]interface{},
	req *http.Request,
) error {
	return nil
}

// LogEntityCreate implements Logger.LogEntityCreate
func (l *NoOpLogger) LogEntityCreate(
	ctx context.Context,
	objectType string,
	objectID string,
	attributes map[string]interface{},
	req *http.Request,
) error {
	return nil
}

// LogEntityDelete implements Logger.LogEntityDelete
func (l *NoOpLogger) LogEntityDelete(
	ctx context.Context,
	objectType string,
	objectID string,
	req *http.Request,
) error {
	return nil
}
