package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
)

// AuditLogger writes audit events as structured log entries
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates a zap-backed audit logger
func NewAuditLogger(logger *zap.Logger) domain.AuditLogger {
	return &AuditLogger{logger: logger.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (a *AuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Time("timestamp", event.Timestamp),
		zap.Bool("success", event.Success),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.SessionID != "" {
		fields = append(fields, zap.String("session_id", event.SessionID))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if event.Success {
		a.logger.Info("audit", fields...)
	} else {
		a.logger.Warn("audit", fields...)
	}
	return nil
}
