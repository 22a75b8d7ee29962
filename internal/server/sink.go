package server

import (
	"context"

	"github.com/RangerAkash1/workflow-builder/backend/internal/chat"
	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
)

// dbExecutionSink persists execution records into the execution_logs table.
type dbExecutionSink struct {
	queries *db.Queries
}

func (s *dbExecutionSink) Record(ctx context.Context, rec chat.ExecutionRecord) error {
	params := db.SaveExecutionLogParams{
		UserID:       rec.UserID,
		WorkflowUUID: rec.WorkflowUUID,
		WorkflowName: rec.WorkflowName,
		Status:       rec.Status,
		ContextUsed:  int32(rec.ContextUsed),
		WebUsed:      rec.WebUsed,
	}
	if rec.Query != "" {
		params.Message = &rec.Query
	}
	if rec.Response != "" {
		params.Response = &rec.Response
	}
	if rec.Provider != "" {
		params.Provider = &rec.Provider
	}
	if rec.ErrorMessage != "" {
		params.ErrorMessage = &rec.ErrorMessage
	}
	duration := rec.DurationMs
	params.ExecutionTimeMs = &duration

	_, err := s.queries.SaveExecutionLog(ctx, params)
	return err
}
