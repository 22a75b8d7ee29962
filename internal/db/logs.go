package db

import (
	"context"

	"github.com/google/uuid"
)

type SaveChatLogParams struct {
	UserID       *int64
	WorkflowUUID *string
	Message      string
	Response     string
	Provider     string
	ContextUsed  int32
	WebUsed      bool
}

func (q *Queries) SaveChatLog(ctx context.Context, params SaveChatLogParams) (ChatLog, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO chat_logs (uuid, user_id, workflow_uuid, message, response, provider, context_used, web_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING uuid, workflow_uuid, message, response, provider, context_used, web_used, created_at
	`, uuid.NewString(), params.UserID, params.WorkflowUUID, params.Message,
		params.Response, params.Provider, params.ContextUsed, params.WebUsed)

	var l ChatLog
	err := row.Scan(&l.UUID, &l.WorkflowUUID, &l.Message, &l.Response, &l.Provider, &l.ContextUsed, &l.WebUsed, &l.CreatedAt)
	return l, err
}

type ListChatLogsParams struct {
	WorkflowUUID *string
	UserID       *int64
	Limit        int32
}

// ListChatLogs returns recent chat turns, newest first.
func (q *Queries) ListChatLogs(ctx context.Context, params ListChatLogsParams) ([]ChatLog, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := q.db.Query(ctx, `
		SELECT uuid, workflow_uuid, message, response, provider, context_used, web_used, created_at
		FROM chat_logs
		WHERE ($1::text IS NULL OR workflow_uuid = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, params.WorkflowUUID, params.UserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ChatLog, 0)
	for rows.Next() {
		var l ChatLog
		if err := rows.Scan(&l.UUID, &l.WorkflowUUID, &l.Message, &l.Response, &l.Provider, &l.ContextUsed, &l.WebUsed, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type SaveExecutionLogParams struct {
	UserID          *int64
	WorkflowUUID    *string
	WorkflowName    *string
	Status          string
	Message         *string
	Response        *string
	Provider        *string
	ExecutionTimeMs *int64
	ErrorMessage    *string
	ContextUsed     int32
	WebUsed         bool
}

func (q *Queries) SaveExecutionLog(ctx context.Context, params SaveExecutionLogParams) (ExecutionLog, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO execution_logs (uuid, user_id, workflow_uuid, workflow_name, status, message, response, provider, execution_time_ms, error_message, context_used, web_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING uuid, workflow_uuid, workflow_name, status, message, response, provider, execution_time_ms, error_message, context_used, web_used, created_at
	`, uuid.NewString(), params.UserID, params.WorkflowUUID, params.WorkflowName,
		params.Status, params.Message, params.Response, params.Provider,
		params.ExecutionTimeMs, params.ErrorMessage, params.ContextUsed, params.WebUsed)

	return scanExecutionLog(row)
}

type ListExecutionLogsParams struct {
	UserID       *int64
	WorkflowUUID *string
	Status       *string
	Limit        int32
}

// ListExecutionLogs returns recent execution records, newest first,
// optionally filtered by user, workflow, and status.
func (q *Queries) ListExecutionLogs(ctx context.Context, params ListExecutionLogsParams) ([]ExecutionLog, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := q.db.Query(ctx, `
		SELECT uuid, workflow_uuid, workflow_name, status, message, response, provider, execution_time_ms, error_message, context_used, web_used, created_at
		FROM execution_logs
		WHERE ($1::bigint IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR workflow_uuid = $2)
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`, params.UserID, params.WorkflowUUID, params.Status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExecutionLog, 0)
	for rows.Next() {
		l, err := scanExecutionLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanExecutionLog(row interface{ Scan(dest ...any) error }) (ExecutionLog, error) {
	var l ExecutionLog
	err := row.Scan(&l.UUID, &l.WorkflowUUID, &l.WorkflowName, &l.Status, &l.Message,
		&l.Response, &l.Provider, &l.ExecutionTimeMs, &l.ErrorMessage,
		&l.ContextUsed, &l.WebUsed, &l.CreatedAt)
	return l, err
}
