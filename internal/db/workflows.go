package db

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type SaveWorkflowParams struct {
	UserID      *int64
	Name        string
	Description string
	Nodes       json.RawMessage
	Edges       json.RawMessage
}

func (q *Queries) SaveWorkflow(ctx context.Context, params SaveWorkflowParams) (Workflow, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO workflows (uuid, user_id, name, description, nodes, edges)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uuid, user_id, name, description, nodes, edges, created_at, updated_at
	`, uuid.NewString(), params.UserID, params.Name, params.Description, params.Nodes, params.Edges)

	return scanWorkflow(row)
}

type UpdateWorkflowParams struct {
	UUID        string
	Name        string
	Description string
	Nodes       json.RawMessage
	Edges       json.RawMessage
}

func (q *Queries) UpdateWorkflow(ctx context.Context, params UpdateWorkflowParams) (Workflow, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE workflows
		SET name = $1, description = $2, nodes = $3, edges = $4, updated_at = NOW()
		WHERE uuid = $5
		RETURNING id, uuid, user_id, name, description, nodes, edges, created_at, updated_at
	`, params.Name, params.Description, params.Nodes, params.Edges, params.UUID)

	return scanWorkflow(row)
}

func (q *Queries) GetWorkflow(ctx context.Context, workflowUUID string) (Workflow, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, uuid, user_id, name, description, nodes, edges, created_at, updated_at
		FROM workflows
		WHERE uuid = $1
	`, workflowUUID)

	return scanWorkflow(row)
}

// ListWorkflows returns workflow summaries, newest update first. A nil
// userID lists across all users.
func (q *Queries) ListWorkflows(ctx context.Context, userID *int64) ([]WorkflowSummary, error) {
	rows, err := q.db.Query(ctx, `
		SELECT uuid, name, description, created_at, updated_at
		FROM workflows
		WHERE $1::bigint IS NULL OR user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]WorkflowSummary, 0)
	for rows.Next() {
		var w WorkflowSummary
		if err := rows.Scan(&w.UUID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// DeleteWorkflow removes a workflow by uuid and reports whether it existed.
func (q *Queries) DeleteWorkflow(ctx context.Context, workflowUUID string) (bool, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM workflows WHERE uuid = $1`, workflowUUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanWorkflow(row interface{ Scan(dest ...any) error }) (Workflow, error) {
	var w Workflow
	err := row.Scan(&w.ID, &w.UUID, &w.UserID, &w.Name, &w.Description, &w.Nodes, &w.Edges, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}
