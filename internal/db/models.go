package db

import (
	"encoding/json"
	"time"
)

type User struct {
	ID             int64     `json:"-"`
	UUID           string    `json:"uuid"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type Workflow struct {
	ID          int64           `json:"-"`
	UUID        string          `json:"uuid"`
	UserID      *int64          `json:"-"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Nodes       json.RawMessage `json:"nodes"`
	Edges       json.RawMessage `json:"edges"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WorkflowSummary is the listing shape without node/edge payloads.
type WorkflowSummary struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Document struct {
	UUID           string    `json:"uuid"`
	Filename       string    `json:"filename"`
	FileSize       int64     `json:"file_size"`
	CollectionName string    `json:"collection_name"`
	ChunkCount     int32     `json:"chunk_count"`
	EmbeddingModel *string   `json:"embedding_model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatLog struct {
	UUID         string    `json:"uuid"`
	WorkflowUUID *string   `json:"workflow_uuid"`
	Message      string    `json:"message"`
	Response     string    `json:"response"`
	Provider     string    `json:"provider"`
	ContextUsed  int32     `json:"context_used"`
	WebUsed      bool      `json:"web_used"`
	CreatedAt    time.Time `json:"created_at"`
}

type ExecutionLog struct {
	UUID            string    `json:"uuid"`
	WorkflowUUID    *string   `json:"workflow_uuid"`
	WorkflowName    *string   `json:"workflow_name"`
	Status          string    `json:"status"`
	Message         *string   `json:"message"`
	Response        *string   `json:"response"`
	Provider        *string   `json:"provider"`
	ExecutionTimeMs *int64    `json:"execution_time_ms"`
	ErrorMessage    *string   `json:"error_message"`
	ContextUsed     int32     `json:"context_used"`
	WebUsed         bool      `json:"web_used"`
	CreatedAt       time.Time `json:"created_at"`
}
