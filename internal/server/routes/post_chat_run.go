package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/chat"
	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/internal/workflow"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

const maxResponseSamples = 2

// RunChatHandler executes a workflow for one user message and returns the
// generated answer together with retrieval/web usage details.
func RunChatHandler(c echo.Context) error {
	type runChatParams struct {
		Workflow     workflow.Definition `json:"workflow" validate:"required"`
		Message      string              `json:"message" validate:"required"`
		History      []ai.ChatMessage    `json:"history"`
		WorkflowUUID *string             `json:"workflow_uuid"`
	}
	type runChatResponse struct {
		Answer          string   `json:"answer"`
		Provider        string   `json:"provider"`
		ContextUsed     int      `json:"context_used"`
		ContextSamples  []string `json:"context_samples"`
		WebUsed         bool     `json:"web_used"`
		WebSamples      []string `json:"web_samples"`
		ExecutionTimeMs int64    `json:"execution_time_ms"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(runChatParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}

	result, err := cc.App.Runner.Run(c.Request().Context(), chat.RunParams{
		Definition:   params.Workflow,
		Query:        params.Message,
		History:      params.History,
		UserID:       userID,
		WorkflowUUID: params.WorkflowUUID,
	})
	if err != nil {
		var topoErr *workflow.TopologyError
		switch {
		case errors.As(err, &topoErr):
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: topoErr.Reason})
		case errors.Is(err, chat.ErrEmbeddingUnavailable),
			errors.Is(err, chat.ErrProviderUnavailable):
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			return c.JSON(http.StatusGatewayTimeout, errorResponse{Detail: "Workflow execution timed out"})
		}

		var invErr *chat.InvocationError
		if errors.As(err, &invErr) {
			logger.Error("LLM invocation failed", "provider", invErr.Provider, "err", invErr.Err)
			return c.JSON(http.StatusBadGateway, errorResponse{Detail: invErr.Error()})
		}

		logger.Error("Chat run failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	_, err = cc.App.Queries.SaveChatLog(c.Request().Context(), db.SaveChatLogParams{
		UserID:       userID,
		WorkflowUUID: params.WorkflowUUID,
		Message:      params.Message,
		Response:     result.Response,
		Provider:     result.Provider,
		ContextUsed:  int32(len(result.ContextChunks)),
		WebUsed:      len(result.WebSnippets) > 0,
	})
	if err != nil {
		logger.Error("Failed to save chat log", "err", err)
	}

	return c.JSON(http.StatusOK, runChatResponse{
		Answer:          result.Response,
		Provider:        result.Provider,
		ContextUsed:     len(result.ContextChunks),
		ContextSamples:  sample(result.ContextChunks, maxResponseSamples),
		WebUsed:         len(result.WebSnippets) > 0,
		WebSamples:      sample(result.WebSnippets, maxResponseSamples),
		ExecutionTimeMs: result.DurationMs,
	})
}

func sample(items []string, max int) []string {
	if len(items) > max {
		items = items[:max]
	}
	if items == nil {
		items = []string{}
	}
	return items
}
