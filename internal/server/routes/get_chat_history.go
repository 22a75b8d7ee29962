package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// GetChatHistoryHandler returns recent chat turns, optionally scoped to
// one workflow.
func GetChatHistoryHandler(c echo.Context) error {
	type historyParams struct {
		WorkflowUUID string `query:"workflow_uuid"`
		Limit        int32  `query:"limit"`
	}
	type historyResponse struct {
		Logs []db.ChatLog `json:"logs"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(historyParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	var workflowUUID *string
	if params.WorkflowUUID != "" {
		workflowUUID = &params.WorkflowUUID
	}
	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}

	logs, err := cc.App.Queries.ListChatLogs(c.Request().Context(), db.ListChatLogsParams{
		WorkflowUUID: workflowUUID,
		UserID:       userID,
		Limit:        params.Limit,
	})
	if err != nil {
		logger.Error("Failed to list chat logs", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, historyResponse{Logs: logs})
}
