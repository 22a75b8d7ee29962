package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// GetExecutionLogsHandler returns recent workflow execution records,
// optionally filtered by workflow and status.
func GetExecutionLogsHandler(c echo.Context) error {
	type executionLogsParams struct {
		WorkflowUUID string `query:"workflow_uuid"`
		Status       string `query:"status"`
		Limit        int32  `query:"limit"`
	}
	type executionLogsResponse struct {
		Logs []db.ExecutionLog `json:"logs"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(executionLogsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	var workflowUUID *string
	if params.WorkflowUUID != "" {
		workflowUUID = &params.WorkflowUUID
	}
	var status *string
	if params.Status != "" {
		status = &params.Status
	}
	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}

	logs, err := cc.App.Queries.ListExecutionLogs(c.Request().Context(), db.ListExecutionLogsParams{
		UserID:       userID,
		WorkflowUUID: workflowUUID,
		Status:       status,
		Limit:        params.Limit,
	})
	if err != nil {
		logger.Error("Failed to list execution logs", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, executionLogsResponse{Logs: logs})
}
