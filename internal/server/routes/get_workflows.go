package routes

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// GetWorkflowsHandler lists saved workflows, newest update first.
// Authenticated callers see only their own workflows.
func GetWorkflowsHandler(c echo.Context) error {
	type workflowsResponse struct {
		Workflows []db.WorkflowSummary `json:"workflows"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	cc := c.(*middleware.AppContext)
	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}

	workflows, err := cc.App.Queries.ListWorkflows(c.Request().Context(), userID)
	if err != nil {
		logger.Error("Failed to list workflows", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, workflowsResponse{Workflows: workflows})
}

// GetWorkflowHandler fetches one workflow with its full node/edge payload.
func GetWorkflowHandler(c echo.Context) error {
	type getWorkflowParams struct {
		UUID string `param:"uuid" validate:"required"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(getWorkflowParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	found, err := cc.App.Queries.GetWorkflow(c.Request().Context(), params.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorResponse{Detail: "Workflow not found"})
		}
		logger.Error("Failed to get workflow", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, found)
}
