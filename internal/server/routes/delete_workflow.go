package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// DeleteWorkflowHandler removes a workflow by uuid.
func DeleteWorkflowHandler(c echo.Context) error {
	type deleteWorkflowParams struct {
		UUID string `param:"uuid" validate:"required"`
	}
	type deleteWorkflowResponse struct {
		Status string `json:"status"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(deleteWorkflowParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	deleted, err := cc.App.Queries.DeleteWorkflow(c.Request().Context(), params.UUID)
	if err != nil {
		logger.Error("Failed to delete workflow", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "Workflow not found"})
	}

	return c.JSON(http.StatusOK, deleteWorkflowResponse{Status: "deleted"})
}
