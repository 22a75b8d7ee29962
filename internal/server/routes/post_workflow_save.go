package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/internal/workflow"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// SaveWorkflowHandler validates and persists a new workflow definition.
func SaveWorkflowHandler(c echo.Context) error {
	type saveWorkflowParams struct {
		Name        string          `json:"name" validate:"required"`
		Description string          `json:"description"`
		Nodes       []workflow.Node `json:"nodes" validate:"required"`
		Edges       []workflow.Edge `json:"edges"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(saveWorkflowParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}

	def := workflow.Definition{Nodes: params.Nodes, Edges: params.Edges}
	if _, err := workflow.ValidateTopology(def); err != nil {
		var topoErr *workflow.TopologyError
		if errors.As(err, &topoErr) {
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: topoErr.Reason})
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	}

	nodes, err := json.Marshal(params.Nodes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid nodes payload"})
	}
	edges, err := json.Marshal(params.Edges)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid edges payload"})
	}

	cc := c.(*middleware.AppContext)
	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}

	saved, err := cc.App.Queries.SaveWorkflow(c.Request().Context(), db.SaveWorkflowParams{
		UserID:      userID,
		Name:        params.Name,
		Description: params.Description,
		Nodes:       nodes,
		Edges:       edges,
	})
	if err != nil {
		logger.Error("Failed to save workflow", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, saved)
}
