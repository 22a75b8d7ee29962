package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/workflow"
)

// ValidateWorkflowHandler checks a workflow definition against the
// topology rules without executing or persisting it.
func ValidateWorkflowHandler(c echo.Context) error {
	type validateResponse struct {
		Status string `json:"status"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	def := new(workflow.Definition)
	if err := c.Bind(def); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}

	if _, err := workflow.ValidateTopology(*def); err != nil {
		var topoErr *workflow.TopologyError
		if errors.As(err, &topoErr) {
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: topoErr.Reason})
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	}

	return c.JSON(http.StatusOK, validateResponse{Status: "valid"})
}
