package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

// GetCollectionsHandler lists the knowledge collections available for
// retrieval, so the canvas can offer them as knowledge_base targets.
func GetCollectionsHandler(c echo.Context) error {
	type collectionsResponse struct {
		Collections []vector.CollectionInfo `json:"collections"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	cc := c.(*middleware.AppContext)
	collections, err := cc.App.Vectors.Collections(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list collections", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
	if collections == nil {
		collections = []vector.CollectionInfo{}
	}

	return c.JSON(http.StatusOK, collectionsResponse{Collections: collections})
}
