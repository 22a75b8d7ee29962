package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// GetDocumentsHandler lists uploaded document metadata, optionally
// filtered by collection.
func GetDocumentsHandler(c echo.Context) error {
	type documentsParams struct {
		Collection string `query:"collection"`
	}
	type documentsResponse struct {
		Documents []db.Document `json:"documents"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(documentsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	var collection *string
	if params.Collection != "" {
		collection = &params.Collection
	}
	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}

	documents, err := cc.App.Queries.ListDocuments(c.Request().Context(), db.ListDocumentsParams{
		CollectionName: collection,
		UserID:         userID,
	})
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, documentsResponse{Documents: documents})
}
