package routes

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/internal/storage"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// DeleteDocumentHandler removes a document's metadata and its archived
// file. Embedded chunks stay in their collection; they carry no document
// reference.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteDocumentParams struct {
		UUID string `param:"uuid" validate:"required"`
	}
	type deleteDocumentResponse struct {
		Status string `json:"status"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(deleteDocumentParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	doc, err := cc.App.Queries.GetDocument(ctx, params.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorResponse{Detail: "Document not found"})
		}
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	deleted, err := cc.App.Queries.DeleteDocument(ctx, params.UUID)
	if err != nil {
		logger.Error("Failed to delete document", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "Document not found"})
	}

	if cc.App.S3 != nil {
		key := storage.ObjectKey("knowledge", doc.Filename, doc.UUID)
		if err := storage.DeleteFile(ctx, cc.App.S3, key); err != nil {
			logger.Warn("Failed to delete archived file", "key", key, "err", err)
		}
	}

	return c.JSON(http.StatusOK, deleteDocumentResponse{Status: "deleted"})
}
