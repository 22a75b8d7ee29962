package routes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/ingest"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/internal/storage"
	"github.com/RangerAkash1/workflow-builder/backend/internal/util"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

type uploadParams struct {
	Collection     string
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
}

// parseUploadParams reads the upload options from the query string. Bind
// only consults query parameters on GET-like methods, so the multipart
// POST has to read them explicitly.
func parseUploadParams(c echo.Context) (uploadParams, error) {
	params := uploadParams{
		Collection:     c.QueryParam("collection"),
		EmbeddingModel: c.QueryParam("embedding_model"),
	}
	if params.Collection == "" {
		params.Collection = "default"
	}
	if raw := c.QueryParam("chunk_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return uploadParams{}, fmt.Errorf("invalid chunk_size %q", raw)
		}
		params.ChunkSize = v
	}
	if raw := c.QueryParam("chunk_overlap"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return uploadParams{}, fmt.Errorf("invalid chunk_overlap %q", raw)
		}
		params.ChunkOverlap = v
	}
	return params, nil
}

// UploadKnowledgeHandler ingests a PDF: extract text, chunk, embed, and
// store the chunks in the requested collection. The raw file is archived
// to S3 when a bucket is configured.
func UploadKnowledgeHandler(c echo.Context) error {
	type uploadResponse struct {
		Collection   string   `json:"collection"`
		Chunks       int      `json:"chunks"`
		IDs          []string `json:"ids"`
		DocumentUUID string   `json:"document_uuid"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params, err := parseUploadParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	if cc.App.Embedder == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "No embedding backend configured"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Missing file upload"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Could not read the uploaded file"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Could not read the uploaded file"})
	}

	text, err := ingest.ExtractPDFText(data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Could not extract text from the uploaded file"})
	}

	chunks := ingest.ChunkText(text, params.ChunkSize, params.ChunkOverlap)
	if len(chunks) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Could not extract text from the uploaded file"})
	}
	for i := range chunks {
		chunks[i] = util.SanitizePostgresText(chunks[i])
	}

	ctx := c.Request().Context()
	embeddings, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) ([][]float32, error) {
		return cc.App.Embedder.EmbedTexts(ctx, chunks, params.EmbeddingModel)
	})
	if err != nil {
		logger.Error("Failed to embed chunks", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Failed to embed document"})
	}

	records := make([]vector.Chunk, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		id, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
		}
		ids[i] = id
		records[i] = vector.Chunk{ID: id, Text: chunk}
	}

	if err := cc.App.Vectors.Upsert(ctx, params.Collection, records, embeddings); err != nil {
		logger.Error("Failed to store chunks", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Failed to store document"})
	}

	var userID *int64
	if cc.User != nil {
		userID = &cc.User.ID
	}
	var embeddingModel *string
	if params.EmbeddingModel != "" {
		embeddingModel = &params.EmbeddingModel
	}

	doc, err := cc.App.Queries.SaveDocument(ctx, db.SaveDocumentParams{
		UserID:         userID,
		Filename:       fileHeader.Filename,
		FileSize:       int64(len(data)),
		CollectionName: params.Collection,
		ChunkCount:     int32(len(chunks)),
		EmbeddingModel: embeddingModel,
	})
	if err != nil {
		logger.Error("Failed to save document metadata", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	if cc.App.S3 != nil {
		key, err := storage.PutFile(ctx, cc.App.S3, "knowledge", fileHeader.Filename, doc.UUID, bytes.NewReader(data))
		if err != nil {
			logger.Warn("Failed to archive upload to S3", "err", err)
		} else {
			logger.Info("Archived upload", "key", key)
		}
	}

	if len(ids) > 5 {
		ids = ids[:5]
	}
	return c.JSON(http.StatusOK, uploadResponse{
		Collection:   params.Collection,
		Chunks:       len(chunks),
		IDs:          ids,
		DocumentUUID: doc.UUID,
	})
}
