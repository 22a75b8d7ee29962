package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mid "github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/routes"
)

// Per-route request budgets, per client IP per minute.
const (
	healthLimit      = 100
	validateLimit    = 60
	chatLimit        = 40
	workflowLimit    = 30
	readLimit        = 60
	uploadLimit      = 20
	collectionsLimit = 10
	authLimit        = 30
)

func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}, mid.RateLimit("health", healthLimit))

	// Workflow routes
	e.POST("/workflow/validate", routes.ValidateWorkflowHandler, mid.RateLimit("validate", validateLimit))
	e.POST("/workflow/save", routes.SaveWorkflowHandler, mid.RateLimit("workflow", workflowLimit))
	e.GET("/workflows", routes.GetWorkflowsHandler, mid.RateLimit("read", readLimit))
	e.GET("/workflow/:uuid", routes.GetWorkflowHandler, mid.RateLimit("read", readLimit))
	e.POST("/workflow/:uuid/update", routes.UpdateWorkflowHandler, mid.RateLimit("workflow", workflowLimit))
	e.DELETE("/workflow/:uuid", routes.DeleteWorkflowHandler, mid.RateLimit("workflow", workflowLimit))

	// Chat routes
	e.POST("/chat/run", routes.RunChatHandler, mid.RateLimit("chat", chatLimit))
	e.GET("/chat/history", routes.GetChatHistoryHandler, mid.RateLimit("read", readLimit))
	e.GET("/execution/logs", routes.GetExecutionLogsHandler, mid.RateLimit("read", readLimit))

	// Knowledge routes
	e.POST("/knowledge/upload", routes.UploadKnowledgeHandler, mid.RateLimit("upload", uploadLimit))
	e.GET("/knowledge/collections", routes.GetCollectionsHandler, mid.RateLimit("collections", collectionsLimit))
	e.GET("/documents", routes.GetDocumentsHandler, mid.RateLimit("read", readLimit))
	e.DELETE("/document/:uuid", routes.DeleteDocumentHandler, mid.RateLimit("documents", workflowLimit))

	// Auth routes
	e.POST("/auth/register", routes.RegisterHandler, mid.RateLimit("auth", authLimit))
	e.POST("/auth/login", routes.LoginHandler, mid.RateLimit("auth", authLimit))
	e.GET("/auth/me", routes.MeHandler, mid.RateLimit("read", readLimit), mid.RequireUser)
}
