package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RangerAkash1/workflow-builder/backend/internal/chat"
	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/ratelimit"
	mid "github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/internal/storage"
	"github.com/RangerAkash1/workflow-builder/backend/internal/util"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai/gemini"
	oai "github.com/RangerAkash1/workflow-builder/backend/pkg/ai/ollama"
	gai "github.com/RangerAkash1/workflow-builder/backend/pkg/ai/openai"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/search"
	vecpgx "github.com/RangerAkash1/workflow-builder/backend/pkg/vector/pgx"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	if err := db.Migrate(util.GetEnvString("MIGRATIONS_URL", "file://migrations"), databaseURL); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.Fatal("Failed to parse database config", "err", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	conn, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	queries := db.New(conn)
	embedDim := int(util.GetEnvNumeric("EMBED_DIM", 1536))
	maxParallel := int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 8))

	providers := ai.NewRegistry()
	var embedder ai.Embedder

	if openaiClient := gai.NewClient(gai.NewClientParams{
		APIKey:                util.GetEnv("OPENAI_API_KEY"),
		BaseURL:               util.GetEnv("OPENAI_BASE_URL"),
		ChatModel:             util.GetEnv("OPENAI_CHAT_MODEL"),
		EmbeddingModel:        util.GetEnv("OPENAI_EMBED_MODEL"),
		EmbeddingDim:          embedDim,
		MaxConcurrentRequests: maxParallel,
	}); openaiClient != nil {
		providers.Register("openai", openaiClient)
		embedder = openaiClient
	}

	if geminiClient := gemini.NewClient(gemini.NewClientParams{
		APIKey: util.GetEnv("GEMINI_API_KEY"),
		Model:  util.GetEnv("GEMINI_MODEL"),
	}); geminiClient != nil {
		providers.Register("gemini", geminiClient)
	}

	if embedder == nil && util.GetEnv("OLLAMA_URL") != "" {
		ollamaClient, err := oai.NewClient(oai.NewClientParams{
			BaseURL:               util.GetEnv("OLLAMA_URL"),
			EmbeddingModel:        util.GetEnv("OLLAMA_EMBED_MODEL"),
			EmbeddingDim:          embedDim,
			MaxConcurrentRequests: maxParallel,
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		embedder = ollamaClient
	}
	if providers.DefaultID() == "" {
		logger.Warn("No LLM provider configured, chat runs will fail")
	}

	vectors, err := vecpgx.NewStore(vecpgx.NewStoreParams{Conn: conn, Dim: embedDim})
	if err != nil {
		logger.Fatal("Failed to create vector store", "err", err)
	}

	limiter := ratelimit.NewLimiter(time.Minute)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Sweep()
			}
		}
	}()

	runner := &chat.Runner{
		Providers: providers,
		Embedder:  embedder,
		Store:     vectors,
		Logs:      &dbExecutionSink{queries: queries},
		Timeout:   time.Duration(util.GetEnvNumeric("CHAT_TIMEOUT", 30)) * time.Second,
	}
	if searchClient := search.NewClient(search.NewClientParams{
		APIKey: util.GetEnv("SERPAPI_KEY"),
	}); searchClient != nil {
		runner.Search = searchClient
	}

	app := &mid.App{
		DBConn:    conn,
		Queries:   queries,
		Providers: providers,
		Embedder:  embedder,
		Vectors:   vectors,
		Search:    runner.Search,
		S3:        storage.NewS3Client(ctx),
		Runner:    runner,
		Limiter:   limiter,
		JWTSecret: util.GetEnvString("JWT_SECRET", "change-me"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(mid.AuthMiddleware)
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("32M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8000")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
