package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/chat"
	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/ratelimit"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/ai"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/vector"
)

// AppUser is the authenticated caller, nil for anonymous requests.
type AppUser struct {
	ID       int64
	UUID     string
	Username string
	Email    string
}

// App bundles the long-lived dependencies handlers need. It is built once
// at startup and shared across requests.
type App struct {
	DBConn    *pgxpool.Pool
	Queries   *db.Queries
	Providers *ai.Registry
	Embedder  ai.Embedder
	Vectors   vector.Store
	Search    chat.SnippetFetcher
	S3        *s3.Client
	Runner    *chat.Runner
	Limiter   *ratelimit.Limiter
	JWTSecret string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
