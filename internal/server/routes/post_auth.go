package routes

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/auth"
	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// RegisterHandler creates a user account and returns a signed token.
func RegisterHandler(c echo.Context) error {
	type registerParams struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type registerResponse struct {
		AccessToken string  `json:"access_token"`
		TokenType   string  `json:"token_type"`
		User        db.User `json:"user"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(registerParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	if _, err := cc.App.Queries.GetUserByUsername(ctx, params.Username); err == nil {
		return c.JSON(http.StatusConflict, errorResponse{Detail: "Username already taken"})
	}
	if _, err := cc.App.Queries.GetUserByEmail(ctx, params.Email); err == nil {
		return c.JSON(http.StatusConflict, errorResponse{Detail: "Email already registered"})
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		logger.Error("Failed to hash password", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	user, err := cc.App.Queries.CreateUser(ctx, db.CreateUserParams{
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: hash,
	})
	if err != nil {
		logger.Error("Failed to create user", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	token, err := auth.NewToken(cc.App.JWTSecret, user.UUID, user.Email)
	if err != nil {
		logger.Error("Failed to issue token", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusCreated, registerResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// LoginHandler verifies credentials and returns a signed token.
func LoginHandler(c echo.Context) error {
	type loginParams struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type loginResponse struct {
		AccessToken string  `json:"access_token"`
		TokenType   string  `json:"token_type"`
		User        db.User `json:"user"`
	}
	type errorResponse struct {
		Detail string `json:"detail"`
	}

	params := new(loginParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	user, err := cc.App.Queries.GetUserByUsername(c.Request().Context(), params.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Incorrect username or password"})
		}
		logger.Error("Failed to look up user", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, params.Password) {
		return c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Incorrect username or password"})
	}

	token, err := auth.NewToken(cc.App.JWTSecret, user.UUID, user.Email)
	if err != nil {
		logger.Error("Failed to issue token", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// MeHandler returns the authenticated user's profile.
func MeHandler(c echo.Context) error {
	type meResponse struct {
		UUID     string `json:"uuid"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	user := c.(*middleware.AppContext).User
	return c.JSON(http.StatusOK, meResponse{
		UUID:     user.UUID,
		Username: user.Username,
		Email:    user.Email,
	})
}
