package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/repository"
	"github.com/octobees/portfolio-importer/api/internal/service"
)

// ProfileService reads and edits imported profiles.
type ProfileService interface {
	GetUserDetails(ctx context.Context, username string) (*dto.UserDetails, error)
	UpdateUser(ctx context.Context, username string, payload map[string]any) (*dto.UserDetails, error)
	DeleteUser(ctx context.Context, username string) error
	SearchUsers(ctx context.Context, query string, limit int) (*dto.SearchResponse, error)
}

// UserHandler exposes profile endpoints.
type UserHandler struct {
	service ProfileService
	logger  *slog.Logger
}

// NewUserHandler creates a new handler instance.
func NewUserHandler(service ProfileService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{service: service, logger: logger}
}

// Show handles GET /users/:username requests.
func (h *UserHandler) Show(c echo.Context) error {
	details, err := h.service.GetUserDetails(c.Request().Context(), c.Param("username"))
	if err != nil {
		return h.fail(c, err, "failed to load user")
	}
	return Success(c, http.StatusOK, "user retrieved", details)
}

// Update handles PATCH /users/:username requests.
func (h *UserHandler) Update(c echo.Context) error {
	// body only, the username path param is not a profile field
	var payload map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	details, err := h.service.UpdateUser(c.Request().Context(), c.Param("username"), payload)
	if err != nil {
		return h.fail(c, err, "failed to update user")
	}
	return Success(c, http.StatusOK, "User updated successfully", details)
}

// Delete handles DELETE /users/:username requests.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("username")); err != nil {
		return h.fail(c, err, "failed to delete user")
	}
	return Success(c, http.StatusOK, "User deleted successfully", nil)
}

// Search handles GET /users/search requests.
func (h *UserHandler) Search(c echo.Context) error {
	limit := 0
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.service.SearchUsers(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return h.fail(c, err, "failed to search users")
	}
	return Success(c, http.StatusOK, "users retrieved", result)
}

func (h *UserHandler) fail(c echo.Context, err error, fallback string) error {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return Error(c, http.StatusNotFound, "User not found")
	case errors.As(err, &vErr):
		return ValidationFailed(c, vErr.Fields)
	default:
		h.logger.ErrorContext(c.Request().Context(), fallback, "username", c.Param("username"), "error", err)
		return Error(c, http.StatusInternalServerError, fallback)
	}
}
