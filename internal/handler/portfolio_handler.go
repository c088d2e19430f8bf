package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/service"
)

// PortfolioImporter runs a full portfolio import for one user.
type PortfolioImporter interface {
	ImportPortfolio(ctx context.Context, username, pageURL string) (*dto.ImportResponse, error)
}

// PortfolioHandler exposes the portfolio import endpoint.
type PortfolioHandler struct {
	importer PortfolioImporter
	logger   *slog.Logger
}

// NewPortfolioHandler creates a new handler instance.
func NewPortfolioHandler(importer PortfolioImporter, logger *slog.Logger) *PortfolioHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioHandler{importer: importer, logger: logger}
}

// Import handles POST /portfolio/import/:username requests.
func (h *PortfolioHandler) Import(c echo.Context) error {
	var req dto.ImportRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	resp, err := h.importer.ImportPortfolio(c.Request().Context(), c.Param("username"), req.URL)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return ValidationFailed(c, vErr.Fields)
		}
		h.logger.ErrorContext(c.Request().Context(), "portfolio import failed", "username", c.Param("username"), "error", err)
		return Error(c, http.StatusInternalServerError, err.Error())
	}

	return Success(c, http.StatusOK, "Portfolio imported successfully", resp)
}
