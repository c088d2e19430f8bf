package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/portfolio-importer/api/internal/config"
	"github.com/octobees/portfolio-importer/api/internal/handler"
	middlewarepkg "github.com/octobees/portfolio-importer/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Portfolio *handler.PortfolioHandler
	Users     *handler.UserHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST(middlewarepkg.ImportRoute, handlers.Portfolio.Import, middlewarepkg.ImportRateLimiter(cfg.RateLimitImport))

	// search is registered before :username so the static segment wins
	users := e.Group("/users")
	users.GET("/search", handlers.Users.Search)
	users.GET("/:username", handlers.Users.Show)
	users.PATCH("/:username", handlers.Users.Update)
	users.DELETE("/:username", handlers.Users.Delete)
}
