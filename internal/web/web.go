package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wtfsayo/beerscape/internal/stats"
)

// New builds the read-only status server. It only ever reads snapshots, so
// it can run next to the engine without touching its state.
func New(s *stats.Stats) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.Snapshot())
	})

	return e
}
