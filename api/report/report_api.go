package report

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"protrack.GO/api"
	reportService "protrack.GO/service/report"
)

func init() {
	api.RegisterModule(RegisterReportRoutes)
}

func RegisterReportRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/report")

	svc, err := reportService.NewService(db)
	if err != nil {
		panic(err)
	}

	// GET /api/report/items?po= – per-line statuses, all POs when po is empty
	g.GET("/items", func(c echo.Context) error {
		items, err := svc.ItemStatuses(c.QueryParam("po"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, items)
	})

	// GET /api/report/po – per-PO rollup, cached
	g.GET("/po", func(c echo.Context) error {
		summary, err := svc.POStatuses()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, summary)
	})

	// GET /api/report/status?po=&item= – point lookup for one line
	g.GET("/status", func(c echo.Context) error {
		po := c.QueryParam("po")
		item := c.QueryParam("item")
		if po == "" || item == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "po and item parameters are required"})
		}
		st, err := svc.StatusFor(c.Request().Context(), po, item)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if st == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "line item not found"})
		}
		return c.JSON(http.StatusOK, st)
	})
}
