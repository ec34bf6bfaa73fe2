package po

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"protrack.GO/api"
	repo "protrack.GO/model/repository/procurement"
	searchService "protrack.GO/service/search"
	uploadService "protrack.GO/service/upload"
)

func init() {
	api.RegisterModule(RegisterPORoutes)
}

func RegisterPORoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/po")

	poRepo, err := repo.NewPORepository(db)
	if err != nil {
		panic(err)
	}

	// POST /api/po/upload/parse – preview a PO spreadsheet, nothing persisted
	g.POST("/upload/parse", func(c echo.Context) error {
		data, err := api.ReadUpload(c)
		if err != nil || len(data) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "spreadsheet file is required"})
		}
		res, err := uploadService.ParsePOSheet(data)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	// POST /api/po/upload/commit – reconcile and bulk-insert validated rows
	g.POST("/upload/commit", func(c echo.Context) error {
		start := time.Now()

		var body struct {
			Rows []uploadService.PORowInput `json:"rows"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Rows) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows array is required and must not be empty"})
		}

		res, err := uploadService.CommitPORows(poRepo, body.Rows)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return api.WriteError(c, err)
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, res)
	})

	// POST /api/po – manual single-line insert, 409 on existing key
	g.POST("", func(c echo.Context) error {
		var in uploadService.PORowInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		item, err := uploadService.InsertPORow(poRepo, in)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, item)
	})

	// GET /api/po/numbers|suppliers|modes – distinct lists for form dropdowns
	g.GET("/numbers", func(c echo.Context) error {
		list, err := poRepo.DistinctPONumbers()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})
	g.GET("/suppliers", func(c echo.Context) error {
		list, err := poRepo.DistinctSuppliers()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})
	g.GET("/modes", func(c echo.Context) error {
		list, err := poRepo.DistinctModes()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	// GET /api/po/search?q= – Elasticsearch when configured, SQL LIKE otherwise
	g.GET("/search", func(c echo.Context) error {
		q := c.QueryParam("q")
		if q == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "q parameter is required"})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		es := searchService.GetService()
		if es.Available() {
			items, err := es.Search(c.Request().Context(), poRepo, q, limit)
			if err == nil {
				return c.JSON(http.StatusOK, echo.Map{"items": items, "source": "elasticsearch"})
			}
			// fall through to SQL on ES failure
		}
		items, err := poRepo.SearchLineItems(q, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items, "source": "sql"})
	})
}
