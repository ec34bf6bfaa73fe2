package iar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"protrack.GO/api"
	repo "protrack.GO/model/repository/procurement"
	uploadService "protrack.GO/service/upload"
)

func init() {
	api.RegisterModule(RegisterIARRoutes)
}

func RegisterIARRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/iar")

	iarRepo, err := repo.NewIARRepository(db)
	if err != nil {
		panic(err)
	}
	poRepo, err := repo.NewPORepository(db)
	if err != nil {
		panic(err)
	}

	// POST /api/iar/upload/parse – preview an inspection spreadsheet
	g.POST("/upload/parse", func(c echo.Context) error {
		data, err := api.ReadUpload(c)
		if err != nil || len(data) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "spreadsheet file is required"})
		}
		res, err := uploadService.ParseIARSheet(data)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	// POST /api/iar/upload/commit – reconcile, backfill manufacturer, insert
	g.POST("/upload/commit", func(c echo.Context) error {
		start := time.Now()

		var body struct {
			Rows []uploadService.IARRowInput `json:"rows"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Rows) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows array is required and must not be empty"})
		}

		res, err := uploadService.CommitIARRows(iarRepo, poRepo, body.Rows)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return api.WriteError(c, err)
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, res)
	})

	// POST /api/iar – manual single-record insert, 409 on existing key
	g.POST("", func(c echo.Context) error {
		var in uploadService.IARRowInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := uploadService.InsertIARRow(iarRepo, poRepo, in)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, rec)
	})
}
