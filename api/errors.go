package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"protrack.GO/service/upload"
)

// WriteError maps service-layer errors onto HTTP responses.
func WriteError(c echo.Context, err error) error {
	var fatal *upload.BatchFatalError
	if errors.As(err, &fatal) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fatal.Error(),
			"row":   fatal.Row,
			"field": fatal.Field,
		})
	}
	var conflict *upload.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
	}
	var infra *upload.InfrastructureError
	if errors.As(err, &infra) {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": infra.Error(),
			"hint":  infra.Hint,
		})
	}
	var store *upload.StoreError
	if errors.As(err, &store) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": store.Error()})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// ReadUpload returns the spreadsheet bytes from a multipart "file" part, or
// the raw request body when the request is not multipart.
func ReadUpload(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request().Body)
}
