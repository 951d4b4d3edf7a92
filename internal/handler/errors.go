package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// writeError maps a store or service error onto the HTTP taxonomy.
// Unknown errors are logged and reported as 500 without their text.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrInvalidRequest):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrCapacityExceeded):
		status, msg = http.StatusBadRequest, "Not enough seats available"
	case errors.Is(err, repository.ErrUsernameExists):
		status, msg = http.StatusConflict, "username already exists"
	case errors.Is(err, repository.ErrConflict):
		status, msg = http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrUnavailable):
		c.Response().Header().Set("Retry-After", "1")
		status, msg = http.StatusServiceUnavailable, service.ErrUnavailable.Error()
	default:
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
