package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler returns an echo error handler emitting the standard
// {success: false, message} envelope. Taxonomy errors map to their status
// codes; anything unrecognized becomes a 500 with no internal detail leaked.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		switch {
		case errors.Is(err, ErrInvalidArgument):
			status, message = http.StatusBadRequest, err.Error()
		case errors.Is(err, ErrPolicyViolation):
			status, message = http.StatusBadRequest, err.Error()
		case errors.Is(err, ErrUnauthorized):
			status, message = http.StatusUnauthorized, err.Error()
		case errors.Is(err, ErrNotFound):
			status, message = http.StatusNotFound, err.Error()
		case errors.Is(err, ErrConflict):
			status, message = http.StatusConflict, err.Error()
		default:
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
				message = fmt.Sprintf("%v", he.Message)
			} else {
				logger.Error("unhandled request error",
					zap.String("path", c.Request().URL.Path),
					zap.Error(err))
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"success": false, "message": message})
	}
}
