package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetly/sweetly-server/internal/logging"
	"github.com/sweetly/sweetly-server/internal/service"
	"github.com/sweetly/sweetly-server/internal/transport"
)

// serviceError translates a service sentinel into its HTTP status. Anything
// unrecognized falls through to the 500 path of the error handler.
func serviceError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrBadTransition):
		return echo.NewHTTPError(http.StatusBadRequest, service.Reason(err))
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, service.Reason(err))
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, service.Reason(err))
	default:
		return err
	}
}

func validationFailed(c echo.Context, errs []transport.FieldError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "Validation failed",
		"errors":  errs,
	})
}

// ErrorHandler renders every error as {"message": ...} JSON and hides the
// cause of unanticipated failures behind a generic 500.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he, ok := err.(*echo.HTTPError)
		if !ok {
			logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
			he = echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
		}

		msg := fmt.Sprintf("%v", he.Message)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, echo.Map{"message": msg})
	}
}
