package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
)

// statusOf maps an error kind to its HTTP status and the message shown to the client.
func statusOf(err error) (int, interface{}) {
	var (
		he   *echo.HTTPError
		vErr *model.ValidationError
	)
	switch {
	case errors.As(err, &he):
		if inner, ok := he.Internal.(*echo.HTTPError); ok {
			he = inner
		}
		return he.Code, he.Message
	case errors.As(err, &vErr):
		if len(vErr.Fields) > 0 {
			return http.StatusBadRequest, vErr.FieldMap()
		}
		return http.StatusBadRequest, vErr.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, model.ErrNotFound.Error()
	case errors.Is(err, model.ErrAlreadyEnrolled):
		return http.StatusConflict, model.ErrAlreadyEnrolled.Error()
	case errors.Is(err, model.ErrCapacityExceeded):
		return http.StatusConflict, model.ErrCapacityExceeded.Error()
	case errors.Is(err, model.ErrNotEnrolled):
		return http.StatusConflict, model.ErrNotEnrolled.Error()
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, model.ErrConflict.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, model.ErrForbidden.Error()
	case errors.Is(err, model.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

type errorPage struct {
	Code    int
	Status  string
	Message string
	Fields  map[string]string
}

// newHTTPErrorHandler returns an echo.HTTPErrorHandler that renders model errors as JSON or
// as the error page, depending on what the client asked for.
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusOf(err)
		if code >= http.StatusInternalServerError {
			logger.Error("Request error",
				zap.String("request_id", requestID(c)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", code),
				zap.Error(err))
		}
		if c.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}

		var rErr error
		switch {
		case c.Request().Method == http.MethodHead:
			rErr = c.NoContent(code)
		case wantsJSON(c):
			if m, ok := message.(string); ok {
				rErr = c.JSON(code, echo.Map{"error": m})
			} else {
				rErr = c.JSON(code, message)
			}
		default:
			page := errorPage{Code: code, Status: http.StatusText(code)}
			switch m := message.(type) {
			case string:
				page.Message = m
			case map[string]string:
				page.Message = "Some fields are invalid."
				page.Fields = m
			default:
				page.Message = http.StatusText(code)
			}
			rErr = c.Render(code, "error", newPage(c, page.Status, page))
		}
		if rErr != nil {
			logger.Error("Failed to write error response", zap.Error(rErr))
		}
	}
}
