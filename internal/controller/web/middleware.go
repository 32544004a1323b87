package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
)

const jsonKey = "json"

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "login required")

func newRequestID() string {
	return uuid.NewString()
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if acc := currentAccount(c); acc != nil {
				fields = append(fields, zap.Int64("person_id", acc.ID))
			}
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				logger.Warn("Request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("Request", fields...)
			return nil
		},
	})
}

// jsonOnly marks routes that always answer in JSON, whatever the Accept header says.
func jsonOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(jsonKey, true)
		return next(c)
	}
}

func wantsJSON(c echo.Context) bool {
	if forced, _ := c.Get(jsonKey).(bool); forced {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// requireLogin sends anonymous page requests to the login form and rejects anonymous
// JSON requests with 401.
func requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentAccount(c) != nil {
			return next(c)
		}
		if wantsJSON(c) {
			return errUnauthorized
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}
}

// requireType lets through accounts of one of the given types.
func requireType(types ...model.PersonType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc := currentAccount(c)
			if acc == nil {
				return requireLogin(next)(c)
			}
			if acc.is(types...) {
				return next(c)
			}
			return model.ErrForbidden
		}
	}
}
