package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type panicResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery turns a handler panic into a 500 whose body carries the request
// id that the log line is tagged with.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				rid := requestID(c)
				req := c.Request()
				logger.Error().
					Str("request_id", rid).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")

				if c.Response().Committed {
					err = nil
					return
				}
				err = c.JSON(http.StatusInternalServerError, panicResponse{
					Message:   "internal server error",
					RequestID: rid,
				})
			}()
			return next(c)
		}
	}
}
