package middleware

import (
	"net/http"

	"myLeadMarket/pkg/logger"

	jsonres "myLeadMarket/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo-level catch-all for errors that escape the
// handlers, including panics surfaced by Recover.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error", "path", c.Path(), err)
	}

	if err := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); err != nil {
		logger.Error("failed to write error response", err)
	}
}
