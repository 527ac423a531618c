package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

func sendSuccess(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func sendError(c echo.Context, status int, message, details string) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Details: details})
}

// ErrorHandler folds echo-level errors (routing, middleware) into the same
// envelope the handlers emit. Install as e.HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	_ = sendError(c, code, message, "")
}
