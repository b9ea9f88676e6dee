// Package handler contains the HTTP handlers of all four services.  Every
// response uses the same envelope: a success flag, a human-readable message
// and, for successes, the data payload (plus a count for lists).  Failures
// carry the machine-checkable error object and never leak internals.
package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/model"
)

func errInvalidBody() error { return model.ErrInvalidRequest("invalid request body") }

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, echo.Map{"success": true, "message": message, "data": data})
}

func respondList(c echo.Context, message string, data any, count int) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message, "data": data, "count": count})
}

// respondErr maps an error to its HTTP status.  Anything that is not a
// *model.Error is logged and reported as an opaque 500.
func respondErr(c echo.Context, err error) error {
	if e, ok := model.AsError(err); ok {
		return c.JSON(e.HTTPStatus(), echo.Map{"success": false, "message": e.Message, "error": e})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "Internal server error",
		"error":   &model.Error{Code: "INTERNAL", Message: "Internal server error"},
	})
}
