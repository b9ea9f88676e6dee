// Package router defines how HTTP routes are registered for each service.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ticketloom/booking/internal/handler"
)

// RegisterCommon mounts the health check and Prometheus metrics endpoints
// shared by every service.
func RegisterCommon(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterBooking mounts the booking orchestrator's routes.  The rate
// limiter, when configured, is applied to the whole group.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/bookings", mw...)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.GET("/user/:userId", h.ListByUser)
	g.PUT("/:id/status", h.UpdateStatus)
	g.PATCH("/:id/status", h.UpdateStatus)
}

// RegisterLedger mounts the inventory ledger's routes.  readMW (the response
// cache) applies only to the read endpoints so seat adjustments are never
// served stale.
func RegisterLedger(e *echo.Echo, h *handler.EventHandler, readMW ...echo.MiddlewareFunc) {
	e.POST("/events", h.Create)
	e.GET("/events", h.List, readMW...)
	e.GET("/events/:id", h.Get, readMW...)
	e.PUT("/events/:id", h.Update)
	e.DELETE("/events/:id", h.Delete)
	e.PATCH("/events/:id/seats", h.AdjustSeats)
}

// RegisterPayment mounts the payment gateway's routes.
func RegisterPayment(e *echo.Echo, h *handler.PaymentHandler) {
	e.POST("/payments", h.Charge)
	e.GET("/payments/:id", h.Get)
	e.GET("/payments/:id/status", h.Get)
}

// RegisterNotify mounts the notification sink's routes.
func RegisterNotify(e *echo.Echo, h *handler.NotificationHandler) {
	e.POST("/notifications/send", h.Send)
	e.GET("/notifications/user/:userId", h.ListByUser)
}
