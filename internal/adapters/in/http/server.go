// Package http exposes the operational surface of the coordinator: health,
// read-only order and courier listings, statistics, and an administrative
// force-cancel. Everything routes through the same command and query
// handlers the conversation drivers use.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error body returned by every failing endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CancelRequest is the body of the force-cancel endpoint.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Server wires the HTTP routes to the application handlers.
type Server struct {
	forceCancelHandler *commands.CancelOrderCommandHandler

	pendingOrdersHandler queries.ListPendingOrdersQueryHandler
	statisticsHandler    queries.GetStatisticsQueryHandler
	couriersHandler      queries.ListCouriersQueryHandler
}

// NewServer creates the HTTP server over the given handlers.
func NewServer(
	forceCancelHandler *commands.CancelOrderCommandHandler,
	pendingOrdersHandler queries.ListPendingOrdersQueryHandler,
	statisticsHandler queries.GetStatisticsQueryHandler,
	couriersHandler queries.ListCouriersQueryHandler,
) *Server {
	return &Server{
		forceCancelHandler:   forceCancelHandler,
		pendingOrdersHandler: pendingOrdersHandler,
		statisticsHandler:    statisticsHandler,
		couriersHandler:      couriersHandler,
	}
}

// Register attaches the routes to the echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/orders/pending", s.GetPendingOrders)
	e.GET("/api/v1/couriers", s.GetCouriers)
	e.GET("/api/v1/stats", s.GetStatistics)
	e.POST("/api/v1/orders/:id/cancel", s.CancelOrder)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	query := queries.NewListPendingOrdersQuery(0)

	orders, err := s.pendingOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve pending orders",
		})
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.couriersHandler.Handle(ctx.Request().Context(), queries.NewListCouriersQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	return ctx.JSON(http.StatusOK, couriers)
}

// GetStatistics handles GET /api/v1/stats.
func (s *Server) GetStatistics(ctx echo.Context) error {
	stats, err := s.statisticsHandler.Handle(ctx.Request().Context(), queries.NewGetStatisticsQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to compute statistics",
		})
	}

	return ctx.JSON(http.StatusOK, stats)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - an administrative
// force cancel that bypasses the ownership check, same as the admin bot
// surface.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var body CancelRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if body.Reason == "" {
		body.Reason = "cancelled by operator"
	}

	cmd, err := commands.NewForceCancelOrderCommand(orderID, body.Reason)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid cancel request: " + err.Error(),
		})
	}

	if _, err := s.forceCancelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return ctx.JSON(cancelStatus(err), ErrorResponse{
			Code:    cancelStatus(err),
			Message: "Failed to cancel order: " + err.Error(),
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

func cancelStatus(err error) int {
	var notFoundErr *errs.ObjectNotFoundError
	switch {
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.Is(err, order.ErrAlreadyTerminal), errors.Is(err, order.ErrNotAvailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
