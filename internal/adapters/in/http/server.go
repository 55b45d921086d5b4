// Package http is the inbound HTTP adapter. It translates echo requests
// into commands, queries and domain-service calls and maps domain errors to
// status codes; no business rules live here.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	registry   *commands.CommandLogRegistry
	deps       commands.Deps
	uowFactory commands.UoWFactory
	router     *services.Router
	snapshots  ports.SnapshotStore

	pendingOrdersHandler queries.GetPendingOrdersQueryHandler
	stationStatusHandler queries.GetStationStatusQueryHandler
	orderHistoryHandler  queries.GetOrderHistoryQueryHandler
}

// NewServer creates the HTTP server with its command, query and domain
// collaborators.
func NewServer(
	registry *commands.CommandLogRegistry,
	deps commands.Deps,
	uowFactory commands.UoWFactory,
	router *services.Router,
	snapshots ports.SnapshotStore,
	pendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	stationStatusHandler queries.GetStationStatusQueryHandler,
	orderHistoryHandler queries.GetOrderHistoryQueryHandler,
) *Server {
	return &Server{
		registry:             registry,
		deps:                 deps,
		uowFactory:           uowFactory,
		router:               router,
		snapshots:            snapshots,
		pendingOrdersHandler: pendingOrdersHandler,
		stationStatusHandler: stationStatusHandler,
		orderHistoryHandler:  orderHistoryHandler,
	}
}

// RegisterRoutes binds every endpoint onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/pending", s.GetPendingOrders)
	api.GET("/orders/:orderID", s.GetOrder)
	api.POST("/orders/:orderID/items", s.AddItem)
	api.PATCH("/orders/:orderID/items/:lineID", s.UpdateItemQuantity)
	api.DELETE("/orders/:orderID/items/:lineID", s.RemoveItem)
	api.POST("/orders/:orderID/status", s.ChangeStatus)
	api.POST("/orders/:orderID/cancel", s.CancelOrder)
	api.POST("/orders/:orderID/undo", s.UndoLast)
	api.POST("/orders/:orderID/redo", s.RedoLast)
	api.GET("/orders/:orderID/commands", s.GetCommandHistory)
	api.GET("/orders/:orderID/history", s.GetOrderHistory)
	api.GET("/orders/:orderID/snapshots", s.GetSnapshots)
	api.POST("/orders/:orderID/snapshots/:tag/restore", s.RestoreSnapshot)
	api.POST("/orders/:orderID/route", s.RouteOrder)
	api.GET("/stations/status", s.GetStationStatus)
	api.POST("/stations/:stationType/complete", s.CompleteItem)
}

// runInTx runs one read-or-write unit against a fresh transaction. Handlers
// that bypass the command log (routing, completion, snapshot restore) still
// get the same atomicity commands do.
func (s *Server) runInTx(ctx context.Context, op func(context.Context, commands.UoW) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := op(ctx, uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// statusCode maps a domain error to an HTTP status.
func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrStationNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrPreconditionFailed),
		errors.Is(err, errs.ErrNotEditable),
		errors.Is(err, errs.ErrCorruptSnapshot):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(ctx echo.Context, err error) error {
	code := statusCode(err)
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
