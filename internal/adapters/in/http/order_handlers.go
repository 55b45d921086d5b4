package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := parseOptionalUUID(req.CustomerID)
	if err != nil {
		return jsonError(ctx, err)
	}
	waiterID, err := parseOptionalUUID(req.WaiterID)
	if err != nil {
		return jsonError(ctx, err)
	}

	lines := make([]commands.LineSpec, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, parseErr := kernel.UUIDFromString(line.ProductID)
		if parseErr != nil {
			return jsonError(ctx, parseErr)
		}
		lines = append(lines, commands.LineSpec{
			ProductID: productID,
			Quantity:  line.Quantity,
			Extras:    line.Extras,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		s.deps, orderID,
		customerID, req.CustomerName, waiterID,
		req.TableNumber, lines, req.SpecialInstructions,
	)
	if err != nil {
		return jsonError(ctx, err)
	}

	if err := s.registry.ForOrder(orderID).Execute(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreatedResponse{ID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:orderID.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	var response OrderResponse
	err = s.runInTx(ctx.Request().Context(), func(ctx context.Context, uow commands.UoW) error {
		o, getErr := uow.OrderRepository().Get(ctx, orderID)
		if getErr != nil {
			return getErr
		}
		state, queryErr := s.deps.Lifecycle.Query(o)
		if queryErr != nil {
			return queryErr
		}
		response = orderToResponse(o, state)
		return nil
	})
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// AddItem handles POST /api/v1/orders/:orderID/items.
func (s *Server) AddItem(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	var req LineRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return jsonError(ctx, err)
	}

	cmd, err := commands.NewAddItemCommand(s.deps, orderID, productID, req.Quantity, req.Extras)
	if err != nil {
		return jsonError(ctx, err)
	}

	if err := s.registry.ForOrder(orderID).Execute(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/v1/orders/:orderID/items/:lineID.
func (s *Server) RemoveItem(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}
	lineID, err := kernel.UUIDFromString(ctx.Param("lineID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	cmd, err := commands.NewRemoveItemCommand(s.deps, orderID, lineID)
	if err != nil {
		return jsonError(ctx, err)
	}

	if err := s.registry.ForOrder(orderID).Execute(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateItemQuantity handles PATCH /api/v1/orders/:orderID/items/:lineID.
func (s *Server) UpdateItemQuantity(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}
	lineID, err := kernel.UUIDFromString(ctx.Param("lineID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	var req UpdateQuantityRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewUpdateItemQuantityCommand(s.deps, orderID, lineID, req.Quantity)
	if err != nil {
		return jsonError(ctx, err)
	}

	if err := s.registry.ForOrder(orderID).Execute(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ChangeStatus handles POST /api/v1/orders/:orderID/status.
func (s *Server) ChangeStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	var req ChangeStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return jsonError(ctx, err)
	}
	changedBy, err := parseOptionalUUID(req.ChangedBy)
	if err != nil {
		return jsonError(ctx, err)
	}

	cmd, err := commands.NewChangeStatusCommand(s.deps, orderID, target, changedBy, req.Reason)
	if err != nil {
		return jsonError(ctx, err)
	}

	if err := s.registry.ForOrder(orderID).Execute(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	changedBy, err := parseOptionalUUID(req.ChangedBy)
	if err != nil {
		return jsonError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(s.deps, orderID, req.Reason, changedBy)
	if err != nil {
		return jsonError(ctx, err)
	}

	if err := s.registry.ForOrder(orderID).Execute(ctx.Request().Context(), cmd); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UndoLast handles POST /api/v1/orders/:orderID/undo. A false Applied means
// there was nothing to undo; it is not an error.
func (s *Server) UndoLast(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	applied, err := s.registry.ForOrder(orderID).Undo(ctx.Request().Context())
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AppliedResponse{Applied: applied})
}

// RedoLast handles POST /api/v1/orders/:orderID/redo.
func (s *Server) RedoLast(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	applied, err := s.registry.ForOrder(orderID).Redo(ctx.Request().Context())
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AppliedResponse{Applied: applied})
}

// GetCommandHistory handles GET /api/v1/orders/:orderID/commands.
func (s *Server) GetCommandHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	entries := s.registry.ForOrder(orderID).History()
	response := make([]CommandHistoryResponse, len(entries))
	for i, entry := range entries {
		response[i] = CommandHistoryResponse{
			Description: entry.Description,
			ExecutedAt:  entry.ExecutedAt,
			UndoneAt:    entry.UndoneAt,
			CanUndo:     entry.CanUndo,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderHistory handles GET /api/v1/orders/:orderID/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return jsonError(ctx, err)
	}

	records, err := s.orderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return jsonError(ctx, err)
	}

	response := make([]HistoryRecordResponse, len(records))
	for i, record := range records {
		var changedBy *string
		if record.ChangedBy != nil {
			id := record.ChangedBy.String()
			changedBy = &id
		}
		response[i] = HistoryRecordResponse{
			ID:             record.ID.String(),
			Action:         string(record.Action),
			PreviousStatus: record.PreviousStatus,
			NewStatus:      record.NewStatus,
			ChangedBy:      changedBy,
			Reason:         record.Reason,
			OccurredAt:     record.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	query := queries.NewGetPendingOrdersQuery()

	rows, err := s.pendingOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return jsonError(ctx, err)
	}

	response := make([]PendingOrderResponse, len(rows))
	for i, row := range rows {
		response[i] = PendingOrderResponse{
			ID:           row.ID.String(),
			CustomerName: row.CustomerName,
			TableNumber:  row.TableNumber,
			TotalPrice:   row.TotalPrice.String(),
			ItemsCount:   row.ItemsCount,
			CreatedAt:    row.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
