package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/core/domain/services"
)

// RouteOrder handles POST /api/v1/orders/:orderID/route. Routing is
// idempotent for lines already queued; unrouted lines are reported, not
// fatal.
func (s *Server) RouteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	var result services.RouteResult
	err = s.runInTx(ctx.Request().Context(), func(ctx context.Context, uow commands.UoW) error {
		o, getErr := uow.OrderRepository().GetForUpdate(ctx, orderID)
		if getErr != nil {
			return getErr
		}
		routed, routeErr := s.router.Route(ctx, uow, o)
		if routeErr != nil {
			return routeErr
		}
		result = routed
		return nil
	})
	if err != nil {
		return jsonError(ctx, err)
	}

	response := RouteResponse{
		Assignments: make(map[string]StationAssignmentResponse, len(result.Assignments)),
	}
	for name, assignment := range result.Assignments {
		items := make([]RoutedItemResponse, len(assignment.Items))
		for i, item := range assignment.Items {
			items[i] = RoutedItemResponse{
				ProductName:     item.ProductName,
				Quantity:        item.Quantity,
				Priority:        item.Priority,
				PreparationTime: item.PreparationTime,
			}
		}
		response.Assignments[name] = StationAssignmentResponse{
			StationType: string(assignment.StationType),
			Items:       items,
		}
	}
	for _, unrouted := range result.Unrouted {
		response.Unrouted = append(response.Unrouted, UnroutedItemResponse{
			ProductName: unrouted.ProductName,
			StationType: string(unrouted.StationType),
			Reason:      unrouted.Err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// CompleteItem handles POST /api/v1/stations/:stationType/complete.
func (s *Server) CompleteItem(ctx echo.Context) error {
	stationType := station.Type(ctx.Param("stationType"))
	if err := stationType.Validate(); err != nil {
		return jsonError(ctx, err)
	}

	var req CompleteItemRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return jsonError(ctx, err)
	}

	err = s.runInTx(ctx.Request().Context(), func(ctx context.Context, uow commands.UoW) error {
		return s.router.CompleteItem(ctx, uow, stationType, orderID)
	})
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetStationStatus handles GET /api/v1/stations/status.
func (s *Server) GetStationStatus(ctx echo.Context) error {
	query := queries.NewGetStationStatusQuery()

	rows, err := s.stationStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return jsonError(ctx, err)
	}

	response := make([]StationStatusResponse, len(rows))
	for i, row := range rows {
		response[i] = StationStatusResponse{
			ID:                    row.ID.String(),
			Name:                  row.Name,
			StationType:           string(row.StationType),
			IsActive:              row.IsActive,
			PendingOrders:         row.PendingOrders,
			CompletedToday:        row.CompletedToday,
			AvgPreparationMinutes: row.AvgPreparationMinutes,
			CapacityStatus:        row.CapacityStatus,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetSnapshots handles GET /api/v1/orders/:orderID/snapshots.
func (s *Server) GetSnapshots(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}

	summaries, err := s.snapshots.History(ctx.Request().Context(), orderID)
	if err != nil {
		return jsonError(ctx, err)
	}

	response := make([]SnapshotResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = SnapshotResponse{
			Tag:        summary.Tag,
			Status:     summary.Status.String(),
			TotalPrice: kernel.MustPriceFromCents(summary.TotalCents).String(),
			ItemsCount: summary.ItemsCount,
			TakenAt:    summary.TakenAt,
			Valid:      summary.Valid,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RestoreSnapshot handles POST /api/v1/orders/:orderID/snapshots/:tag/restore.
// It rolls the order back to the tagged snapshot and persists the result.
func (s *Server) RestoreSnapshot(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return jsonError(ctx, err)
	}
	tag := ctx.Param("tag")

	var response OrderResponse
	err = s.runInTx(ctx.Request().Context(), func(ctx context.Context, uow commands.UoW) error {
		o, getErr := uow.OrderRepository().GetForUpdate(ctx, orderID)
		if getErr != nil {
			return getErr
		}

		memento, restoreErr := s.snapshots.Restore(ctx, orderID, tag)
		if restoreErr != nil {
			return restoreErr
		}
		if applyErr := o.RestoreFromMemento(memento); applyErr != nil {
			return applyErr
		}

		if updateErr := uow.OrderRepository().Update(ctx, o); updateErr != nil {
			return updateErr
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
