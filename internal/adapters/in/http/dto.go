package http

import (
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LineRequest is one requested order line.
type LineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Extras    map[string]bool `json:"extras,omitempty"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerID          *string       `json:"customer_id,omitempty"`
	CustomerName        string        `json:"customer_name"`
	WaiterID            *string       `json:"waiter_id,omitempty"`
	TableNumber         int           `json:"table_number"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`
	Lines               []LineRequest `json:"lines"`
}

// ChangeStatusRequest is the body of POST /orders/{id}/status.
type ChangeStatusRequest struct {
	Target    string  `json:"target"`
	ChangedBy *string `json:"changed_by,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// CancelOrderRequest is the body of POST /orders/{id}/cancel.
type CancelOrderRequest struct {
	Reason    string  `json:"reason,omitempty"`
	ChangedBy *string `json:"changed_by,omitempty"`
}

// UpdateQuantityRequest is the body of PATCH /orders/{id}/items/{lineID}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CompleteItemRequest is the body of POST /stations/{type}/complete.
type CompleteItemRequest struct {
	OrderID string `json:"order_id"`
}

// OrderCreatedResponse carries the identifier of a freshly created order.
type OrderCreatedResponse struct {
	ID string `json:"id"`
}

// LineResponse is one order line in API form.
type LineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Extras      map[string]bool `json:"extras,omitempty"`
	UnitPrice   string          `json:"unit_price"`
	Subtotal    string          `json:"subtotal"`
}

// StateResponse is the lifecycle position of an order.
type StateResponse struct {
	Status     string `json:"status"`
	CanAdvance bool   `json:"can_advance"`
	CanCancel  bool   `json:"can_cancel"`
	CanEdit    bool   `json:"can_edit"`
	Next       string `json:"next,omitempty"`
}

// OrderResponse is the full order view.
type OrderResponse struct {
	ID                  string         `json:"id"`
	CustomerName        string         `json:"customer_name"`
	WaiterID            *string        `json:"waiter_id,omitempty"`
	TableNumber         int            `json:"table_number"`
	TakeAway            bool           `json:"take_away"`
	TotalPrice          string         `json:"total_price"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	Lines               []LineResponse `json:"lines"`
	State               StateResponse  `json:"state"`
	CreatedAt           time.Time      `json:"created_at"`
	PreparedAt          *time.Time     `json:"prepared_at,omitempty"`
	DeliveredAt         *time.Time     `json:"delivered_at,omitempty"`
}

// AppliedResponse reports whether an undo or redo actually ran.
type AppliedResponse struct {
	Applied bool `json:"applied"`
}

// CommandHistoryResponse is one entry of an order's command log.
type CommandHistoryResponse struct {
	Description string     `json:"description"`
	ExecutedAt  *time.Time `json:"executed_at,omitempty"`
	UndoneAt    *time.Time `json:"undone_at,omitempty"`
	CanUndo     bool       `json:"can_undo"`
}

// RoutedItemResponse is one line placed on a station.
type RoutedItemResponse struct {
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	Priority        int    `json:"priority"`
	PreparationTime int    `json:"preparation_time"`
}

// StationAssignmentResponse groups the lines routed to one station.
type StationAssignmentResponse struct {
	StationType string               `json:"station_type"`
	Items       []RoutedItemResponse `json:"items"`
}

// UnroutedItemResponse records a line no active station could take.
type UnroutedItemResponse struct {
	ProductName string `json:"product_name"`
	StationType string `json:"station_type"`
	Reason      string `json:"reason"`
}

// RouteResponse is the outcome of one routing pass.
type RouteResponse struct {
	Assignments map[string]StationAssignmentResponse `json:"assignments"`
	Unrouted    []UnroutedItemResponse               `json:"unrouted,omitempty"`
}

// SnapshotResponse is one snapshot listing row.
type SnapshotResponse struct {
	Tag        string    `json:"tag"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	ItemsCount int       `json:"items_count"`
	TakenAt    time.Time `json:"taken_at"`
	Valid      bool      `json:"valid"`
}

// PendingOrderResponse is one row of the pending-orders board.
type PendingOrderResponse struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	TableNumber  int       `json:"table_number"`
	TotalPrice   string    `json:"total_price"`
	ItemsCount   int       `json:"items_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// StationStatusResponse is one station's workload row.
type StationStatusResponse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	StationType           string `json:"station_type"`
	IsActive              bool   `json:"is_active"`
	PendingOrders         int    `json:"pending_orders"`
	CompletedToday        int    `json:"completed_today"`
	AvgPreparationMinutes *int   `json:"avg_preparation_minutes,omitempty"`
	CapacityStatus        string `json:"capacity_status"`
}

// HistoryRecordResponse is one audit-trail record.
type HistoryRecordResponse struct {
	ID             string    `json:"id"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	ChangedBy      *string   `json:"changed_by,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func orderToResponse(o *order.Order, state services.StateInfo) OrderResponse {
	lines := make([]LineResponse, 0, len(o.Lines()))
	for _, line := range o.Lines() {
		lines = append(lines, LineResponse{
			ID:          line.ID().String(),
			ProductID:   line.ProductID().String(),
			ProductName: line.ProductName(),
			Quantity:    line.Quantity(),
			Extras:      line.Extras(),
			UnitPrice:   line.UnitPrice().String(),
			Subtotal:    line.Subtotal().String(),
		})
	}

	var waiterID *string
	if o.WaiterID() != nil {
		id := o.WaiterID().String()
		waiterID = &id
	}

	return OrderResponse{
		ID:                  o.ID().String(),
		CustomerName:        o.CustomerName(),
		WaiterID:            waiterID,
		TableNumber:         o.TableNumber(),
		TakeAway:            o.IsTakeAway(),
		TotalPrice:          o.TotalPrice().String(),
		SpecialInstructions: o.SpecialInstructions(),
		Lines:               lines,
		State: StateResponse{
			Status:     state.Status,
			CanAdvance: state.CanAdvance,
			CanCancel:  state.CanCancel,
			CanEdit:    state.CanEdit,
			Next:       state.Next,
		},
		CreatedAt:   o.CreatedAt(),
		PreparedAt:  o.PreparedAt(),
		DeliveredAt: o.DeliveredAt(),
	}
}

func parseOptionalUUID(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
