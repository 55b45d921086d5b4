package commands

import (
	"context"
	"errors"
	"fmt"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrLinesAreRequired = errs.NewValueIsRequiredError("lines")
)

// LineSpec describes one requested line of a new or growing order. Prices
// are not part of a LineSpec; they are captured from the catalog at execute
// time.
type LineSpec struct {
	ProductID kernel.UUID
	Quantity  int
	Extras    order.Extras
}

// CreateOrderCommand creates a new order with its initial lines.
//
// Execute inserts the order and lines, computes the total from catalog
// prices, appends the CREATE audit record, and captures the "pending"
// snapshot. Undo hard-deletes the order; it is only meaningful while
// nothing downstream references the order yet.
type CreateOrderCommand struct {
	baseCommand

	deps         Deps
	orderID      kernel.UUID
	customerID   *kernel.UUID
	customerName string
	waiterID     *kernel.UUID
	tableNumber  int
	lines        []LineSpec
	instructions string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// The order must have at least one line; table 0 means take-away.
func NewCreateOrderCommand(
	deps Deps,
	orderID kernel.UUID,
	customerID *kernel.UUID,
	customerName string,
	waiterID *kernel.UUID,
	tableNumber int,
	lines []LineSpec,
	instructions string,
) (*CreateOrderCommand, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrLinesAreRequired
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return nil, err
		}
		if line.Quantity < 1 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("%d is less than 1", line.Quantity),
			)
		}
	}
	if tableNumber < 0 {
		return nil, errs.NewValueIsInvalidError("tableNumber")
	}

	return &CreateOrderCommand{
		deps:         deps,
		orderID:      orderID,
		customerID:   customerID,
		customerName: customerName,
		waiterID:     waiterID,
		tableNumber:  tableNumber,
		lines:        lines,
		instructions: instructions,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being created.
func (c *CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Execute builds and persists the order with its lines.
func (c *CreateOrderCommand) Execute(ctx context.Context, uow UoW) error {
	if err := c.Validate(); err != nil {
		return err
	}

	now := c.deps.Clock.Now()
	o, err := order.NewOrder(
		c.orderID,
		c.customerID,
		c.customerName,
		c.waiterID,
		c.tableNumber,
		c.instructions,
		now,
	)
	if err != nil {
		return err
	}

	for _, spec := range c.lines {
		product, err := c.deps.Catalog.GetProduct(ctx, spec.ProductID)
		if err != nil {
			return err
		}
		line, err := order.NewLine(kernel.NewUUID(), product, spec.Quantity, spec.Extras)
		if err != nil {
			return err
		}
		if err = o.AddLine(line); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	reason := fmt.Sprintf("order created - table %d", c.tableNumber)
	if err = appendHistory(ctx, uow, c.orderID, order.HistoryActionCreate, "", o.Status().String(), c.customerID, reason, now); err != nil {
		return err
	}

	if err = c.deps.Lifecycle.RecordCreated(ctx, o); err != nil {
		return err
	}

	c.markExecuted(now)
	return nil
}

// Undo hard-deletes the created order and its lines.
func (c *CreateOrderCommand) Undo(ctx context.Context, uow UoW) error {
	if !c.CanUndo() {
		return ErrCannotUndo
	}

	if err := uow.OrderRepository().Delete(ctx, c.orderID); err != nil {
		return err
	}

	c.markUndone(c.deps.Clock.Now())
	return nil
}

// Description summarises the command for history listings.
func (c *CreateOrderCommand) Description() string {
	return fmt.Sprintf("create order - table %d - %d items", c.tableNumber, len(c.lines))
}
