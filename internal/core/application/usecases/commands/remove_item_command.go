package commands

import (
	"context"
	"errors"
	"fmt"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/guard"
)

var ErrRemoveItemCommandIsNotConstructed = errors.New(
	"RemoveItemCommand must be created via NewRemoveItemCommand constructor",
)

// RemoveItemCommand removes one line from an editable order.
//
// Execute captures the removed line's product data and captured prices so
// that Undo can re-create an equivalent line. The re-created line gets a new
// identifier: undoing a removal restores the order's contents and total, not
// the original line identity.
type RemoveItemCommand struct {
	baseCommand

	deps    Deps
	orderID kernel.UUID
	lineID  kernel.UUID

	removedProductID   kernel.UUID
	removedProductName string
	removedCategory    menu.CategoryType
	removedPrepTime    int
	removedQuantity    int
	removedExtras      order.Extras
	removedUnitPrice   kernel.Price
	removedExtrasPrice kernel.Price

	guard guard.ConstructorGuard
}

// NewRemoveItemCommand creates a command removing a line from an order.
func NewRemoveItemCommand(
	deps Deps,
	orderID kernel.UUID,
	lineID kernel.UUID,
) (*RemoveItemCommand, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := lineID.Validate(); err != nil {
		return nil, err
	}

	return &RemoveItemCommand{
		deps:    deps,
		orderID: orderID,
		lineID:  lineID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *RemoveItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveItemCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being shrunk.
func (c *RemoveItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Execute removes the line and recomputes the total.
func (c *RemoveItemCommand) Execute(ctx context.Context, uow UoW) error {
	if err := c.Validate(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	removed, err := o.RemoveLine(c.lineID)
	if err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	c.removedProductID = removed.ProductID()
	c.removedProductName = removed.ProductName()
	c.removedCategory = removed.Category()
	c.removedPrepTime = removed.PreparationTime()
	c.removedQuantity = removed.Quantity()
	c.removedExtras = removed.Extras()
	c.removedUnitPrice = removed.UnitPrice()
	c.removedExtrasPrice = removed.ExtrasPrice()

	now := c.deps.Clock.Now()
	reason := fmt.Sprintf("item removed: %s x%d", c.removedProductName, c.removedQuantity)
	if err = appendHistory(ctx, uow, c.orderID, order.HistoryActionRemoveItem, "", "", nil, reason, now); err != nil {
		return err
	}

	c.deps.Lifecycle.NotifyModified(ctx, o)
	c.markExecuted(now)
	return nil
}

// Undo re-creates an equivalent line from the data captured at Execute.
func (c *RemoveItemCommand) Undo(ctx context.Context, uow UoW) error {
	if !c.CanUndo() {
		return ErrCannotUndo
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	line, err := order.RestoreLine(
		kernel.NewUUID(),
		c.removedProductID,
		c.removedProductName,
		c.removedCategory,
		c.removedPrepTime,
		c.removedQuantity,
		c.removedExtras,
		c.removedUnitPrice,
		c.removedExtrasPrice,
	)
	if err != nil {
		return err
	}
	if err = o.AddLine(line); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	c.markUndone(c.deps.Clock.Now())
	return nil
}

// Description summarises the command for history listings.
func (c *RemoveItemCommand) Description() string {
	if c.removedProductName != "" {
		return fmt.Sprintf("remove item: %s", c.removedProductName)
	}
	return fmt.Sprintf("remove item: %s", c.lineID)
}
