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

var ErrUpdateItemQuantityCommandIsNotConstructed = errors.New(
	"UpdateItemQuantityCommand must be created via NewUpdateItemQuantityCommand constructor",
)

// UpdateItemQuantityCommand changes the quantity of one order line.
// Undo reverts the line to the quantity captured before Execute.
type UpdateItemQuantityCommand struct {
	baseCommand

	deps        Deps
	orderID     kernel.UUID
	lineID      kernel.UUID
	newQuantity int

	prevQuantity int
	productName  string

	guard guard.ConstructorGuard
}

// NewUpdateItemQuantityCommand creates a command changing a line's quantity.
func NewUpdateItemQuantityCommand(
	deps Deps,
	orderID kernel.UUID,
	lineID kernel.UUID,
	newQuantity int,
) (*UpdateItemQuantityCommand, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := lineID.Validate(); err != nil {
		return nil, err
	}
	if newQuantity < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"newQuantity",
			fmt.Errorf("%d is less than 1", newQuantity),
		)
	}

	return &UpdateItemQuantityCommand{
		deps:        deps,
		orderID:     orderID,
		lineID:      lineID,
		newQuantity: newQuantity,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *UpdateItemQuantityCommand) Validate() error {
	return c.guard.Validate(ErrUpdateItemQuantityCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being edited.
func (c *UpdateItemQuantityCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Execute changes the quantity and recomputes the total.
func (c *UpdateItemQuantityCommand) Execute(ctx context.Context, uow UoW) error {
	if err := c.Validate(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	line, err := o.Line(c.lineID)
	if err != nil {
		return err
	}
	c.prevQuantity = line.Quantity()
	c.productName = line.ProductName()

	if err = o.UpdateLineQuantity(c.lineID, c.newQuantity); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	now := c.deps.Clock.Now()
	reason := fmt.Sprintf(
		"quantity changed: %s %d -> %d",
		c.productName, c.prevQuantity, c.newQuantity,
	)
	if err = appendHistory(ctx, uow, c.orderID, order.HistoryActionUpdateQuantity, "", "", nil, reason, now); err != nil {
		return err
	}

	c.deps.Lifecycle.NotifyModified(ctx, o)
	c.markExecuted(now)
	return nil
}

// Undo restores the quantity captured before Execute.
func (c *UpdateItemQuantityCommand) Undo(ctx context.Context, uow UoW) error {
	if !c.CanUndo() {
		return ErrCannotUndo
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	if err = o.UpdateLineQuantity(c.lineID, c.prevQuantity); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	c.markUndone(c.deps.Clock.Now())
	return nil
}

// Description summarises the command for history listings.
func (c *UpdateItemQuantityCommand) Description() string {
	if c.productName != "" {
		return fmt.Sprintf("update quantity: %s -> %d", c.productName, c.newQuantity)
	}
	return fmt.Sprintf("update quantity: %s -> %d", c.lineID, c.newQuantity)
}
