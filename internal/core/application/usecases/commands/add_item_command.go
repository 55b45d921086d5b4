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

var ErrAddItemCommandIsNotConstructed = errors.New(
	"AddItemCommand must be created via NewAddItemCommand constructor",
)

// AddItemCommand adds one line to an editable order, capturing the product's
// catalog prices at execute time. Undo removes the added line and recomputes
// the total.
type AddItemCommand struct {
	baseCommand

	deps      Deps
	orderID   kernel.UUID
	productID kernel.UUID
	quantity  int
	extras    order.Extras

	addedLineID kernel.UUID
	productName string

	guard guard.ConstructorGuard
}

// NewAddItemCommand creates a command adding a product line to an order.
func NewAddItemCommand(
	deps Deps,
	orderID kernel.UUID,
	productID kernel.UUID,
	quantity int,
	extras order.Extras,
) (*AddItemCommand, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is less than 1", quantity),
		)
	}

	return &AddItemCommand{
		deps:      deps,
		orderID:   orderID,
		productID: productID,
		quantity:  quantity,
		extras:    extras,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *AddItemCommand) Validate() error {
	return c.guard.Validate(ErrAddItemCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being extended.
func (c *AddItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Execute adds the line and recomputes the total.
func (c *AddItemCommand) Execute(ctx context.Context, uow UoW) error {
	if err := c.Validate(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	product, err := c.deps.Catalog.GetProduct(ctx, c.productID)
	if err != nil {
		return err
	}

	line, err := order.NewLine(kernel.NewUUID(), product, c.quantity, c.extras)
	if err != nil {
		return err
	}
	if err = o.AddLine(line); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	c.addedLineID = line.ID()
	c.productName = product.Name()

	now := c.deps.Clock.Now()
	reason := fmt.Sprintf("item added: %s x%d", c.productName, c.quantity)
	if err = appendHistory(ctx, uow, c.orderID, order.HistoryActionAddItem, "", "", nil, reason, now); err != nil {
		return err
	}

	c.deps.Lifecycle.NotifyModified(ctx, o)
	c.markExecuted(now)
	return nil
}

// Undo removes the line added by Execute.
func (c *AddItemCommand) Undo(ctx context.Context, uow UoW) error {
	if !c.CanUndo() {
		return ErrCannotUndo
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	if _, err = o.RemoveLine(c.addedLineID); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	c.markUndone(c.deps.Clock.Now())
	return nil
}

// Description summarises the command for history listings.
func (c *AddItemCommand) Description() string {
	if c.productName != "" {
		return fmt.Sprintf("add item: %s x%d", c.productName, c.quantity)
	}
	return fmt.Sprintf("add item: %s x%d", c.productID, c.quantity)
}
