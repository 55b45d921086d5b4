package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order through the lifecycle engine, which
// fans out ORDER_CANCELLED, snapshots, and releases the order's pending
// station queue entries.
//
// The cancellability pre-check runs before any mutation, so a rejected
// cancellation leaves no trace. Undo restores the prior status and
// timestamps; released queue entries stay released.
type CancelOrderCommand struct {
	baseCommand

	deps      Deps
	orderID   kernel.UUID
	reason    string
	changedBy *kernel.UUID

	prevStatus      order.Status
	prevPreparedAt  *time.Time
	prevDeliveredAt *time.Time

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command cancelling an order.
func NewCancelOrderCommand(
	deps Deps,
	orderID kernel.UUID,
	reason string,
	changedBy *kernel.UUID,
) (*CancelOrderCommand, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return &CancelOrderCommand{
		deps:      deps,
		orderID:   orderID,
		reason:    reason,
		changedBy: changedBy,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being cancelled.
func (c *CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Execute cancels the order.
func (c *CancelOrderCommand) Execute(ctx context.Context, uow UoW) error {
	if err := c.Validate(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	// checked before any mutation
	if !o.Status().CanCancel() {
		return errs.NewInvalidTransitionError(o.Status().String(), "cancel")
	}

	c.prevStatus = o.Status()
	c.prevPreparedAt = o.PreparedAt()
	c.prevDeliveredAt = o.DeliveredAt()

	newStatus, err := c.deps.Lifecycle.Cancel(ctx, uow, o, c.reason)
	if err != nil {
		return err
	}

	now := c.deps.Clock.Now()
	if err = appendHistory(ctx, uow, c.orderID, order.HistoryActionCancel,
		c.prevStatus.String(), newStatus.String(), c.changedBy, c.reason, now); err != nil {
		return err
	}

	c.markExecuted(now)
	return nil
}

// Undo restores the order to its pre-cancellation status.
func (c *CancelOrderCommand) Undo(ctx context.Context, uow UoW) error {
	if !c.CanUndo() {
		return ErrCannotUndo
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	if err = o.RestoreStatus(c.prevStatus, c.prevPreparedAt, c.prevDeliveredAt); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	c.markUndone(c.deps.Clock.Now())
	return nil
}

// Description summarises the command for history listings.
func (c *CancelOrderCommand) Description() string {
	return fmt.Sprintf("cancel order %s - reason: %s", c.orderID, c.reason)
}
