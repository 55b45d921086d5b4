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

var ErrChangeStatusCommandIsNotConstructed = errors.New(
	"ChangeStatusCommand must be created via NewChangeStatusCommand constructor",
)

// ChangeStatusCommand moves an order one step through its lifecycle. The
// target must be the current state's successor (or CANCELLED, which
// CancelOrderCommand handles with its own pre-check).
//
// Undo restores the previous status and the timestamps as they were before
// the transition; it does not retract the notifications the forward
// transition fanned out.
type ChangeStatusCommand struct {
	baseCommand

	deps      Deps
	orderID   kernel.UUID
	target    order.Status
	changedBy *kernel.UUID
	reason    string

	prevStatus      order.Status
	prevPreparedAt  *time.Time
	prevDeliveredAt *time.Time

	guard guard.ConstructorGuard
}

// NewChangeStatusCommand creates a command advancing an order to the given
// target state.
func NewChangeStatusCommand(
	deps Deps,
	orderID kernel.UUID,
	target order.Status,
	changedBy *kernel.UUID,
	reason string,
) (*ChangeStatusCommand, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	return &ChangeStatusCommand{
		deps:      deps,
		orderID:   orderID,
		target:    target,
		changedBy: changedBy,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *ChangeStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being transitioned.
func (c *ChangeStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Execute advances the order through the lifecycle engine.
func (c *ChangeStatusCommand) Execute(ctx context.Context, uow UoW) error {
	if err := c.Validate(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, c.orderID)
	if err != nil {
		return err
	}

	if c.target == order.Cancelled {
		return errs.NewInvalidTransitionError(o.Status().String(), "change status to CANCELLED; use cancellation")
	}
	if next, ok := o.Status().Next(); !ok || next != c.target {
		return errs.NewInvalidTransitionError(o.Status().String(), fmt.Sprintf("change status to %s", c.target))
	}

	c.prevStatus = o.Status()
	c.prevPreparedAt = o.PreparedAt()
	c.prevDeliveredAt = o.DeliveredAt()

	newStatus, err := c.deps.Lifecycle.Advance(ctx, uow, o)
	if err != nil {
		return err
	}

	now := c.deps.Clock.Now()
	if err = appendHistory(ctx, uow, c.orderID, order.HistoryActionStatusChange,
		c.prevStatus.String(), newStatus.String(), c.changedBy, c.reason, now); err != nil {
		return err
	}

	c.markExecuted(now)
	return nil
}

// Undo writes the prior status and timestamps back, bypassing the
// transition table.
func (c *ChangeStatusCommand) Undo(ctx context.Context, uow UoW) error {
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

// Description summarises the command for history listings. The source state
// is only known after Execute captured it, so before that only the target is
// shown.
func (c *ChangeStatusCommand) Description() string {
	if c.prevStatus == order.Unknown {
		return fmt.Sprintf("change status: -> %s", c.target)
	}
	return fmt.Sprintf("change status: %s -> %s", c.prevStatus, c.target)
}
