package order

import (
	"errors"
	"fmt"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root of the café order model: a table or take-away
// request for a sequence of product lines, moving through the lifecycle
// states of the Status table.
//
// Order maintains these invariants:
//   - total price always equals the sum of line subtotals after any committed
//     mutation; it is never independently set
//   - status only changes via Advance/Cancel (driven by the lifecycle engine)
//     or the explicit rollback paths RestoreStatus/RestoreFromMemento
//   - lines are only added, removed, or changed while the status allows
//     editing
//   - prepared/delivered timestamps are set exactly once, by the state that
//     reaches them
type Order struct {
	id                  kernel.UUID
	customerID          *kernel.UUID
	customerName        string
	waiterID            *kernel.UUID
	tableNumber         int
	status              Status
	lines               []*Line
	totalPrice          kernel.Price
	specialInstructions string
	createdAt           time.Time
	preparedAt          *time.Time
	deliveredAt         *time.Time

	isConstructed bool
}

// NewOrder creates a new Order in PENDING status with no lines.
//
// Parameters:
//   - id: unique identifier (must be valid)
//   - customerID: registered customer reference, nil for walk-ins
//   - customerName: free-text name for unregistered customers
//   - waiterID: assigned server, nil if not yet assigned
//   - tableNumber: table, 0 meaning take-away (never negative)
//   - instructions: free-text special instructions
//   - createdAt: creation timestamp from the injected clock
func NewOrder(
	id kernel.UUID,
	customerID *kernel.UUID,
	customerName string,
	waiterID *kernel.UUID,
	tableNumber int,
	instructions string,
	createdAt time.Time,
) (*Order, error) {
	order := &Order{
		customerName:        customerName,
		specialInstructions: instructions,
		status:              Pending,
		isConstructed:       true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setWaiterID(waiterID),
		order.setTableNumber(tableNumber),
		order.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an order from persisted state. The total is
// recomputed from the lines rather than trusted from storage, keeping the
// derived-total invariant even across storage drift. A total written by
// RestoreFromMemento therefore only lasts until the next reload: once the
// order round-trips through the repository, the line-derived total wins.
func RestoreOrder(
	id kernel.UUID,
	customerID *kernel.UUID,
	customerName string,
	waiterID *kernel.UUID,
	tableNumber int,
	status Status,
	lines []*Line,
	instructions string,
	createdAt time.Time,
	preparedAt *time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}

	order := &Order{
		customerName:        customerName,
		status:              status,
		lines:               lines,
		specialInstructions: instructions,
		preparedAt:          preparedAt,
		deliveredAt:         deliveredAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setWaiterID(waiterID),
		order.setTableNumber(tableNumber),
		order.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	order.recalcTotal()
	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the registered customer reference, nil for walk-ins.
func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

// CustomerName returns the free-text customer name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// WaiterID returns the assigned server reference, nil if unassigned.
func (o *Order) WaiterID() *kernel.UUID {
	return o.waiterID
}

// AssignWaiter sets the assigned server for the order.
func (o *Order) AssignWaiter(waiterID kernel.UUID) error {
	if err := waiterID.Validate(); err != nil {
		return err
	}
	o.waiterID = &waiterID
	return nil
}

// TableNumber returns the table number; 0 means take-away.
func (o *Order) TableNumber() int {
	return o.tableNumber
}

// IsTakeAway reports whether the order is a take-away (table 0).
func (o *Order) IsTakeAway() bool {
	return o.tableNumber == 0
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// Lines returns the ordered line items. The slice is a copy; the lines are
// the aggregate's own.
func (o *Order) Lines() []*Line {
	out := make([]*Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Line returns the line with the given identifier.
func (o *Order) Line(lineID kernel.UUID) (*Line, error) {
	for _, line := range o.lines {
		if line.ID().IsEqual(lineID) {
			return line, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("lineId", lineID.String())
}

// TotalPrice returns the derived order total: the sum of line subtotals.
func (o *Order) TotalPrice() kernel.Price {
	return o.totalPrice
}

// SpecialInstructions returns the free-text special instructions.
func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// PreparedAt returns when the order entered READY, nil before that.
func (o *Order) PreparedAt() *time.Time {
	return o.preparedAt
}

// DeliveredAt returns when the order entered DELIVERED, nil before that.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// AddLine appends a line while the order is editable and recomputes the total.
//
// Returns a NotEditableError outside PENDING.
func (o *Order) AddLine(line *Line) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if err := line.Validate(); err != nil {
		return err
	}
	for _, existing := range o.lines {
		if existing.ID().IsEqual(line.ID()) {
			return errs.NewValueIsInvalidErrorWithCause(
				"lineId",
				fmt.Errorf("line %s already exists on order %s", line.ID(), o.id),
			)
		}
	}

	o.lines = append(o.lines, line)
	o.recalcTotal()
	return nil
}

// RemoveLine removes the line with the given identifier, recomputes the
// total, and returns the removed line so the caller can capture its data
// for undo.
//
// Returns a NotEditableError outside PENDING and an ObjectNotFoundError for
// an unknown line.
func (o *Order) RemoveLine(lineID kernel.UUID) (*Line, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}

	for i, line := range o.lines {
		if line.ID().IsEqual(lineID) {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			o.recalcTotal()
			return line, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("lineId", lineID.String())
}

// UpdateLineQuantity changes a line's quantity and recomputes the total.
func (o *Order) UpdateLineQuantity(lineID kernel.UUID, quantity int) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}

	line, err := o.Line(lineID)
	if err != nil {
		return err
	}
	if err = line.SetQuantity(quantity); err != nil {
		return err
	}

	o.recalcTotal()
	return nil
}

// Advance moves the order to its successor state.
//
// Returns an InvalidTransitionError from a terminal state and a
// PreconditionFailedError (order unmodified) when entering IN_PREPARATION
// with no lines. The prepared/delivered timestamps are stamped exactly once
// when READY/DELIVERED are first reached.
//
// Advance only mutates the aggregate; persistence, notification fan-out and
// snapshots are ordered by the lifecycle engine.
func (o *Order) Advance(now time.Time) (Status, error) {
	next, err := o.status.Advance()
	if err != nil {
		return Unknown, err
	}

	if next == InPreparation && len(o.lines) == 0 {
		return Unknown, errs.NewPreconditionFailedError(next.String(), "at least one line item")
	}

	o.status = next
	switch next {
	case Ready:
		if o.preparedAt == nil {
			t := now
			o.preparedAt = &t
		}
	case Delivered:
		if o.deliveredAt == nil {
			t := now
			o.deliveredAt = &t
		}
	}

	return next, nil
}

// Cancel moves the order to CANCELLED.
//
// Returns an InvalidTransitionError unless the current state is PENDING or
// IN_PREPARATION.
func (o *Order) Cancel() (Status, error) {
	next, err := o.status.Cancel()
	if err != nil {
		return Unknown, err
	}

	o.status = next
	return next, nil
}

// RestoreStatus writes status and timestamps directly, bypassing the
// transition table. This is the rollback path used by command undo and
// memento restore only; regular code must go through Advance/Cancel.
func (o *Order) RestoreStatus(status Status, preparedAt, deliveredAt *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	o.status = status
	o.preparedAt = preparedAt
	o.deliveredAt = deliveredAt
	return nil
}

func (o *Order) ensureEditable() error {
	if !o.status.CanEdit() {
		return errs.NewNotEditableError(o.status.String())
	}
	return nil
}

func (o *Order) recalcTotal() {
	total := kernel.ZeroPrice()
	for _, line := range o.lines {
		total = total.Add(line.Subtotal())
	}
	o.totalPrice = total
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID *kernel.UUID) error {
	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return err
		}
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setWaiterID(waiterID *kernel.UUID) error {
	if waiterID != nil {
		if err := waiterID.Validate(); err != nil {
			return err
		}
	}
	o.waiterID = waiterID
	return nil
}

func (o *Order) setTableNumber(tableNumber int) error {
	if tableNumber < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"tableNumber",
			fmt.Errorf("%d is negative; use 0 for take-away", tableNumber),
		)
	}
	o.tableNumber = tableNumber
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
