package order

import (
	"fmt"
	"hash/fnv"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

// LineSnapshot is the frozen view of a line captured inside a memento. It is
// recorded for inspection only; restoring a memento does not rebuild lines.
type LineSnapshot struct {
	LineID      kernel.UUID
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	Subtotal    kernel.Price
}

// MementoSummary is the read-side projection of a stored memento, exposed to
// snapshot-history listings without revealing the captured state itself.
type MementoSummary struct {
	Tag        string
	Status     Status
	TotalCents int64
	ItemsCount int
	TakenAt    time.Time
	Valid      bool
}

// Memento captures an order's state at a point in time together with an
// integrity checksum. Its fields are private: the only way back into an
// order is RestoreFromMemento, which verifies the checksum first.
type Memento struct {
	tag                 string
	reason              string
	orderID             kernel.UUID
	status              Status
	totalPrice          kernel.Price
	tableNumber         int
	customerName        string
	specialInstructions string
	lines               []LineSnapshot
	createdAt           time.Time
	preparedAt          *time.Time
	deliveredAt         *time.Time
	takenAt             time.Time
	checksum            uint64

	isConstructed bool
}

// ErrMementoIsNotConstructed is returned when a Memento was not created via
// TakeSnapshot or RestoreMemento.
var ErrMementoIsNotConstructed = fmt.Errorf("Memento must be created via TakeSnapshot or RestoreMemento")

// TakeSnapshot captures the order's current state under the given tag.
//
// The checksum covers the identity, status, total and line count; the
// remaining fields travel alongside it unchecked.
func TakeSnapshot(o *Order, tag, reason string, now time.Time) (*Memento, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if tag == "" {
		return nil, errs.NewValueIsRequiredError("tag")
	}

	lines := make([]LineSnapshot, 0, len(o.lines))
	for _, line := range o.lines {
		lines = append(lines, LineSnapshot{
			LineID:      line.ID(),
			ProductID:   line.ProductID(),
			ProductName: line.ProductName(),
			Quantity:    line.Quantity(),
			Subtotal:    line.Subtotal(),
		})
	}

	m := &Memento{
		tag:                 tag,
		reason:              reason,
		orderID:             o.id,
		status:              o.status,
		totalPrice:          o.totalPrice,
		tableNumber:         o.tableNumber,
		customerName:        o.customerName,
		specialInstructions: o.specialInstructions,
		lines:               lines,
		createdAt:           o.createdAt,
		preparedAt:          o.preparedAt,
		deliveredAt:         o.deliveredAt,
		takenAt:             now,
		isConstructed:       true,
	}
	m.checksum = m.computeChecksum()
	return m, nil
}

// RestoreMemento reconstructs a memento from stored fields, keeping the
// stored checksum as-is so that later verification can detect tampering or
// corruption that happened at rest.
func RestoreMemento(
	tag string,
	reason string,
	orderID kernel.UUID,
	status Status,
	totalPrice kernel.Price,
	tableNumber int,
	customerName string,
	specialInstructions string,
	lines []LineSnapshot,
	createdAt time.Time,
	preparedAt *time.Time,
	deliveredAt *time.Time,
	takenAt time.Time,
	checksum uint64,
) (*Memento, error) {
	if tag == "" {
		return nil, errs.NewValueIsRequiredError("tag")
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Memento{
		tag:                 tag,
		reason:              reason,
		orderID:             orderID,
		status:              status,
		totalPrice:          totalPrice,
		tableNumber:         tableNumber,
		customerName:        customerName,
		specialInstructions: specialInstructions,
		lines:               lines,
		createdAt:           createdAt,
		preparedAt:          preparedAt,
		deliveredAt:         deliveredAt,
		takenAt:             takenAt,
		checksum:            checksum,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Memento was created through a constructor.
func (m *Memento) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMementoIsNotConstructed
	}
	return nil
}

// Tag returns the caller-supplied snapshot tag.
func (m *Memento) Tag() string {
	return m.tag
}

// Reason returns the free-text reason recorded at capture time.
func (m *Memento) Reason() string {
	return m.reason
}

// OrderID returns the captured order's identifier.
func (m *Memento) OrderID() kernel.UUID {
	return m.orderID
}

// Status returns the captured lifecycle state.
func (m *Memento) Status() Status {
	return m.status
}

// TotalPrice returns the captured order total.
func (m *Memento) TotalPrice() kernel.Price {
	return m.totalPrice
}

// Lines returns the captured line snapshots.
func (m *Memento) Lines() []LineSnapshot {
	out := make([]LineSnapshot, len(m.lines))
	copy(out, m.lines)
	return out
}

// TakenAt returns when the snapshot was captured.
func (m *Memento) TakenAt() time.Time {
	return m.takenAt
}

// Checksum returns the stored integrity checksum.
func (m *Memento) Checksum() uint64 {
	return m.checksum
}

// IsValid reports whether the stored checksum still matches the captured
// state.
func (m *Memento) IsValid() bool {
	return m.checksum == m.computeChecksum()
}

// Summary returns the read-side projection used by snapshot listings.
func (m *Memento) Summary() MementoSummary {
	return MementoSummary{
		Tag:        m.tag,
		Status:     m.status,
		TotalCents: m.totalPrice.Cents(),
		ItemsCount: len(m.lines),
		TakenAt:    m.takenAt,
		Valid:      m.IsValid(),
	}
}

// RestoreFromMemento rolls the order back to the captured state after
// verifying the checksum.
//
// Restoration covers status, total, table number, special instructions and
// timestamps. Line items are NOT rebuilt: the captured lines are a record,
// not a source of truth, so the restored total can disagree with the sum of
// the surviving lines until the next line mutation, or the next repository
// load through RestoreOrder, recomputes it from the lines.
//
// Returns a CorruptSnapshotError when the checksum does not match.
func (o *Order) RestoreFromMemento(m *Memento) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if !m.orderID.IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause(
			"memento",
			fmt.Errorf("snapshot %s belongs to order %s, not %s", m.tag, m.orderID, o.id),
		)
	}
	if !m.IsValid() {
		return errs.NewCorruptSnapshotError(m.tag)
	}

	o.status = m.status
	o.totalPrice = m.totalPrice
	o.tableNumber = m.tableNumber
	o.customerName = m.customerName
	o.specialInstructions = m.specialInstructions
	o.preparedAt = m.preparedAt
	o.deliveredAt = m.deliveredAt
	return nil
}

func (m *Memento) computeChecksum() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%d", m.orderID, m.status, m.totalPrice.Cents(), len(m.lines))
	return h.Sum64()
}
