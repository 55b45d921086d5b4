package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

type fakeStore struct {
	orders   *fakeOrderRepo
	stations *fakeStationRepo
	queue    *fakeQueueRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   &fakeOrderRepo{byID: make(map[string]*order.Order)},
		stations: &fakeStationRepo{},
		queue:    &fakeQueueRepo{},
	}
}

func (s *fakeStore) OrderRepository() ports.OrderRepository               { return s.orders }
func (s *fakeStore) StationRepository() ports.StationRepository           { return s.stations }
func (s *fakeStore) StationQueueRepository() ports.StationQueueRepository { return s.queue }

type fakeOrderRepo struct {
	byID map[string]*order.Order
}

func (r *fakeOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.byID[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	r.byID[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.byID[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id.String())
	}
	return o, nil
}

func (r *fakeOrderRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *fakeOrderRepo) Delete(_ context.Context, id kernel.UUID) error {
	delete(r.byID, id.String())
	return nil
}

func (r *fakeOrderRepo) GetAllInStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.byID {
		if o.Status() == status {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeStationRepo struct {
	stations []*station.Station
}

func (r *fakeStationRepo) Add(_ context.Context, aggregate *station.Station) error {
	r.stations = append(r.stations, aggregate)
	return nil
}

func (r *fakeStationRepo) Update(context.Context, *station.Station) error { return nil }

func (r *fakeStationRepo) Get(_ context.Context, id kernel.UUID) (*station.Station, error) {
	for _, s := range r.stations {
		if s.ID().IsEqual(id) {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("stationId", id.String())
}

func (r *fakeStationRepo) GetActiveByType(_ context.Context, stationType station.Type) (*station.Station, error) {
	for _, s := range r.stations {
		if s.StationType() == stationType && s.IsActive() {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("stationType", stationType.String())
}

func (r *fakeStationRepo) GetByType(_ context.Context, stationType station.Type) (*station.Station, error) {
	for _, s := range r.stations {
		if s.StationType() == stationType {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("stationType", stationType.String())
}

func (r *fakeStationRepo) GetAll(context.Context) ([]*station.Station, error) {
	return r.stations, nil
}

type fakeQueueRepo struct {
	entries []*station.QueueEntry
}

func (r *fakeQueueRepo) Add(_ context.Context, entry *station.QueueEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeQueueRepo) Update(context.Context, *station.QueueEntry) error { return nil }

func (r *fakeQueueRepo) GetIncomplete(_ context.Context, stationID, orderID kernel.UUID) (*station.QueueEntry, error) {
	for _, entry := range r.entries {
		if entry.StationID().IsEqual(stationID) && entry.OrderID().IsEqual(orderID) && !entry.IsCompleted() {
			return entry, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("queueEntry", orderID.String())
}

func (r *fakeQueueRepo) GetPendingForStation(_ context.Context, stationID kernel.UUID) ([]*station.QueueEntry, error) {
	var out []*station.QueueEntry
	for _, entry := range r.entries {
		if entry.StationID().IsEqual(stationID) && !entry.IsCompleted() {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeQueueRepo) CountIncompleteForOrder(_ context.Context, orderID kernel.UUID) (int, error) {
	count := 0
	for _, entry := range r.entries {
		if entry.OrderID().IsEqual(orderID) && !entry.IsCompleted() {
			count++
		}
	}
	return count, nil
}

func (r *fakeQueueRepo) CountCompletedForStationSince(_ context.Context, stationID kernel.UUID, since time.Time) (int, error) {
	count := 0
	for _, entry := range r.entries {
		if entry.StationID().IsEqual(stationID) && entry.IsCompleted() && !entry.CompletedAt().Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeQueueRepo) DeleteIncompleteForOrder(_ context.Context, orderID kernel.UUID) error {
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.OrderID().IsEqual(orderID) && !entry.IsCompleted() {
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return nil
}

type fakeSnapshotStore struct {
	saved []*order.Memento
}

func (s *fakeSnapshotStore) Save(_ context.Context, memento *order.Memento) error {
	s.saved = append(s.saved, memento)
	return nil
}

func (s *fakeSnapshotStore) Restore(_ context.Context, orderID kernel.UUID, tag string) (*order.Memento, error) {
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].OrderID().IsEqual(orderID) && s.saved[i].Tag() == tag {
			return s.saved[i], nil
		}
	}
	return nil, errs.NewObjectNotFoundError("tag", tag)
}

func (s *fakeSnapshotStore) Latest(_ context.Context, orderID kernel.UUID) (*order.Memento, error) {
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].OrderID().IsEqual(orderID) {
			return s.saved[i], nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
}

func (s *fakeSnapshotStore) History(_ context.Context, orderID kernel.UUID) ([]order.MementoSummary, error) {
	var out []order.MementoSummary
	for _, m := range s.saved {
		if m.OrderID().IsEqual(orderID) {
			out = append(out, m.Summary())
		}
	}
	return out, nil
}

func (s *fakeSnapshotStore) Prune(context.Context, time.Time) (int, error) { return 0, nil }

func (s *fakeSnapshotStore) lastTag() string {
	if len(s.saved) == 0 {
		return ""
	}
	return s.saved[len(s.saved)-1].Tag()
}

type fakeNotifier struct {
	events []ports.Notification
}

func (n *fakeNotifier) NotifyNewOrder(_ context.Context, notification ports.Notification) {
	n.events = append(n.events, notification)
}

func (n *fakeNotifier) NotifyOrderReady(_ context.Context, notification ports.Notification) {
	n.events = append(n.events, notification)
}

func (n *fakeNotifier) NotifyOrderCancelled(_ context.Context, notification ports.Notification) {
	n.events = append(n.events, notification)
}

func (n *fakeNotifier) NotifyOrderModified(_ context.Context, notification ports.Notification) {
	n.events = append(n.events, notification)
}

func (n *fakeNotifier) kinds() []ports.EventKind {
	out := make([]ports.EventKind, 0, len(n.events))
	for _, event := range n.events {
		out = append(out, event.Kind)
	}
	return out
}

var testTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClock() ports.Clock {
	return ports.ClockFunc(func() time.Time { return testTime })
}

func newLifecycleForTest(t *testing.T) (*Lifecycle, *fakeSnapshotStore, *fakeNotifier) {
	t.Helper()
	snapshots := &fakeSnapshotStore{}
	notifier := &fakeNotifier{}
	lifecycle, err := NewLifecycle(snapshots, notifier, testClock(), testLogger())
	require.NoError(t, err)
	return lifecycle, snapshots, notifier
}

func newOrderWithLines(t *testing.T, lines ...*order.Line) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), nil, "Ana", nil, 3, "", testTime)
	require.NoError(t, err)
	for _, line := range lines {
		require.NoError(t, o.AddLine(line))
	}
	return o
}

func newLine(t *testing.T, name string, category menu.CategoryType, prepMinutes int, quantity int) *order.Line {
	t.Helper()
	product, err := menu.NewProduct(
		kernel.NewUUID(),
		name,
		category,
		kernel.MustPriceFromCents(300),
		prepMinutes,
		nil,
	)
	require.NoError(t, err)
	line, err := order.NewLine(kernel.NewUUID(), product, quantity, nil)
	require.NoError(t, err)
	return line
}
