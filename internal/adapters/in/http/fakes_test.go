package http

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// fakeUoW wraps shared in-memory repositories; every Create hands out a
// fresh instance over the same repositories.
type fakeUoW struct {
	repos *fakeRepos
}

type fakeRepos struct {
	orders   *fakeOrderRepo
	stations *fakeStationRepo
	queue    *fakeQueueRepo
	history  *fakeHistoryRepo
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		orders:   &fakeOrderRepo{byID: make(map[string]*order.Order)},
		stations: &fakeStationRepo{},
		queue:    &fakeQueueRepo{},
		history:  &fakeHistoryRepo{},
	}
}

func (u *fakeUoW) Begin(context.Context) error    { return nil }
func (u *fakeUoW) Commit(context.Context) error   { return nil }
func (u *fakeUoW) Rollback(context.Context) error { return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository               { return u.repos.orders }
func (u *fakeUoW) StationRepository() ports.StationRepository           { return u.repos.stations }
func (u *fakeUoW) StationQueueRepository() ports.StationQueueRepository { return u.repos.queue }
func (u *fakeUoW) OrderHistoryRepository() ports.OrderHistoryRepository {
	return u.repos.history
}

type fakeUoWFactory struct {
	repos *fakeRepos
}

func (f *fakeUoWFactory) Create() commands.UoW {
	return &fakeUoW{repos: f.repos}
}

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

type fakeHistoryRepo struct {
	records []order.HistoryRecord
}

func (r *fakeHistoryRepo) Append(_ context.Context, record order.HistoryRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *fakeHistoryRepo) ListForOrder(_ context.Context, orderID kernel.UUID) ([]order.HistoryRecord, error) {
	var out []order.HistoryRecord
	for _, record := range r.records {
		if record.OrderID.IsEqual(orderID) {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	byID map[string]menu.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{byID: make(map[string]menu.Product)}
}

func (c *fakeCatalog) GetProduct(_ context.Context, id kernel.UUID) (menu.Product, error) {
	product, ok := c.byID[id.String()]
	if !ok {
		return menu.Product{}, errs.NewObjectNotFoundError("productId", id.String())
	}
	return product, nil
}

func (c *fakeCatalog) addProduct(t *testing.T, name string, category menu.CategoryType, cents int64, prepMinutes int) kernel.UUID {
	t.Helper()
	id := kernel.NewUUID()
	product, err := menu.NewProduct(id, name, category, kernel.MustPriceFromCents(cents), prepMinutes, nil)
	require.NoError(t, err)
	c.byID[id.String()] = product
	return id
}

type fakeNotifier struct{}

func (fakeNotifier) NotifyNewOrder(context.Context, ports.Notification)       {}
func (fakeNotifier) NotifyOrderReady(context.Context, ports.Notification)     {}
func (fakeNotifier) NotifyOrderCancelled(context.Context, ports.Notification) {}
func (fakeNotifier) NotifyOrderModified(context.Context, ports.Notification)  {}

var testTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClock() ports.Clock {
	return ports.ClockFunc(func() time.Time { return testTime })
}
