package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cafe/internal/core/ports"
)

type recordingSink struct {
	channel    string
	recipients []string
	err        error
}

func (s *recordingSink) Send(_ context.Context, recipient string, _ ports.Notification) error {
	s.recipients = append(s.recipients, recipient)
	return s.err
}

func (s *recordingSink) Channel() string { return s.channel }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func notification(kind ports.EventKind, waiterID, customerName string) ports.Notification {
	return ports.Notification{
		Kind:         kind,
		OrderID:      "order-1",
		Status:       "READY",
		TableNumber:  4,
		CustomerName: customerName,
		WaiterID:     waiterID,
		Message:      "order order-1: ready to serve",
	}
}

func TestFanOut_NewOrderGoesToKitchenOnly(t *testing.T) {
	fanout := NewFanOut(testLogger())
	kitchen := &recordingSink{channel: "console"}
	waiter := &recordingSink{channel: "push"}
	fanout.SubscribeKitchen("kitchen-display", kitchen)
	fanout.SubscribeWaiter("w-1", waiter)

	fanout.NotifyNewOrder(t.Context(), notification(ports.EventNewOrder, "", ""))

	assert.Equal(t, []string{"kitchen-display"}, kitchen.recipients)
	assert.Empty(t, waiter.recipients)
}

func TestFanOut_OrderReadyTargetsAssignedWaiterAndCustomer(t *testing.T) {
	fanout := NewFanOut(testLogger())
	assigned := &recordingSink{channel: "push"}
	other := &recordingSink{channel: "push"}
	customer := &recordingSink{channel: "sms"}
	fanout.SubscribeWaiter("w-1", assigned)
	fanout.SubscribeWaiter("w-2", other)
	fanout.SubscribeCustomer("Ana", customer)

	fanout.NotifyOrderReady(t.Context(), notification(ports.EventOrderReady, "w-1", "Ana"))

	assert.Equal(t, []string{"w-1"}, assigned.recipients)
	assert.Empty(t, other.recipients)
	assert.Equal(t, []string{"Ana"}, customer.recipients)
}

func TestFanOut_OrderReadyWithoutWaiterBroadcastsToAll(t *testing.T) {
	fanout := NewFanOut(testLogger())
	first := &recordingSink{channel: "push"}
	second := &recordingSink{channel: "push"}
	fanout.SubscribeWaiter("w-1", first)
	fanout.SubscribeWaiter("w-2", second)

	fanout.NotifyOrderReady(t.Context(), notification(ports.EventOrderReady, "", ""))

	assert.Equal(t, []string{"w-1"}, first.recipients)
	assert.Equal(t, []string{"w-2"}, second.recipients)
}

func TestFanOut_CancellationReachesEveryone(t *testing.T) {
	fanout := NewFanOut(testLogger())
	kitchen := &recordingSink{channel: "console"}
	waiter := &recordingSink{channel: "push"}
	customer := &recordingSink{channel: "sms"}
	fanout.SubscribeKitchen("kitchen-display", kitchen)
	fanout.SubscribeWaiter("w-1", waiter)
	fanout.SubscribeCustomer("Ana", customer)

	fanout.NotifyOrderCancelled(t.Context(), notification(ports.EventOrderCancelled, "", "Ana"))

	assert.Len(t, kitchen.recipients, 1)
	assert.Len(t, waiter.recipients, 1)
	assert.Len(t, customer.recipients, 1)
}

func TestFanOut_SinkFailureDoesNotStopDelivery(t *testing.T) {
	fanout := NewFanOut(testLogger())
	failing := &recordingSink{channel: "email", err: errors.New("smtp down")}
	healthy := &recordingSink{channel: "console"}
	fanout.SubscribeKitchen("printer", failing)
	fanout.SubscribeKitchen("display", healthy)

	fanout.NotifyNewOrder(t.Context(), notification(ports.EventNewOrder, "", ""))

	assert.Len(t, failing.recipients, 1)
	assert.Len(t, healthy.recipients, 1)
}

func TestConsoleSink_FormatsNotification(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	err := sink.Send(t.Context(), "kitchen-display", notification(ports.EventNewOrder, "", "Ana"))

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "NEW_ORDER")
	assert.Contains(t, buf.String(), "kitchen-display")
	assert.Contains(t, buf.String(), "table 4")
}

func TestSMSSink_TruncatesLongMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sink := NewSMSSink(logger)

	long := notification(ports.EventOrderReady, "", "Ana")
	long.Message = strings.Repeat("x", 300)

	assert.NoError(t, sink.Send(t.Context(), "555-0100", long))
	assert.Contains(t, buf.String(), strings.Repeat("x", smsMaxLength))
	assert.NotContains(t, buf.String(), strings.Repeat("x", smsMaxLength+1))
}
