package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cafe/internal/core/ports"
)

// smsMaxLength is the single-segment SMS limit; longer messages are
// truncated rather than split.
const smsMaxLength = 160

// ConsoleSink writes notifications to a terminal, the kitchen-display
// stand-in for local runs.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink creates a sink writing to the given writer.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

// Channel names the delivery channel.
func (s *ConsoleSink) Channel() string { return "console" }

// Send prints the notification.
func (s *ConsoleSink) Send(_ context.Context, recipient string, notification ports.Notification) error {
	_, err := fmt.Fprintf(s.out, "[%s] to %s: %s (table %d, status %s)\n",
		notification.Kind, recipient, notification.Message,
		notification.TableNumber, notification.Status)
	return err
}

// EmailSink simulates email delivery by logging the rendered message.
type EmailSink struct {
	logger *slog.Logger
}

// NewEmailSink creates a simulated email sink.
func NewEmailSink(logger *slog.Logger) *EmailSink {
	return &EmailSink{logger: logger.With("channel", "email")}
}

// Channel names the delivery channel.
func (s *EmailSink) Channel() string { return "email" }

// Send logs the email that would be sent.
func (s *EmailSink) Send(ctx context.Context, recipient string, notification ports.Notification) error {
	s.logger.InfoContext(ctx, "email sent",
		"to", recipient,
		"subject", fmt.Sprintf("Café del Bosque - %s", notification.Kind),
		"body", notification.Message,
	)
	return nil
}

// SMSSink simulates SMS delivery, truncating to one segment.
type SMSSink struct {
	logger *slog.Logger
}

// NewSMSSink creates a simulated SMS sink.
func NewSMSSink(logger *slog.Logger) *SMSSink {
	return &SMSSink{logger: logger.With("channel", "sms")}
}

// Channel names the delivery channel.
func (s *SMSSink) Channel() string { return "sms" }

// Send logs the SMS that would be sent.
func (s *SMSSink) Send(ctx context.Context, recipient string, notification ports.Notification) error {
	message := notification.Message
	if len(message) > smsMaxLength {
		message = message[:smsMaxLength]
	}
	s.logger.InfoContext(ctx, "sms sent", "to", recipient, "body", message)
	return nil
}

// PushSink simulates mobile push delivery.
type PushSink struct {
	logger *slog.Logger
}

// NewPushSink creates a simulated push sink.
func NewPushSink(logger *slog.Logger) *PushSink {
	return &PushSink{logger: logger.With("channel", "push")}
}

// Channel names the delivery channel.
func (s *PushSink) Channel() string { return "push" }

// Send logs the push notification that would be sent.
func (s *PushSink) Send(ctx context.Context, recipient string, notification ports.Notification) error {
	s.logger.InfoContext(ctx, "push sent",
		"to", recipient,
		"title", string(notification.Kind),
		"body", notification.Message,
	)
	return nil
}
