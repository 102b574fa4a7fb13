// Package sms provides the outbound SMS transport and the TwiML
// webhook-reply markup.
package sms

import (
	"context"

	"go.uber.org/zap"
)

// Message is one outbound SMS.
type Message struct {
	To   string
	Body string
}

// Messenger sends SMS messages. Implementations include the Twilio REST
// client and a noop stub used when credentials are absent.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
	// Delivers reports whether Send reaches a real provider. Callers
	// treat a non-delivering transport as an unconfigured one.
	Delivers() bool
}

// NoopMessenger logs sends without delivering anything. It stands in
// whenever the SMS transport is not fully configured, so notification
// is silently skipped rather than queued.
type NoopMessenger struct {
	Logger *zap.Logger
}

// Send logs the message and reports success.
func (n *NoopMessenger) Send(ctx context.Context, msg Message) error {
	if n.Logger != nil {
		n.Logger.Info("noop sms send",
			zap.String("to", msg.To),
			zap.Int("body_len", len(msg.Body)),
		)
	}
	return nil
}

// Delivers reports false; nothing leaves the process.
func (n *NoopMessenger) Delivers() bool {
	return false
}
