// Package notify delivers signal and result messages to an external
// channel and returns handles used to thread results onto their signals.
package notify

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"fx-signal-bot/internal/logger"
)

// ErrDeliveryFailed means the sink did not accept the message. The open
// path treats this as a reason not to persist the signal; the close path
// keeps the signal for a retry.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Notifier is the engine's view of the messaging channel.
type Notifier interface {
	// Send delivers a message and returns an opaque handle for reply
	// threading.
	Send(ctx context.Context, text string) (string, error)
	// SendReply delivers a message threaded to a previous handle.
	SendReply(ctx context.Context, text, handle string) error
}

// LogNotifier writes messages to the log instead of a channel. Used for
// dry runs and tests.
type LogNotifier struct {
	seq atomic.Int64
}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Send(ctx context.Context, text string) (string, error) {
	id := n.seq.Add(1)
	logger.Info(ctx, "Notification (log sink)", "handle", id, "text", text)
	return strconv.FormatInt(id, 10), nil
}

func (n *LogNotifier) SendReply(ctx context.Context, text, handle string) error {
	logger.Info(ctx, "Notification reply (log sink)", "reply_to", handle, "text", text)
	return nil
}
