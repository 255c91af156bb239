// Package notify publishes build results to NATS so other tooling (a docs
// server, chat bots) can react to fresh documentation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
)

// Event is the JSON message published after every build.
type Event struct {
	BuildID    string    `json:"build_id"`
	Project    string    `json:"project"`
	Version    string    `json:"version,omitempty"`
	Outcome    string    `json:"outcome"`
	Sources    int       `json:"sources"`
	DurationMS int64     `json:"duration_ms"`
	IndexPath  string    `json:"index_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier delivers build events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close()
}

// NoopNotifier drops events (default when notifications are not configured).
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }
func (NoopNotifier) Close()                              {}

// conn is the subset of *nats.Conn the notifier uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

const flushTimeout = 5 * time.Second

// NATSNotifier publishes events on a core NATS subject.
type NATSNotifier struct {
	conn    conn
	subject string
}

// NewNATSNotifier connects to url and publishes on subject.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	nc, err := nats.Connect(url,
		nats.Name("doxybuilder"),
		nats.Timeout(flushTimeout),
		nats.MaxReconnects(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS notifier connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSNotifier{conn: nc, subject: subject}, nil
}

// Notify publishes event and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}

	slog.Debug("Published build event", logfields.BuildID(event.BuildID), slog.String("subject", n.subject))
	return nil
}

// Close closes the NATS connection.
func (n *NATSNotifier) Close() {
	n.conn.Close()
}
