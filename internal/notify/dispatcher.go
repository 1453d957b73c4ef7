// dispatcher.go implements the bounded work queue between request handlers and
// the mail worker. Handlers enqueue after their transaction commits; the
// worker drains the queue in the background. Enqueue never blocks: when the
// queue is full the message is dropped and counted, because notification
// delivery is best-effort and must not add latency to the request path.
package notify

import (
	"context"
	"log/slog"

	"github.com/network-onboarding/network-onboarding/internal/config"
	"github.com/network-onboarding/network-onboarding/internal/telemetry"
)

// Enqueuer is the handler-facing side of the Dispatcher. Handlers depend on
// this interface so tests can record messages without a running worker.
type Enqueuer interface {
	Enqueue(msg Message)
}

// Dispatcher owns the notification queue and the worker that drains it.
type Dispatcher struct {
	mailer   Mailer
	cfg      *config.NotificationsConfig
	queue    chan Message
	stopChan chan struct{}
}

// NewDispatcher creates a Dispatcher. queueSize <= 0 falls back to 256.
func NewDispatcher(mailer Mailer, cfg *config.NotificationsConfig) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	return &Dispatcher{
		mailer:   mailer,
		cfg:      cfg,
		queue:    make(chan Message, size),
		stopChan: make(chan struct{}),
	}
}

// Enqueue offers a message to the queue without blocking. Disabled
// notifications and full-queue drops are both silent from the caller's side.
func (d *Dispatcher) Enqueue(msg Message) {
	if !d.cfg.Enabled {
		return
	}

	select {
	case d.queue <- msg:
		telemetry.NotificationsEnqueuedTotal.WithLabelValues(msg.Kind).Inc()
	default:
		telemetry.NotificationsDroppedTotal.Inc()
		slog.Warn("notification queue full, dropping message",
			"kind", msg.Kind, "to", msg.To)
	}
}

// Start runs the delivery loop until ctx is cancelled or Stop is called.
// It is a no-op when notifications are disabled or SMTP is not configured,
// so it is always safe to start regardless of deployment environment.
func (d *Dispatcher) Start(ctx context.Context) {
	if !d.cfg.Enabled {
		slog.Info("notification dispatcher: disabled (notifications.enabled=false)")
		return
	}
	if d.cfg.SMTP.Host == "" {
		slog.Info("notification dispatcher: disabled (notifications.smtp.host not set)")
		return
	}

	slog.Info("notification dispatcher started", "queue_size", cap(d.queue))

	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.stopChan:
			slog.Info("notification dispatcher stopped")
			return
		case <-ctx.Done():
			slog.Info("notification dispatcher context cancelled")
			return
		}
	}
}

// Stop signals the delivery loop to exit. Queued but undelivered messages are
// discarded; the queue holds best-effort traffic only.
func (d *Dispatcher) Stop() {
	close(d.stopChan)
}

func (d *Dispatcher) deliver(msg Message) {
	if err := d.mailer.Send(msg); err != nil {
		telemetry.NotificationsFailedTotal.WithLabelValues(msg.Kind).Inc()
		slog.Error("notification delivery failed",
			"kind", msg.Kind, "to", msg.To, "error", err)
		return
	}
	telemetry.NotificationsSentTotal.WithLabelValues(msg.Kind).Inc()
}
