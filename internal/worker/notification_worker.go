package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/service"
)

const defaultQueueSize = 64

// NotificationWorker delivers ticket notifications off the request path.
// Events that arrive while the queue is full are dropped and logged.
type NotificationWorker struct {
	notifier *service.NotificationService
	logger   *zap.Logger
	queue    chan events.Event
	wg       sync.WaitGroup
}

// StartNotificationWorker registers the audit handlers, subscribes the
// delivery queue to ticket events and starts draining it until ctx ends.
func StartNotificationWorker(ctx context.Context, notifier *service.NotificationService, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationWorker {
	if notifier == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier.RegisterHandlers()

	w := &NotificationWorker{
		notifier: notifier,
		logger:   logger.Named("notify"),
		queue:    make(chan events.Event, defaultQueueSize),
	}
	if dispatcher != nil {
		for _, et := range service.TicketEvents {
			dispatcher.Subscribe(et, w.Enqueue)
		}
	}

	w.wg.Add(1)
	go w.run(ctx)
	return w
}

// Enqueue hands event to the worker without blocking.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Wait blocks until the worker has drained its queue after ctx ended.
func (w *NotificationWorker) Wait() {
	if w == nil {
		return
	}
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case event := <-w.queue:
			w.deliver(ctx, event)
		case <-ctx.Done():
			for {
				select {
				case event := <-w.queue:
					w.deliver(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	if err := w.notifier.Deliver(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}
