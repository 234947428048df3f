package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avenford/workflow-backend/internal/application/service"
)

// NotificationWorker delivers submitter emails off the request path.
// Dispatch is a non-blocking queue handoff: the transition that produced
// a notification has already committed by the time delivery is attempted,
// so delivery failures are logged here and go nowhere else.
type NotificationWorker struct {
	service     service.NotificationService
	queue       chan service.Notification
	sendTimeout time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewNotificationWorker creates a new NotificationWorker with the given
// queue capacity
func NewNotificationWorker(svc service.NotificationService, queueSize int, sendTimeout time.Duration, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &NotificationWorker{
		service:     svc,
		queue:       make(chan service.Notification, queueSize),
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// Name returns the worker name
func (w *NotificationWorker) Name() string {
	return "notification-worker"
}

// Dispatch enqueues a notification for delivery. It never blocks; when
// the queue is full the notification is dropped and logged, keeping the
// originating request unaffected.
func (w *NotificationWorker) Dispatch(n service.Notification) {
	select {
	case w.queue <- n:
	default:
		w.logger.Error("Notification queue full, dropping notification",
			zap.String("submission_id", n.SubmissionID),
			zap.String("kind", string(n.Kind)),
			zap.String("to", n.To))
	}
}

// Start launches the delivery loop
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("notification worker already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true

	go w.run(runCtx)

	w.logger.Info("Notification worker started",
		zap.Int("queue_capacity", cap(w.queue)))
	return nil
}

// Stop drains the queue and stops the delivery loop
func (w *NotificationWorker) Stop() error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.logger.Info("Notification worker stopped")
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case n := <-w.queue:
			w.deliver(n)
		case <-ctx.Done():
			w.drain()
			return
		}
	}
}

// drain delivers whatever is still queued at shutdown
func (w *NotificationWorker) drain() {
	for {
		select {
		case n := <-w.queue:
			w.deliver(n)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(n service.Notification) {
	// Delivery runs on its own deadline, detached from the request that
	// produced the notification.
	ctx, cancel := context.WithTimeout(context.Background(), w.sendTimeout)
	defer cancel()

	if err := w.service.Send(ctx, n); err != nil {
		w.logger.Error("Notification delivery failed",
			zap.Error(err),
			zap.String("submission_id", n.SubmissionID),
			zap.String("kind", string(n.Kind)),
			zap.String("to", n.To))
	}
}

// Verify interface compliance
var _ service.NotificationDispatcher = (*NotificationWorker)(nil)
