package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/push"
)

// Config holds push dispatcher configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 256
	SendTimeout time.Duration // default: 10 seconds
}

// Job is one push message for one user.
type Job struct {
	UserID       string
	Subscription user.PushSubscription
	Payload      []byte
}

// Dispatcher delivers web pushes on background workers. Delivery failures are
// logged and never reported to the caller.
type Dispatcher struct {
	notifier chat.Notifier
	users    user.UserRepository
	config   Config

	mu      sync.RWMutex
	stopped bool
	queue   chan Job
	wg      sync.WaitGroup
}

// NewDispatcher starts the background workers. Call Stop to drain them.
func NewDispatcher(notifier chat.Notifier, users user.UserRepository, cfg Config) *Dispatcher {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		notifier: notifier,
		users:    users,
		config:   cfg,
		queue:    make(chan Job, cfg.QueueSize),
	}
	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	slog.Info("push dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return d
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for job := range d.queue {
		d.deliver(id, job)
	}
}

func (d *Dispatcher) deliver(worker int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.SendTimeout)
	defer cancel()

	err := d.notifier.Notify(ctx, job.Subscription, job.Payload)
	if err == nil {
		return
	}
	slog.Warn("push delivery failed", "worker", worker, "user_id", job.UserID, "error", err)

	if errors.Is(err, push.ErrSubscriptionGone) {
		if err := d.users.UpdatePushSubscription(ctx, job.UserID, nil); err != nil {
			slog.Warn("failed to clear stale push subscription", "user_id", job.UserID, "error", err)
		}
	}
}

// Push queues a job. It never blocks; when the queue is full or the
// dispatcher is stopped the job is dropped.
func (d *Dispatcher) Push(job Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}

	select {
	case d.queue <- job:
		return true
	default:
		slog.Warn("push queue full, dropping message", "user_id", job.UserID)
		return false
	}
}

// Stop delivers what is already queued and waits for the workers to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	slog.Info("push dispatcher stopped")
}
