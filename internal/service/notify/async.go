package notify

import (
	"context"
	"sync"
	"time"

	"github.com/nkiryanov/identity/internal/logger"
)

const (
	defaultCountWorkers = 4                // Number of workers delivering emails
	defaultQueueSize    = 256              // Emails waiting for a free worker
	defaultSendTimeout  = 15 * time.Second // Single delivery attempt timeout
)

// Async sends emails in background with a fixed pool of workers.
// Send never blocks nor fails: delivery errors are logged, and emails
// that do not fit into the queue are dropped with a warning.
type Async struct {
	next    EmailSender
	logger  logger.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Email
	wg     sync.WaitGroup
}

func NewAsync(next EmailSender, log logger.Logger) *Async {
	return newAsync(next, log, defaultCountWorkers, defaultQueueSize, defaultSendTimeout)
}

func newAsync(next EmailSender, log logger.Logger, countWorkers int, queueSize int, timeout time.Duration) *Async {
	a := &Async{
		next:    next,
		logger:  log,
		timeout: timeout,
		queue:   make(chan Email, queueSize),
	}

	for range countWorkers {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.worker()
		}()
	}

	return a
}

func (a *Async) Send(_ context.Context, email Email) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.logger.Warn("Email dropped, sender closed", "to", email.To)
		return nil
	}

	select {
	case a.queue <- email:
	default:
		a.logger.Warn("Email dropped, queue is full", "to", email.To)
	}
	return nil
}

// Close stops accepting emails and waits until queued ones are delivered
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Debug("Email sender stopped")
}

func (a *Async) worker() {
	for email := range a.queue {
		a.deliver(email)
	}
}

func (a *Async) deliver(email Email) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.next.Send(ctx, email); err != nil {
		a.logger.Warn("Email not sent", "to", email.To, "error", err)
	}
}
