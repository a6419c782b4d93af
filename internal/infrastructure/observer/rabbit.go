package observer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/internal/application"
)

// Publisher is satisfied by *helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Rabbit forwards events to a message queue for the event worker. Observe
// only enqueues; a single goroutine publishes. Events are dropped while the
// buffer is full.
type Rabbit struct {
	Pub     Publisher
	Logger  *logrus.Logger
	Timeout time.Duration

	mu       sync.RWMutex
	closed   bool
	events   chan application.Event
	done     chan struct{}
	dropping atomic.Bool
	dropped  atomic.Int64
}

// NewRabbit starts the publishing goroutine. Call Close to drain and stop it.
func NewRabbit(pub Publisher, logger *logrus.Logger, buffer int) *Rabbit {
	if buffer <= 0 {
		buffer = 1
	}
	r := &Rabbit{
		Pub:     pub,
		Logger:  logger,
		Timeout: 2 * time.Second,
		events:  make(chan application.Event, buffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Rabbit) Observe(e application.Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.events <- e:
	default:
		r.dropped.Add(1)
		if r.dropping.CompareAndSwap(false, true) && r.Logger != nil {
			r.Logger.WithField("event_id", e.ID).Warn("event buffer full, dropping events")
		}
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (r *Rabbit) Dropped() int64 { return r.dropped.Load() }

// Close stops accepting events and waits until the buffered ones are published.
func (r *Rabbit) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Rabbit) run() {
	defer close(r.done)
	for e := range r.events {
		r.publish(e)
	}
}

func (r *Rabbit) publish(e application.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()
	if err := r.Pub.PublishJSON(ctx, e); err != nil {
		if r.Logger != nil {
			r.Logger.WithError(err).WithField("event_id", e.ID).Warn("publish event failed")
		}
		return
	}
	if r.dropping.CompareAndSwap(true, false) && r.Logger != nil {
		r.Logger.WithField("dropped_total", r.dropped.Load()).Info("event publishing caught up")
	}
}
