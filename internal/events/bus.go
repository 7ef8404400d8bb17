package events

import (
	"sync"

	"github.com/bbyte-app/backend/internal/logger"
	"go.uber.org/zap"
)

// Event is a domain event published after a successful write.
type Event interface {
	Name() string
}

// HandlerFunc consumes one event. Handlers run on bus workers, off the
// request path; they must not assume a request context.
type HandlerFunc func(evt Event)

// Bus is the in-process publish/subscribe pair the handlers fire domain
// events through. Publishing enqueues; a small worker pool dispatches to
// every handler subscribed to the event's name. Whether this maps to an
// external queue later is a deployment concern, not an API one.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc

	queue   chan Event
	wg      sync.WaitGroup // workers
	pending sync.WaitGroup // enqueued-but-unhandled events

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewBus creates a bus with the given queue capacity.
func NewBus(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
		queue:    make(chan Event, queueSize),
	}
}

// Subscribe registers a handler for an event name. Subscriptions made after
// Start are picked up by subsequent events.
func (b *Bus) Subscribe(name string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish enqueues an event for asynchronous dispatch. It never blocks the
// caller: if the queue is full the event is dropped with an error log,
// which loses a notification rather than a write.
func (b *Bus) Publish(evt Event) {
	b.pending.Add(1)
	select {
	case b.queue <- evt:
	default:
		b.pending.Done()
		logger.Log.Error("Event queue full, dropping event",
			zap.String("event", evt.Name()),
		)
	}
}

// Start launches the worker pool.
func (b *Bus) Start(workers int) {
	if workers <= 0 {
		workers = 2
	}
	b.startOnce.Do(func() {
		for i := 0; i < workers; i++ {
			b.wg.Add(1)
			go b.work()
		}
	})
}

// Stop closes the queue and waits for in-flight events to finish.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		close(b.queue)
		b.wg.Wait()
	})
}

// Drain blocks until every published event has been handled. Test hook.
func (b *Bus) Drain() {
	b.pending.Wait()
}

func (b *Bus) work() {
	defer b.wg.Done()
	for evt := range b.queue {
		b.dispatch(evt)
		b.pending.Done()
	}
}

func (b *Bus) dispatch(evt Event) {
	b.mu.RLock()
	hs := b.handlers[evt.Name()]
	b.mu.RUnlock()

	for _, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Log.Error("Event handler panicked",
						zap.String("event", evt.Name()),
						zap.Any("panic", r),
					)
				}
			}()
			h(evt)
		}()
	}
}
