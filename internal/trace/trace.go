// ABOUTME: Typed event bus carrying diagnostic trace events from the diagnose pipeline
// ABOUTME: Subscribers get component/stage/outcome events; goroutine-safe delivery

package trace

import "sync"

// Stage identifies a pipeline stage that emitted an event.
type Stage string

// Pipeline stages, in the order a call moves through them.
const (
	StageRequest   Stage = "request"
	StageTransport Stage = "transport"
	StageExtract   Stage = "extract"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
)

// Outcome classifies how a stage finished.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFailed   Outcome = "failed"
	OutcomeFallback Outcome = "fallback"
)

// Event is a single diagnostic emission from the pipeline.
type Event struct {
	Component string
	Stage     Stage
	Outcome   Outcome
	Detail    string
	Err       error
}

// Handler is a callback for trace events.
type Handler func(Event)

// Bus delivers trace events to registered handlers. The zero value is not
// usable; construct with New. A nil *Bus is safe to publish to.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns an unsubscribe function.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish sends an event to all registered handlers, synchronously and in
// arbitrary order. Publishing to a nil bus is a no-op so callers do not have
// to guard every emission site.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	// Snapshot to avoid holding the lock during callbacks.
	snapshot := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(ev)
	}
}

// Count returns the number of registered handlers.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
