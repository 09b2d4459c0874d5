// Package feed fans game lifecycle events out to live listeners such as
// SSE and WebSocket clients.
package feed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/events"
	"github.com/rs/zerolog"
)

const defaultBuffer = 16

// Hub is a minimal pub/sub for game events. Slow listeners miss events
// rather than blocking publishers.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]chan events.Event
	nextID  uint64
	buffer  int
	dropped atomic.Int64
	done    chan struct{}
	once    sync.Once
	logger  zerolog.Logger
}

// NewHub creates a hub whose listeners buffer up to buffer events.
func NewHub(buffer int, logger zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]chan events.Event),
		buffer: buffer,
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "feed").Logger(),
	}
}

// Publish delivers event to every listener without blocking.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
			h.logger.Debug().
				Uint64("listener", id).
				Str("event", string(event.Type)).
				Msg("Listener buffer full, event dropped")
		}
	}
	return nil
}

// Listen returns a channel of events plus a cancel function to stop
// listening. The channel is closed when ctx ends, cancel is called or the
// hub is closed.
func (h *Hub) Listen(ctx context.Context) (<-chan events.Event, context.CancelFunc) {
	listenerCtx, cancel := context.WithCancel(ctx)
	ch := make(chan events.Event, h.buffer)

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		close(ch)
		return ch, cancel
	default:
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		select {
		case <-listenerCtx.Done():
		case <-h.done:
		}
		h.remove(id)
	}()

	return ch, cancel
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Listeners returns the number of active listeners.
func (h *Hub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped because a listener was
// full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close disconnects every listener.
func (h *Hub) Close() error {
	h.once.Do(func() { close(h.done) })
	return nil
}
