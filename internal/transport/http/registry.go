package http

import "sync"

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// connection pairs an outbound channel with the flag guarding its closure.
// Every send and the close itself happen under mu, so an emit racing a
// teardown observes the closed flag instead of a closed channel.
type connection struct {
	mu     sync.Mutex
	ch     chan outboundMessage
	closed bool
}

// Registry tracks connected clients and implements app.Emitter. Sends never
// block: the engine may emit while holding a session lock, so a slow client
// loses its oldest queued event instead of stalling a round transition.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*connection
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*connection)}
}

// Add registers a connection and returns its outbound channel.
func (r *Registry) Add(connectionID string) chan outboundMessage {
	c := &connection{ch: make(chan outboundMessage, 32)}
	r.mu.Lock()
	r.conns[connectionID] = c
	r.mu.Unlock()
	return c.ch
}

// Remove unregisters a connection and closes its channel so the writer
// goroutine draining it exits.
func (r *Registry) Remove(connectionID string) {
	r.mu.Lock()
	c, ok := r.conns[connectionID]
	if ok {
		delete(r.conns, connectionID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	c.mu.Lock()
	c.closed = true
	close(c.ch)
	c.mu.Unlock()
}

// Emit queues an event for one connection. Unknown or already-removed
// connections are dropped silently; they have already disconnected.
func (r *Registry) Emit(connectionID, event string, payload any) {
	r.mu.RLock()
	c, ok := r.conns[connectionID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	msg := outboundMessage{Type: event, Payload: payload}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- msg:
	default:
		// drop the oldest queued event rather than block the emitter
		select {
		case <-c.ch:
		default:
		}
		select {
		case c.ch <- msg:
		default:
		}
	}
}
