package server

import (
	"context"
	"encoding/json"
	"sync"
)

// Event is one readiness notification from the multiplexer: a newly
// accepted connection, a complete message, or a terminal error (io.EOF for
// an orderly disconnect).
type Event struct {
	// Accepted is set for new connections from the listener.
	Accepted *Endpoint
	// Endpoint is the connection a message or error belongs to.
	Endpoint *Endpoint
	// Payload is one complete request message.
	Payload json.RawMessage
	// Err terminates the endpoint when set.
	Err error
}

// Multiplexer watches a dynamic set of endpoints and delivers readiness
// events to a single consumer. The classic reactor would poll raw sockets;
// here each endpoint gets a reader goroutine that parks in Receive and
// forwards complete messages into one channel, so a slow or silent client
// never stalls the service loop. Poll is the loop's only suspension point.
//
// Endpoints are tagged owned or borrowed: owned endpoints (accepted
// clients) are closed by the multiplexer on removal and teardown, borrowed
// ones (the listener) are the caller's to close.
type Multiplexer struct {
	events chan Event
	done   chan struct{}

	mu    sync.Mutex
	owned map[*Endpoint]bool

	wg sync.WaitGroup
}

// NewMultiplexer builds an empty multiplexer.
func NewMultiplexer() *Multiplexer {
	return &Multiplexer{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
		owned:  map[*Endpoint]bool{},
	}
}

// AddListener watches a borrowed listener; each accepted connection is
// delivered as an Event with Accepted set. The watch ends when the
// listener is closed.
func (m *Multiplexer) AddListener(l *Listener) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			ep, err := l.Accept()
			if err != nil {
				// Listener closed during shutdown.
				return
			}
			if !m.emit(Event{Accepted: ep}) {
				ep.Close()
				return
			}
		}
	}()
}

// AddRead watches an endpoint for complete messages until it errors or the
// multiplexer shuts down.
func (m *Multiplexer) AddRead(e *Endpoint, owned bool) {
	m.mu.Lock()
	m.owned[e] = owned
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			raw, err := e.Receive()
			if err != nil {
				m.emit(Event{Endpoint: e, Err: err})
				return
			}
			if !m.emit(Event{Endpoint: e, Payload: raw}) {
				return
			}
		}
	}()
}

// Remove drops an endpoint, closing it if owned. Idempotent: the reader's
// final error event may arrive after removal and trigger a second call.
func (m *Multiplexer) Remove(e *Endpoint) {
	m.mu.Lock()
	owned, tracked := m.owned[e]
	delete(m.owned, e)
	m.mu.Unlock()
	if tracked && owned {
		e.Close()
	}
}

// Poll blocks until an endpoint is ready or the context ends.
func (m *Multiplexer) Poll(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev := <-m.events:
		return ev, nil
	}
}

// Close tears down every owned endpoint and joins all watch goroutines.
// The multiplexer must not be used afterwards.
func (m *Multiplexer) Close() {
	close(m.done)

	m.mu.Lock()
	for e, owned := range m.owned {
		if owned {
			e.Close()
		}
	}
	m.owned = map[*Endpoint]bool{}
	m.mu.Unlock()

	// Drain so readers blocked on emit can exit.
	go func() {
		for range m.events {
		}
	}()
	m.wg.Wait()
	close(m.events)
}

// emit delivers an event unless the multiplexer is shutting down.
func (m *Multiplexer) emit(ev Event) bool {
	select {
	case m.events <- ev:
		return true
	case <-m.done:
		return false
	}
}
