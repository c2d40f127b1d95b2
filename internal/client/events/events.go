// Package events is a small synchronous observer bus that lets stores react
// to each other without importing one another.
package events

import "sync"

type Kind string

const SessionEnded Kind = "session_ended"

type Reason string

const (
	ReasonLogout  Reason = "logout"
	ReasonExpired Reason = "expired"
)

type Event struct {
	Kind   Kind
	Reason Reason
}

type Publisher interface {
	Publish(Event)
}

type Subscriber interface {
	Subscribe(kind Kind, fn func(Event)) (unsubscribe func())
}

type Broker interface {
	Publisher
	Subscriber
}

// Bus delivers events to handlers on the publishing goroutine, in
// subscription order. Publish returns after every handler has run.
type Bus struct {
	mu       sync.Mutex
	next     int
	handlers map[Kind][]handler
}

type handler struct {
	id int
	fn func(Event)
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]handler)}
}

func (b *Bus) Subscribe(kind Kind, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.handlers[kind] = append(b.handlers[kind], handler{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			hs := b.handlers[kind]
			for i, h := range hs {
				if h.id == id {
					b.handlers[kind] = append(hs[:i:i], hs[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	hs := append([]handler(nil), b.handlers[e.Kind]...)
	b.mu.Unlock()

	// handlers run unlocked so they may publish or subscribe themselves
	for _, h := range hs {
		h.fn(e)
	}
}
