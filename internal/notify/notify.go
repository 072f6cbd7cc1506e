// Package notify carries short, transient messages about task mutations
// from the store to whatever presentation is listening.
package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	SeverityNormal Severity = "normal"
	SeverityError  Severity = "error"
)

type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// IsError reports whether the notification should be shown as a failure.
func (n Notification) IsError() bool {
	return n.Severity == SeverityError
}

// Notifier receives notifications. Implementations must not block for long.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops everything.
var Discard Notifier = Func(func(Notification) {})

// Hub fans a notification out to every current subscriber.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Notification)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Notification))}
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Notification)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Notify(n Notification) {
	h.mu.RLock()
	subs := make([]func(Notification), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
