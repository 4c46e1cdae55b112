// Package identity models the authentication collaborator: it tracks the
// current principal and fans out established/cleared events to scoped
// subscriptions.
package identity

import "sync"

type EventType int

const (
	EventEstablished EventType = iota
	EventCleared
)

type Event struct {
	Type   EventType
	UserID string
}

type Provider struct {
	mu      sync.RWMutex
	current string
	subs    map[int]func(Event)
	nextID  int
}

func NewProvider() *Provider {
	return &Provider{
		subs: make(map[int]func(Event)),
	}
}

// Establish records the identity and notifies subscribers. Callbacks run
// synchronously on the caller's goroutine.
func (p *Provider) Establish(userID string) {
	p.mu.Lock()
	p.current = userID
	handlers := p.handlersLocked()
	p.mu.Unlock()

	for _, fn := range handlers {
		fn(Event{Type: EventEstablished, UserID: userID})
	}
}

// Clear drops the identity and notifies subscribers. Clearing with no
// identity established is a no-op.
func (p *Provider) Clear() {
	p.mu.Lock()
	userID := p.current
	if userID == "" {
		p.mu.Unlock()
		return
	}
	p.current = ""
	handlers := p.handlersLocked()
	p.mu.Unlock()

	for _, fn := range handlers {
		fn(Event{Type: EventCleared, UserID: userID})
	}
}

func (p *Provider) Current() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.current != ""
}

// Subscribe registers fn for identity events and returns the handle that
// releases it. Callers must Cancel the subscription on teardown.
func (p *Provider) Subscribe(fn func(Event)) *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	return &Subscription{
		cancel: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
		},
	}
}

func (p *Provider) handlersLocked() []func(Event) {
	handlers := make([]func(Event), 0, len(p.subs))
	for _, fn := range p.subs {
		handlers = append(handlers, fn)
	}
	return handlers
}

// Subscription is the scoped release handle for an identity listener.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
