package session

import "sync"

// Session is the read-only auth context handed to storefront components.
// Tokens are minted by the external auth provider; this package only carries
// them.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Provider holds the process-wide session and notifies subscribers on change.
// Components receive a *Provider explicitly instead of reading a global.
type Provider struct {
	mu      sync.RWMutex
	current Session
	subs    map[int]func(Session)
	nextID  int
}

// NewProvider seeds a provider with the given session.
func NewProvider(initial Session) *Provider {
	return &Provider{
		current: initial,
		subs:    make(map[int]func(Session)),
	}
}

// Current returns the session as of now.
func (p *Provider) Current() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Set replaces the session and notifies subscribers with the new value.
func (p *Provider) Set(next Session) {
	p.mu.Lock()
	p.current = next
	subs := make([]func(Session), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers a change callback and returns an unsubscribe func.
func (p *Provider) Subscribe(fn func(Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}
