package confkit

import "sync"

// registry is the token-keyed provider store owned by one Factory. Tokens
// are write-once: a second put under the same token is rejected so that
// duplicate registrations surface as errors instead of silent overwrites.
type registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]*provider[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{entries: make(map[string]*provider[T])}
}

// put stores p under token and reports whether the token was free.
func (r *registry[T]) put(token string, p *provider[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.entries[token]; taken {
		return false
	}
	r.entries[token] = p
	return true
}

func (r *registry[T]) get(token string) (*provider[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.entries[token]
	return p, ok
}
