package confkit

import "context"

// Holder reads the root configuration of one domain. It captures the
// factory's backing store and root token; it holds no state of its own.
type Holder[C any] struct {
	store    *registry[C]
	token    string
	resolver Resolver
}

// Get returns the registered root configuration, resolving it first if it
// was registered asynchronously. When no root was registered at all it
// returns the zero configuration and no error: root registration is
// optional, and a feature whose own options are self-sufficient resolves
// without one.
func (h *Holder[C]) Get(ctx context.Context) (C, error) {
	p, ok := h.store.get(h.token)
	if !ok {
		var zero C
		return zero, nil
	}
	return p.resolve(ctx, h.resolver)
}
