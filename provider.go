package confkit

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Dependency identifies an externally managed value that an async
// configuration factory receives as an argument.
type Dependency string

// Resolver supplies the current instance for a declared dependency. The
// hosting application decides what a Dependency maps to; the factory only
// passes resolved values through to configuration factories in declaration
// order.
type Resolver interface {
	Resolve(ctx context.Context, dep Dependency) (any, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, dep Dependency) (any, error)

func (f ResolverFunc) Resolve(ctx context.Context, dep Dependency) (any, error) {
	return f(ctx, dep)
}

// StaticResolver resolves dependencies from a fixed map. Useful in tests and
// in applications that wire dependencies by hand.
type StaticResolver map[Dependency]any

func (r StaticResolver) Resolve(_ context.Context, dep Dependency) (any, error) {
	v, ok := r[dep]
	if !ok {
		return nil, errors.Newf("dependency %s not registered", dep)
	}
	return v, nil
}

// FactoryFunc produces a configuration value. The deps slice carries the
// resolved values for the dependencies declared at registration, in the
// same order.
type FactoryFunc[T any] func(ctx context.Context, deps ...any) (T, error)

// provider normalizes sync and async configuration sources into one
// resolution contract. A sync provider holds its value from construction;
// an async provider invokes its factory at most once and caches the
// outcome, success or failure.
type provider[T any] struct {
	once    sync.Once
	value   T
	err     error
	factory FactoryFunc[T]
	deps    []Dependency
}

func syncProvider[T any](v T) *provider[T] {
	p := &provider[T]{value: v}
	p.once.Do(func() {})
	return p
}

func asyncProvider[T any](factory FactoryFunc[T], deps []Dependency) *provider[T] {
	return &provider[T]{factory: factory, deps: deps}
}

// resolve returns the provider's value, invoking the factory on first call.
// Concurrent callers block on the in-flight attempt and share its outcome;
// a failed attempt is terminal and every later call returns the same error.
func (p *provider[T]) resolve(ctx context.Context, r Resolver) (T, error) {
	p.once.Do(func() {
		args := make([]any, 0, len(p.deps))
		for _, dep := range p.deps {
			if r == nil {
				p.err = missingDependency(dep, errors.New("no resolver configured"))
				return
			}
			v, err := r.Resolve(ctx, dep)
			if err != nil {
				p.err = missingDependency(dep, err)
				return
			}
			args = append(args, v)
		}
		p.value, p.err = p.factory(ctx, args...)
	})
	return p.value, p.err
}
