package confkit

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Instantiator builds the client handle for one feature from its merged
// configuration. The factory never inspects the handle; validation of the
// merged configuration (and returning ErrInvalidConfiguration when it is
// incomplete) is the instantiator's responsibility.
type Instantiator[C, H any] func(ctx context.Context, feature string, merged C) (H, error)

// Teardown releases a client handle at application shutdown.
type Teardown[H any] func(ctx context.Context, handle H) error

// Feature registers configuration overrides for one named resource instance.
// Name may be left empty when the factory was given a name getter via
// WithNames and the options themselves carry the name.
type Feature[C any] struct {
	Name    string
	Options C
}

// AsyncFeature registers a feature whose configuration is produced by a
// factory function. The name must be known synchronously, which is why it
// lives on the descriptor rather than on the produced value.
type AsyncFeature[C any] struct {
	Name    string
	Factory FactoryFunc[C]
	Deps    []Dependency
}

// Option configures a Factory.
type Option func(*settings)

type settings struct {
	resolver Resolver
	log      *zap.Logger
}

// WithResolver sets the resolver async registrations use to obtain their
// declared dependencies.
func WithResolver(r Resolver) Option {
	return func(s *settings) { s.resolver = r }
}

// WithLogger sets the logger used for registration and resolution events.
// Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

// handle is the per-feature client entry. Resolution is single-flight: the
// first caller runs build, concurrent callers block on it, and the cached
// outcome (value or error) is returned ever after.
type handle[H any] struct {
	once  sync.Once
	value H
	err   error
	build func(ctx context.Context) (H, error)
}

func (h *handle[H]) resolve(ctx context.Context) (H, error) {
	h.once.Do(func() {
		h.value, h.err = h.build(ctx)
	})
	return h.value, h.err
}

// Factory owns the configuration registrations of one domain: at most one
// root configuration plus any number of named features, each resolving to a
// client handle built from the root configuration with the feature's
// overrides applied. All lookups go through
// an explicit token-keyed store owned by the factory instance; there is no
// ambient global registry.
type Factory[C, H any] struct {
	domain      string
	instantiate Instantiator[C, H]
	resolver    Resolver
	log         *zap.Logger

	nameOf   func(C) string
	teardown Teardown[H]

	mu      sync.Mutex
	store   *registry[C]
	handles map[string]*handle[H]
	order   []string
}

// New creates the configuration factory for a domain. The instantiator is
// called once per feature, with the merged configuration, when the feature's
// handle is first resolved.
func New[C, H any](domain string, instantiate Instantiator[C, H], opts ...Option) *Factory[C, H] {
	s := &settings{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return &Factory[C, H]{
		domain:      domain,
		instantiate: instantiate,
		resolver:    s.resolver,
		log:         s.log,
		store:       newRegistry[C](),
		handles:     make(map[string]*handle[H]),
	}
}

// WithNames sets the getter used to derive a feature's name from its options
// when Feature.Name is left empty. It must not depend on async resolution.
func (f *Factory[C, H]) WithNames(fn func(C) string) *Factory[C, H] {
	f.nameOf = fn
	return f
}

// WithTeardown sets the hook used to release resolved handles at shutdown.
// The factory itself never calls it; lifecycle integrations (see Provide) do.
func (f *Factory[C, H]) WithTeardown(td Teardown[H]) *Factory[C, H] {
	f.teardown = td
	return f
}

// Domain returns the configuration domain this factory owns.
func (f *Factory[C, H]) Domain() string {
	return f.domain
}

// Root registers the domain's root configuration directly. Registering a
// root twice fails with ErrDuplicateRoot.
func (f *Factory[C, H]) Root(value C) error {
	return f.registerRoot(syncProvider(value))
}

// RootAsync registers a root configuration produced by a factory function.
// The declared dependencies are resolved through the configured Resolver and
// passed to the factory in order. The factory runs at most once, on first
// resolution of any feature in the domain.
func (f *Factory[C, H]) RootAsync(factory FactoryFunc[C], deps ...Dependency) error {
	return f.registerRoot(asyncProvider(factory, deps))
}

func (f *Factory[C, H]) registerRoot(p *provider[C]) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.store.put(RootToken(f.domain), p) {
		return duplicateRoot(f.domain)
	}
	f.log.Debug("registered root configuration",
		zap.String("domain", f.domain),
		zap.String("token", RootToken(f.domain)))
	return nil
}

// RootHolder returns the accessor features use to read the domain's root
// configuration.
func (f *Factory[C, H]) RootHolder() *Holder[C] {
	return &Holder[C]{store: f.store, token: RootToken(f.domain), resolver: f.resolver}
}

// Features registers one or more features with directly supplied options.
// A name collision, within this call or with an earlier registration, fails
// the whole call with ErrDuplicateFeature before anything is stored.
func (f *Factory[C, H]) Features(feats ...Feature[C]) error {
	names := make([]string, len(feats))
	for i, feat := range feats {
		name := feat.Name
		if name == "" && f.nameOf != nil {
			name = f.nameOf(feat.Options)
		}
		names[i] = name
	}
	providers := make([]*provider[C], len(feats))
	for i, feat := range feats {
		providers[i] = syncProvider(feat.Options)
	}
	return f.registerFeatures(names, providers)
}

// FeaturesAsync registers one or more features whose options are produced by
// factory functions. Collision rules match Features.
func (f *Factory[C, H]) FeaturesAsync(feats ...AsyncFeature[C]) error {
	names := make([]string, len(feats))
	providers := make([]*provider[C], len(feats))
	for i, feat := range feats {
		names[i] = feat.Name
		providers[i] = asyncProvider(feat.Factory, feat.Deps)
	}
	return f.registerFeatures(names, providers)
}

func (f *Factory[C, H]) registerFeatures(names []string, providers []*provider[C]) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Validate the whole batch before storing anything.
	seen := make(map[string]struct{}, len(names))
	var dups []string
	for _, name := range names {
		if name == "" {
			return errors.Newf("domain %s: feature name is empty", f.domain)
		}
		_, inBatch := seen[name]
		_, registered := f.handles[name]
		if inBatch || registered {
			dups = append(dups, name)
		}
		seen[name] = struct{}{}
	}
	if len(dups) > 0 {
		return duplicateFeatures(f.domain, dups)
	}

	for i, name := range names {
		f.store.put(FeatureOptionsToken(f.domain, name), providers[i])
		f.handles[name] = f.newHandle(name, providers[i])
		f.order = append(f.order, name)
		f.log.Debug("registered feature",
			zap.String("domain", f.domain),
			zap.String("feature", name),
			zap.String("token", FeatureToken(f.domain, name)))
	}
	return nil
}

// newHandle wires the resolution pipeline for one feature: root and options
// resolve independently, the merge and the instantiator run strictly after
// both are available.
func (f *Factory[C, H]) newHandle(name string, opts *provider[C]) *handle[H] {
	h := &handle[H]{}
	h.build = func(ctx context.Context) (H, error) {
		var zero H
		type rootResult struct {
			value C
			err   error
		}
		rootCh := make(chan rootResult, 1)
		holder := f.RootHolder()
		go func() {
			v, err := holder.Get(ctx)
			rootCh <- rootResult{value: v, err: err}
		}()

		featVal, featErr := opts.resolve(ctx, f.resolver)
		root := <-rootCh

		if featErr != nil {
			return zero, resolutionError(f.domain, name, featErr)
		}
		if root.err != nil {
			return zero, rootResolutionError(f.domain, root.err)
		}

		merged, err := Merge(root.value, featVal)
		if err != nil {
			return zero, errors.Wrapf(err, "domain %s: feature %s", f.domain, name)
		}
		// The instantiator's error, including ErrInvalidConfiguration,
		// passes through unchanged.
		return f.instantiate(ctx, name, merged)
	}
	return h
}

// Resolve returns the client handle for a feature, building it on first
// call. Resolution is single-flight per feature: concurrent callers share
// one instantiation, and the outcome, success or failure, is cached for the
// process lifetime. Failed resolutions are not retried.
func (f *Factory[C, H]) Resolve(ctx context.Context, feature string) (H, error) {
	f.mu.Lock()
	h, ok := f.handles[feature]
	f.mu.Unlock()
	if !ok {
		var zero H
		return zero, errors.Newf("domain %s: unknown feature %s", f.domain, feature)
	}
	v, err := h.resolve(ctx)
	if err != nil {
		f.log.Error("feature resolution failed",
			zap.String("domain", f.domain),
			zap.String("feature", feature),
			zap.Error(err))
		return v, err
	}
	return v, nil
}

// ResolveAll eagerly resolves every registered feature in registration
// order, stopping at the first failure. Intended for application startup,
// where a misconfigured registration should fail loudly.
func (f *Factory[C, H]) ResolveAll(ctx context.Context) error {
	for _, name := range f.FeatureNames() {
		if _, err := f.Resolve(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// FeatureNames returns the registered feature names in registration order.
func (f *Factory[C, H]) FeatureNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}
