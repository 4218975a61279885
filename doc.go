// Package confkit is a two-level configuration layer for applications that
// register a shared root configuration once per domain and then declare any
// number of named features that inherit it with per-feature overrides.
//
// # Overview
//
// A domain (one kind of remote resource family, such as a queue service or
// an object store) owns one [Factory]. The application registers the
// domain's root configuration once, sync or async, then registers features.
// Each feature resolves lazily to a client handle: the factory reads the
// root configuration, overlays the feature's options (feature wins on every
// field it sets), and hands the merged configuration to the caller-supplied
// instantiator.
//
//	queues := confsqs.NewFactory(awsCfg)
//	queues.Root(confsqs.Config{Region: "us-east-1"})
//	queues.Features(
//	    confkit.Feature[confsqs.Config]{Name: "orders", Options: confsqs.Config{QueueURL: ordersURL}},
//	    confkit.Feature[confsqs.Config]{Name: "billing", Options: confsqs.Config{QueueURL: billingURL}},
//	)
//	orders, err := queues.Resolve(ctx, "orders")
//
// # Resolution semantics
//
// Root registration is optional: a feature whose options are self-sufficient
// resolves against a zero root. Every provider, root or feature, resolves at
// most once per process; concurrent resolutions of the same feature share a
// single in-flight attempt and the cached outcome, success or failure, is
// returned ever after. Failures are never retried and never swallowed: they
// propagate to the resolving caller carrying the domain and feature name.
//
// # Async configuration
//
// Async registrations supply a factory function plus an ordered list of
// [Dependency] identifiers. Dependencies are obtained through the
// [Resolver] configured on the factory and passed to the function as
// arguments, replacing container-style constructor injection with explicit
// argument passing.
//
// # fx integration
//
// [Provide] turns a configured factory into an fx module that exposes every
// feature handle as a named value under its [FeatureToken], with optional
// teardown hooked into the fx lifecycle.
package confkit
