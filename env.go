package confkit

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
)

// EnvPrefix derives the conventional environment variable prefix for a
// domain, e.g. "queue-service" becomes "QUEUE_SERVICE_".
func EnvPrefix(domain string) string {
	return strcase.ToScreamingSnake(domain) + "_"
}

// FromEnv returns a configuration factory that parses C from environment
// variables using the given prefix. Pair it with RootAsync to source a
// domain's root configuration from the environment:
//
//	f.RootAsync(confkit.FromEnv[Config](confkit.EnvPrefix(f.Domain())))
func FromEnv[C any](prefix string) FactoryFunc[C] {
	return func(_ context.Context, _ ...any) (C, error) {
		var c C
		if err := env.ParseWithOptions(&c, env.Options{Prefix: prefix}); err != nil {
			return c, errors.Wrap(err, "parsing environment")
		}
		return c, nil
	}
}
