// Package confaws loads the shared base AWS SDK v2 configuration that the
// domain packages (confsqs, confs3, confddb) copy and override per feature.
package confaws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const loadTimeout = 10 * time.Second

// Option configures Load.
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
	propagator     propagation.TextMapPropagator
}

// WithTracing instruments every AWS SDK call made through the loaded config
// with OpenTelemetry. The tracer provider and propagator are injected
// explicitly to avoid global state.
func WithTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) Option {
	return func(o *options) {
		o.tracerProvider = tp
		o.propagator = prop
	}
}

// Load loads the default AWS SDK v2 configuration with a bounded timeout.
func Load(ctx context.Context, opts ...Option) (aws.Config, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, errors.Wrap(err, "loading AWS configuration")
	}

	if o.tracerProvider != nil {
		otelaws.AppendMiddlewares(&cfg.APIOptions,
			otelaws.WithTracerProvider(o.tracerProvider),
			otelaws.WithTextMapPropagator(o.propagator),
		)
	}
	return cfg, nil
}

// Provider is an fx constructor for the shared base aws.Config.
func Provider(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	return Load(context.Background(), WithTracing(tp, prop))
}
