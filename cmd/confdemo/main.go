// Command confdemo wires the queue and storage configuration domains into an
// fx application: an env-sourced root for each domain, a handful of features
// inheriting it, and handles resolved eagerly at startup.
//
// Required environment:
//
//	CONFDEMO_ORDERS_QUEUE_URL    URL of the orders queue
//	CONFDEMO_BILLING_QUEUE_URL   URL of the billing queue
//	CONFDEMO_ARTIFACTS_BUCKET    name of the artifacts bucket
//
// Root defaults come from QUEUE_* and STORAGE_* variables (see the Config
// types of confsqs and confs3).
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/basewarphq/confkit"
	"github.com/basewarphq/confkit/confaws"
	"github.com/basewarphq/confkit/confs3"
	"github.com/basewarphq/confkit/confsqs"
)

// Env holds the demo's own environment configuration.
type Env struct {
	LogLevel        zapcore.Level `env:"LOG_LEVEL" envDefault:"info"`
	OtelExporter    string        `env:"OTEL_EXPORTER" envDefault:"stdout"`
	OrdersQueueURL  string        `env:"ORDERS_QUEUE_URL,required"`
	BillingQueueURL string        `env:"BILLING_QUEUE_URL,required"`
	ArtifactsBucket string        `env:"ARTIFACTS_BUCKET,required"`
}

const startTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		zap.NewExample().Fatal("confdemo failed", zap.Error(err))
	}
}

func run() error {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Prefix: "CONFDEMO_"}); err != nil {
		return errors.Wrap(err, "parsing environment")
	}

	log, err := newLogger(e)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tp, prop, err := newTracing(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	awsCfg, err := confaws.Load(ctx, confaws.WithTracing(tp, prop))
	if err != nil {
		return err
	}

	queues, err := newQueues(e, awsCfg, log)
	if err != nil {
		return err
	}
	buckets, err := newBuckets(e, awsCfg, log)
	if err != nil {
		return err
	}

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger { return &fxevent.ZapLogger{Logger: log} }),
		confkit.Provide(queues),
		confkit.Provide(buckets),
		fx.Invoke(fx.Annotate(
			func(orders, billing *confsqs.Queue, artifacts *confs3.Bucket) {
				log.Info("resolved client handles",
					zap.String("orders_queue", orders.Config.QueueURL),
					zap.String("orders_region", orders.Client.Options().Region),
					zap.String("billing_queue", billing.Config.QueueURL),
					zap.String("artifacts_bucket", artifacts.Config.Bucket),
				)
			},
			fx.ParamTags(
				`name:"queue_Feature_orders"`,
				`name:"queue_Feature_billing"`,
				`name:"storage_Feature_artifacts"`,
			),
		)),
	)

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "starting application")
	}
	return errors.Wrap(app.Stop(ctx), "stopping application")
}

// newQueues builds the queue domain: root defaults sourced from QUEUE_* env
// vars, one feature per queue the demo talks to.
func newQueues(e Env, awsCfg aws.Config, log *zap.Logger) (*confkit.Factory[confsqs.Config, *confsqs.Queue], error) {
	f := confsqs.NewFactory(awsCfg, confkit.WithLogger(log))
	f.WithTeardown(func(_ context.Context, q *confsqs.Queue) error {
		log.Debug("releasing queue handle", zap.String("queue", q.Config.QueueURL))
		return nil
	})
	if err := f.RootAsync(confkit.FromEnv[confsqs.Config](confkit.EnvPrefix(f.Domain()))); err != nil {
		return nil, err
	}
	if err := f.Features(
		confkit.Feature[confsqs.Config]{Name: "orders", Options: confsqs.Config{QueueURL: e.OrdersQueueURL}},
		confkit.Feature[confsqs.Config]{Name: "billing", Options: confsqs.Config{QueueURL: e.BillingQueueURL}},
	); err != nil {
		return nil, err
	}
	return f, nil
}

// newBuckets builds the storage domain with STORAGE_* env root defaults.
func newBuckets(e Env, awsCfg aws.Config, log *zap.Logger) (*confkit.Factory[confs3.Config, *confs3.Bucket], error) {
	f := confs3.NewFactory(awsCfg, confkit.WithLogger(log))
	if err := f.RootAsync(confkit.FromEnv[confs3.Config](confkit.EnvPrefix(f.Domain()))); err != nil {
		return nil, err
	}
	if err := f.Features(
		confkit.Feature[confs3.Config]{Name: "artifacts", Options: confs3.Config{Bucket: e.ArtifactsBucket}},
	); err != nil {
		return nil, err
	}
	return f, nil
}

func newLogger(e Env) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(e.LogLevel)
	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return log, nil
}

// newTracing configures the tracer provider. "stdout" pretty-prints spans
// for local development; "none" disables export entirely.
func newTracing(e Env) (trace.TracerProvider, propagation.TextMapPropagator, error) {
	prop := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	switch e.OtelExporter {
	case "none":
		return sdktrace.NewTracerProvider(), prop, nil
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, nil, errors.Wrap(err, "building stdout exporter")
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		return tp, prop, nil
	default:
		return nil, nil, errors.Newf("unsupported OTEL_EXPORTER: %q (supported: stdout, none)", e.OtelExporter)
	}
}
