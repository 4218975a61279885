package confkit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
)

const resolveTimeout = 10 * time.Second

// Provide bundles a configured factory into an fx module. The factory itself
// is supplied for injection, and every registered feature's handle is
// provided as a named value under its feature token:
//
//	fx.New(
//	    confkit.Provide(queues),
//	    fx.Invoke(fx.Annotate(run, fx.ParamTags(`name:"queue_Feature_orders"`))),
//	)
//
// Handles resolve lazily when first injected. If the factory has a teardown
// hook it is appended to the fx lifecycle so handles are released at stop.
func Provide[C, H any](f *Factory[C, H]) fx.Option {
	opts := []fx.Option{fx.Supply(f)}
	for _, name := range f.FeatureNames() {
		token := FeatureToken(f.domain, name)
		opts = append(opts, fx.Provide(fx.Annotate(
			func(lc fx.Lifecycle) (H, error) {
				ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
				defer cancel()
				h, err := f.Resolve(ctx, name)
				if err != nil {
					return h, err
				}
				if f.teardown != nil {
					lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
						return f.teardown(ctx, h)
					}})
				}
				return h, nil
			},
			fx.ResultTags(fmt.Sprintf("name:%q", token)),
		)))
	}
	return fx.Module(f.domain, opts...)
}
