package confkit

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestProvider_Sync(t *testing.T) {
	p := syncProvider("value")

	got, err := p.resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got != "value" {
		t.Errorf("resolve = %q, want %q", got, "value")
	}
}

func TestProvider_AsyncRunsFactoryOnce(t *testing.T) {
	calls := 0
	p := asyncProvider(func(ctx context.Context, deps ...any) (int, error) {
		calls++
		return calls, nil
	}, nil)

	ctx := context.Background()
	first, err := p.resolve(ctx, nil)
	if err != nil {
		t.Fatalf("first resolve error: %v", err)
	}
	second, err := p.resolve(ctx, nil)
	if err != nil {
		t.Fatalf("second resolve error: %v", err)
	}
	if first != second {
		t.Errorf("resolve returned different values: %d then %d", first, second)
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

func TestProvider_FailureIsCached(t *testing.T) {
	calls := 0
	p := asyncProvider(func(ctx context.Context, deps ...any) (string, error) {
		calls++
		return "", errors.New("bad url")
	}, nil)

	ctx := context.Background()
	_, err1 := p.resolve(ctx, nil)
	_, err2 := p.resolve(ctx, nil)
	if err1 == nil || err2 == nil {
		t.Fatal("expected cached failure on both resolutions")
	}
	if !errors.Is(err2, err1) && err1.Error() != err2.Error() {
		t.Errorf("second resolution returned a different error: %v vs %v", err1, err2)
	}
	if calls != 1 {
		t.Errorf("factory ran %d times after failure, want 1", calls)
	}
}

func TestProvider_DependenciesInjectedInOrder(t *testing.T) {
	resolver := StaticResolver{
		"region-source": "eu-west-1",
		"group-source":  "default",
	}
	p := asyncProvider(func(ctx context.Context, deps ...any) ([]any, error) {
		return deps, nil
	}, []Dependency{"region-source", "group-source"})

	got, err := p.resolve(context.Background(), resolver)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(got) != 2 || got[0] != "eu-west-1" || got[1] != "default" {
		t.Errorf("deps = %v, want [eu-west-1 default]", got)
	}
}

func TestProvider_MissingDependency(t *testing.T) {
	t.Run("unresolvable dependency", func(t *testing.T) {
		p := asyncProvider(func(ctx context.Context, deps ...any) (string, error) {
			t.Fatal("factory must not run when a dependency is missing")
			return "", nil
		}, []Dependency{"absent"})

		_, err := p.resolve(context.Background(), StaticResolver{})
		if !errors.Is(err, ErrMissingDependency) {
			t.Fatalf("expected ErrMissingDependency, got %v", err)
		}
	})

	t.Run("no resolver configured", func(t *testing.T) {
		p := asyncProvider(func(ctx context.Context, deps ...any) (string, error) {
			return "", nil
		}, []Dependency{"anything"})

		_, err := p.resolve(context.Background(), nil)
		if !errors.Is(err, ErrMissingDependency) {
			t.Fatalf("expected ErrMissingDependency, got %v", err)
		}
	})
}

func TestProvider_ConcurrentResolutionSingleFlight(t *testing.T) {
	calls := 0
	gate := make(chan struct{})
	p := asyncProvider(func(ctx context.Context, deps ...any) (string, error) {
		<-gate
		calls++
		return "shared", nil
	}, nil)

	const n = 16
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.resolve(context.Background(), nil)
			if err != nil {
				t.Errorf("resolve error: %v", err)
				return
			}
			results[i] = v
		}()
	}
	close(gate)
	wg.Wait()

	if calls != 1 {
		t.Errorf("factory ran %d times under concurrent resolution, want 1", calls)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("goroutine %d observed %q, want %q", i, v, "shared")
		}
	}
}
