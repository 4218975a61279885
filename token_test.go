package confkit_test

import (
	"testing"

	"github.com/basewarphq/confkit"
)

func TestTokenFormats(t *testing.T) {
	if got := confkit.RootToken("queue"); got != "queue" {
		t.Errorf("RootToken = %q, want %q", got, "queue")
	}
	if got := confkit.FeatureOptionsToken("queue", "orders"); got != "queue_Feature_Options_orders" {
		t.Errorf("FeatureOptionsToken = %q, want %q", got, "queue_Feature_Options_orders")
	}
	if got := confkit.FeatureToken("queue", "orders"); got != "queue_Feature_orders" {
		t.Errorf("FeatureToken = %q, want %q", got, "queue_Feature_orders")
	}
}

func TestTokenUniqueness(t *testing.T) {
	t.Run("same feature across domains", func(t *testing.T) {
		if confkit.FeatureToken("sqs", "orders") == confkit.FeatureToken("s3", "orders") {
			t.Error("feature tokens for different domains must not collide")
		}
	})

	t.Run("feature vs feature options", func(t *testing.T) {
		for _, domain := range []string{"queue", "storage", ""} {
			if confkit.FeatureToken(domain, "a") == confkit.FeatureOptionsToken(domain, "a") {
				t.Errorf("domain %q: feature and feature-options tokens collide", domain)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		if confkit.FeatureToken("queue", "orders") != confkit.FeatureToken("queue", "orders") {
			t.Error("tokens must be pure functions of their inputs")
		}
	})
}
