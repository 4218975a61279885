package confkit_test

import (
	"testing"

	"github.com/basewarphq/confkit"
	"github.com/stretchr/testify/require"
)

type mergeConfig struct {
	Region  string
	GroupID string
	URL     string
	Tags    map[string]string
}

func TestMerge_FeatureWinsOnConflict(t *testing.T) {
	root := mergeConfig{Region: "us-east-1", GroupID: "default"}
	feature := mergeConfig{GroupID: "priority"}

	merged, err := confkit.Merge(root, feature)
	require.NoError(t, err)
	require.Equal(t, "us-east-1", merged.Region, "field only in root inherits")
	require.Equal(t, "priority", merged.GroupID, "field in both takes the feature value")
}

func TestMerge_FieldOnlyInFeature(t *testing.T) {
	root := mergeConfig{Region: "us-east-1"}
	feature := mergeConfig{URL: "https://x"}

	merged, err := confkit.Merge(root, feature)
	require.NoError(t, err)
	require.Equal(t, "https://x", merged.URL)
	require.Equal(t, "us-east-1", merged.Region)
}

func TestMerge_ZeroRoot(t *testing.T) {
	feature := mergeConfig{URL: "https://x", GroupID: "g"}

	merged, err := confkit.Merge(mergeConfig{}, feature)
	require.NoError(t, err)
	require.Equal(t, feature, merged)
}

func TestMerge_ZeroFeature(t *testing.T) {
	root := mergeConfig{Region: "eu-west-1", GroupID: "default"}

	merged, err := confkit.Merge(root, mergeConfig{})
	require.NoError(t, err)
	require.Equal(t, root, merged)
}

func TestMerge_MapFieldsMergePerKey(t *testing.T) {
	root := mergeConfig{Tags: map[string]string{"env": "prod", "team": "core"}}
	feature := mergeConfig{Tags: map[string]string{"team": "orders"}}

	merged, err := confkit.Merge(root, feature)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"env": "prod", "team": "orders"}, merged.Tags)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	root := mergeConfig{Tags: map[string]string{"env": "prod"}}
	feature := mergeConfig{Tags: map[string]string{"team": "orders"}}

	_, err := confkit.Merge(root, feature)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"env": "prod"}, root.Tags)
	require.Equal(t, map[string]string{"team": "orders"}, feature.Tags)
}
