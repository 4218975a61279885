package confs3_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/basewarphq/confkit"
	"github.com/basewarphq/confkit/confs3"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestResolve_RootDefaultsApply(t *testing.T) {
	f := confs3.NewFactory(aws.Config{Region: "us-east-1"})
	require.NoError(t, f.Root(confs3.Config{
		Region:       "eu-central-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}))
	require.NoError(t, f.Features(
		confkit.Feature[confs3.Config]{Name: "artifacts", Options: confs3.Config{Bucket: "build-artifacts"}},
		confkit.Feature[confs3.Config]{Name: "uploads", Options: confs3.Config{Bucket: "user-uploads", Region: "us-west-2"}},
	))

	artifacts, err := f.Resolve(context.Background(), "artifacts")
	require.NoError(t, err)
	require.Equal(t, "build-artifacts", artifacts.Config.Bucket)
	require.Equal(t, "eu-central-1", artifacts.Client.Options().Region)
	require.True(t, artifacts.Client.Options().UsePathStyle)

	uploads, err := f.Resolve(context.Background(), "uploads")
	require.NoError(t, err)
	require.Equal(t, "us-west-2", uploads.Client.Options().Region, "feature region wins over root")
}

func TestResolve_MissingBucket(t *testing.T) {
	f := confs3.NewFactory(aws.Config{})
	require.NoError(t, f.Features(confkit.Feature[confs3.Config]{Name: "artifacts"}))

	_, err := f.Resolve(context.Background(), "artifacts")
	require.True(t, errors.Is(err, confkit.ErrInvalidConfiguration), "got %v", err)
	require.True(t, strings.Contains(err.Error(), "Bucket"), "error should name the missing field: %v", err)
}
