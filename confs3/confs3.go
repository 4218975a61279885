// Package confs3 is the object-storage configuration domain: a confkit
// factory whose features are individual S3 buckets sharing root-level
// defaults.
package confs3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/basewarphq/confkit"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Domain is the configuration domain owned by this package.
const Domain = "storage"

// Config configures one bucket. Region, Endpoint and UsePathStyle are
// typically root-level defaults; Bucket is per feature and required.
type Config struct {
	Region       string `env:"REGION"`
	Bucket       string `env:"BUCKET" validate:"required"`
	Endpoint     string `env:"ENDPOINT"`
	UsePathStyle bool   `env:"USE_PATH_STYLE"`
}

// Bucket is the resolved client handle for one registered bucket.
type Bucket struct {
	Client *s3.Client
	Config Config
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewFactory builds the storage-domain configuration factory on top of a
// shared base aws.Config.
func NewFactory(base aws.Config, opts ...confkit.Option) *confkit.Factory[Config, *Bucket] {
	return confkit.New(Domain, func(_ context.Context, feature string, merged Config) (*Bucket, error) {
		if err := checkConfig(feature, merged); err != nil {
			return nil, err
		}
		cfg := base.Copy()
		if merged.Region != "" {
			cfg.Region = merged.Region
		}
		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			if merged.Endpoint != "" {
				o.BaseEndpoint = aws.String(merged.Endpoint)
			}
			o.UsePathStyle = merged.UsePathStyle
		})
		return &Bucket{Client: client, Config: merged}, nil
	}, opts...)
}

func checkConfig(feature string, c Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return confkit.InvalidConfiguration(Domain, feature, fields...)
}

// Put uploads an object under key.
func (b *Bucket) Put(ctx context.Context, key string, body io.Reader) error {
	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.Config.Bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	return err
}

// Get downloads the object under key. The caller closes the returned body.
func (b *Bucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := b.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.Config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// Delete removes the object under key.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.Config.Bucket),
		Key:    aws.String(key),
	})
	return err
}
