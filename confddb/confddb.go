// Package confddb is the table configuration domain: a confkit factory
// whose features are individual DynamoDB tables sharing root-level defaults.
package confddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/basewarphq/confkit"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Domain is the configuration domain owned by this package.
const Domain = "table"

// Config configures one table. Region and Endpoint are typically root-level
// defaults; TableName is per feature and required.
type Config struct {
	Region    string `env:"REGION"`
	TableName string `env:"TABLE_NAME" validate:"required"`
	Endpoint  string `env:"ENDPOINT"`
}

// Table is the resolved client handle for one registered table.
type Table struct {
	Client *dynamodb.Client
	Config Config
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewFactory builds the table-domain configuration factory on top of a
// shared base aws.Config.
func NewFactory(base aws.Config, opts ...confkit.Option) *confkit.Factory[Config, *Table] {
	return confkit.New(Domain, func(_ context.Context, feature string, merged Config) (*Table, error) {
		if err := checkConfig(feature, merged); err != nil {
			return nil, err
		}
		cfg := base.Copy()
		if merged.Region != "" {
			cfg.Region = merged.Region
		}
		client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			if merged.Endpoint != "" {
				o.BaseEndpoint = aws.String(merged.Endpoint)
			}
		})
		return &Table{Client: client, Config: merged}, nil
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

// Get fetches the item with the given key.
func (t *Table) Get(ctx context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	out, err := t.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.Config.TableName),
		Key:       key,
	})
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

// Put stores an item.
func (t *Table) Put(ctx context.Context, item map[string]types.AttributeValue) error {
	_, err := t.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.Config.TableName),
		Item:      item,
	})
	return err
}
