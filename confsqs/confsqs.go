// Package confsqs is the queue configuration domain: a confkit factory whose
// features are individual SQS queues sharing root-level defaults.
package confsqs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/basewarphq/confkit"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Domain is the configuration domain owned by this package.
const Domain = "queue"

// Config configures one queue. Region and MessageGroupID are typically set
// on the domain root and inherited; QueueURL is per feature and required.
type Config struct {
	Region            string `env:"REGION"`
	QueueURL          string `env:"QUEUE_URL" validate:"required,url"`
	Endpoint          string `env:"ENDPOINT"`
	MessageGroupID    string `env:"MESSAGE_GROUP_ID"`
	WaitTimeSeconds   int32  `env:"WAIT_TIME_SECONDS"`
	VisibilityTimeout int32  `env:"VISIBILITY_TIMEOUT"`
}

// Queue is the resolved client handle for one registered queue.
type Queue struct {
	Client *sqs.Client
	Config Config
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewFactory builds the queue-domain configuration factory. The base config
// is copied per feature with the merged Region and Endpoint applied, the way
// region-overridden clients are built from a shared aws.Config.
func NewFactory(base aws.Config, opts ...confkit.Option) *confkit.Factory[Config, *Queue] {
	return confkit.New(Domain, func(_ context.Context, feature string, merged Config) (*Queue, error) {
		if err := checkConfig(feature, merged); err != nil {
			return nil, err
		}
		cfg := base.Copy()
		if merged.Region != "" {
			cfg.Region = merged.Region
		}
		client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
			if merged.Endpoint != "" {
				o.BaseEndpoint = aws.String(merged.Endpoint)
			}
		})
		return &Queue{Client: client, Config: merged}, nil
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

// Send sends a message body to the queue, applying the configured message
// group when set.
func (q *Queue) Send(ctx context.Context, body string) (string, error) {
	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.Config.QueueURL),
		MessageBody: aws.String(body),
	}
	if q.Config.MessageGroupID != "" {
		in.MessageGroupId = aws.String(q.Config.MessageGroupID)
	}
	out, err := q.Client.SendMessage(ctx, in)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

// Receive fetches up to max messages using the configured wait time and
// visibility timeout.
func (q *Queue) Receive(ctx context.Context, max int32) (*sqs.ReceiveMessageOutput, error) {
	return q.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.Config.QueueURL),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     q.Config.WaitTimeSeconds,
		VisibilityTimeout:   q.Config.VisibilityTimeout,
	})
}

// Delete removes a received message by receipt handle.
func (q *Queue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.Config.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	return err
}
