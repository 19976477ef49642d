package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
)

// API is the part of the SQS client the publisher uses
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Client publishes run notifications to an SQS queue
type Client struct {
	api      API
	queueURL string
	log      *zap.Logger
}

// NewClient creates an SQS client. A configured endpoint switches to static dummy
// credentials for local queues such as ElasticMQ.
func NewClient(ctx context.Context, cfg envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	var clientOpts []func(*sqs.Options)

	if cfg.Endpoint != "" {
		log.Info("Configuring SQS for local development", zap.String("endpoint", cfg.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", cfg.Region),
		zap.String("queue_url", cfg.QueueURL))

	return NewWithAPI(sqs.NewFromConfig(awsCfg, clientOpts...), cfg.QueueURL, log), nil
}

// NewWithAPI wraps an existing SQS API
func NewWithAPI(api API, queueURL string, log *zap.Logger) *Client {
	return &Client{api: api, queueURL: queueURL, log: log}
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.queueURL
}

// PublishRun sends one notification with the run status as a message attribute
func (c *Client) PublishRun(ctx context.Context, n *dto.RunNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal run notification: %w", err)
	}

	_, err = c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Status": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.Status),
			},
		},
	})
	if err != nil {
		c.log.Error("Failed to send run notification",
			zap.String("job_id", n.JobID),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Info("Run notification published",
		zap.String("job_id", n.JobID),
		zap.String("status", n.Status))
	return nil
}
