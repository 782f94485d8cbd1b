package storage

import (
	"context"
	"creatorlink/internal/observability"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// Client hands out presigned PUT URLs so upload bytes never pass through
// this server.
type Client struct {
	presign *s3.PresignClient
	bucket  string
	logger  *observability.Logger
}

// Config carries the S3 connection settings. Endpoint is optional and used
// for S3-compatible stores such as MinIO.
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

func New(ctx context.Context, cfg Config, logger *observability.Logger) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Client{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		logger:  logger,
	}, nil
}

// objectKey namespaces uploads per task and day.
func objectKey(taskID uuid.UUID) string {
	d := time.Now()
	return fmt.Sprintf("tasks/%s/%d/%d/%d/%s", taskID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// PresignUpload returns the object key and a short-lived PUT URL for it.
func (c *Client) PresignUpload(ctx context.Context, taskID uuid.UUID, contentType string) (string, string, error) {
	key := objectKey(taskID)

	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		c.logger.Error(ctx, "failed to presign put object", err)
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	return key, req.URL, nil
}
