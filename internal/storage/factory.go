package storage

import (
	"context"
	"fmt"

	"go-docflow/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// NewDriverFromConfig picks the storage backend named by STORAGE_TYPE
func NewDriverFromConfig(cfg *config.Config, logger *zap.Logger) (Driver, error) {
	switch cfg.StorageType {
	case "local":
		logger.Info("Initializing local storage", zap.String("dir", cfg.FSPath))
		return NewLocalDriver(cfg.FSPath)
	case "s3":
		logger.Info("Initializing S3 storage", zap.String("endpoint", cfg.S3Endpoint), zap.String("bucket", cfg.S3Bucket))
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for s3 storage")
		}

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.S3Region),
		}
		if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
			creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
			opts = append(opts, awsconfig.WithCredentialsProvider(creds))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			}
			o.UsePathStyle = true
		})
		return NewS3Driver(client, cfg.S3Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
