package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Driver stores documents in an S3 compatible bucket
type S3Driver struct {
	Client *s3.Client
	Bucket string
}

func NewS3Driver(client *s3.Client, bucket string) *S3Driver {
	return &S3Driver{Client: client, Bucket: bucket}
}

func (d *S3Driver) Name() string { return "s3" }

func (d *S3Driver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	_, err = d.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.Bucket),
		Key:         aws.String(cleaned),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (d *S3Driver) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, "", err
	}
	resp, err := d.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(cleaned),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get from S3: %w", err)
	}

	contentType := "application/octet-stream"
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	return resp.Body, contentType, nil
}

func (d *S3Driver) Delete(ctx context.Context, key string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	_, err = d.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(cleaned),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
