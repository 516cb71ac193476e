package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

// S3Uploader implements Uploader for S3-compatible storage (AWS S3, Cloudflare R2, MinIO)
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
	log     zerolog.Logger
}

// S3Config contains configuration for S3-compatible storage
type S3Config struct {
	// Endpoint is a custom endpoint URL; leave empty for AWS S3
	Endpoint string

	// Region of the bucket ("auto" for R2)
	Region string

	Bucket string

	// Credentials; when empty they are read from R2_* then AWS_* env vars
	AccessKeyID     string
	SecretAccessKey string

	// BaseURL is the public URL prefix for uploaded objects
	BaseURL string
}

// credentialsFromEnv fills in missing credentials from the environment
func (c *S3Config) credentialsFromEnv() error {
	if c.AccessKeyID == "" {
		c.AccessKeyID = firstEnv("R2_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		c.SecretAccessKey = firstEnv("R2_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("missing credentials: set R2_ACCESS_KEY_ID/R2_SECRET_ACCESS_KEY or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY")
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// publicBaseURL returns BaseURL or the default URL layout of the endpoint
func (c *S3Config) publicBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(c.Endpoint, "/"), c.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}

// NewS3Uploader creates a new S3-compatible uploader
func NewS3Uploader(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3Uploader, error) {
	if err := cfg.credentialsFromEnv(); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for R2 and MinIO
		}
	})

	baseURL := cfg.publicBaseURL()
	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Str("baseURL", baseURL).
		Msg("S3 uploader initialized")

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		log:     logger,
	}, nil
}

// Upload uploads an object to S3-compatible storage
func (u *S3Uploader) Upload(ctx context.Context, key string, content io.Reader, contentType string) error {
	u.log.Debug().Str("key", key).Str("contentType", contentType).Msg("Uploading to S3")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.log.Debug().Str("key", key).Msg("Upload successful")
	return nil
}

// Exists checks if an object exists in S3-compatible storage
func (u *S3Uploader) Exists(ctx context.Context, key string) (bool, error) {
	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence of %s: %w", key, err)
}

// isNotFound reports whether err is a missing-object response. HeadObject
// has no body, so some providers only return a bare 404 code.
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}
	return false
}

// GetURL returns the public URL for accessing an uploaded object
func (u *S3Uploader) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", u.baseURL, key)
}

// Delete removes an object from S3-compatible storage
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	u.log.Debug().Str("key", key).Msg("Deleting from S3")

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	u.log.Debug().Str("key", key).Msg("Delete successful")
	return nil
}
