// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"

	"fitness-duel-system/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of the S3 client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Archiver stores finished-duel snapshots in a Cloudflare R2 bucket.
type R2Archiver struct {
	client     ObjectPutter
	bucket     string
	cdnBaseURL string
}

// NewR2Archiver returns nil when no bucket is configured, which disables
// archiving.
func NewR2Archiver(ctx context.Context, cfg config.R2Config) (*R2Archiver, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint
	}
	return NewR2ArchiverWithClient(client, cfg.Bucket, cdn), nil
}

func NewR2ArchiverWithClient(client ObjectPutter, bucket, cdnBaseURL string) *R2Archiver {
	return &R2Archiver{client: client, bucket: bucket, cdnBaseURL: cdnBaseURL}
}

// ArchiveDuel uploads a JSON payload under duels/<id>.json and returns its
// public URL.
func (a *R2Archiver) ArchiveDuel(ctx context.Context, duelID string, payload []byte) (string, error) {
	key := "duels/" + duelID + ".json"
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return fmt.Sprintf("%s/%s", a.cdnBaseURL, key), nil
}
