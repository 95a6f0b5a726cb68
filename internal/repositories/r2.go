package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/archimorph/archimorph-server/internal/config"
)

// AvatarStorage wraps the R2 bucket holding profile images. Only presigned
// URLs are handed out; the server never proxies image bytes.
type AvatarStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewAvatarStorage initializes the R2 client using static credentials and a
// custom endpoint. Returns nil when R2 is not configured; avatar uploads are
// then unavailable but everything else works.
func NewAvatarStorage(cfg config.R2Config) *AvatarStorage {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &AvatarStorage{
		client:        client,
		bucket:        cfg.BucketName,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}
}

// PresignUpload creates a presigned URL for uploading an avatar image.
func (a *AvatarStorage) PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(a.client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PublicURL returns the public address an uploaded avatar is served from.
func (a *AvatarStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", a.publicBaseURL, key)
}

// ObjectExists checks if a given object key exists in the bucket.
func (a *AvatarStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if errors.As(err, &nsk) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
