package storage

import (
	"Foodgram-Backend/internal/metrics"
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"
)

const s3FailureThreshold = 5

// AwsS3 keeps images in an S3 bucket. Calls go through a circuit breaker so
// an unreachable bucket fails recipe writes fast instead of hanging them.
type AwsS3 struct {
	client  *s3.Client
	bucket  string
	region  string
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewAwsS3(ctx context.Context, bucket, region, accessKey, secretKey string) (*AwsS3, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	return &AwsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "s3-" + bucket,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= s3FailureThreshold
			},
		}),
	}, nil
}

func (s *AwsS3) UploadFile(ctx context.Context, name string, body []byte, contentType string, folder string) (string, error) {
	key := path.Join(folder, name)
	_, err := s.breaker.Execute(func() (struct{}, error) {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(s.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(body),
			ContentType:  aws.String(contentType),
			CacheControl: aws.String("public, max-age=31536000"),
		})
		return struct{}{}, err
	})
	metrics.RecordImageUpload("s3", err)
	if err != nil {
		return "", errors.Wrapf(err, "upload %s", key)
	}
	return key, nil
}

func (s *AwsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey)
}

func (s *AwsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	key, ok := strings.CutPrefix(link, prefix)
	if !ok {
		return ""
	}
	return key
}

func (s *AwsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectKey),
		})
		return struct{}{}, err
	})
	if err != nil {
		return errors.Wrapf(err, "delete %s", objectKey)
	}
	return nil
}
