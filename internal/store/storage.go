package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client Storage uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Storage publishes records as JSON objects in S3 behind a CDN.
type Storage struct {
	client     S3API
	bucket     string
	cdnBaseURL string // e.g. "https://studio.apresai.dev"
}

// NewStorage creates an S3 storage handler.
func NewStorage(client S3API, bucket, cdnBaseURL string) *Storage {
	return &Storage{client: client, bucket: bucket, cdnBaseURL: strings.TrimRight(cdnBaseURL, "/")}
}

// PublishContent uploads a content record and returns its key and public URL.
func (s *Storage) PublishContent(ctx context.Context, c compose.GeneratedContent) (key, url string, err error) {
	return s.putJSON(ctx, "content/"+c.ID+".json", c)
}

// PublishReport uploads a report and returns its key and public URL.
func (s *Storage) PublishReport(ctx context.Context, r analysis.Report) (key, url string, err error) {
	return s.putJSON(ctx, "reports/"+r.PodcastID+"/"+r.ID+".json", r)
}

func (s *Storage) putJSON(ctx context.Context, key string, v any) (string, string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal %s: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload to s3: %w", err)
	}

	return key, s.URL(key), nil
}

// URL returns the public URL for an object key.
func (s *Storage) URL(key string) string {
	return s.cdnBaseURL + "/" + key
}
