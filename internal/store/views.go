package store

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// contentPathRegex matches CDN fetches of published content records.
var contentPathRegex = regexp.MustCompile(`^/content/([0-9A-Z]{26})\.json$`)

const (
	viewCounterPK = "SYSTEM#VIEW_COUNTER"
	epoch         = "1970-01-01T00:00:00Z"
)

// LogAPI is the subset of the S3 client the view counter reads logs with.
type LogAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// CounterAPI is the subset of the DynamoDB client the view counter writes with.
type CounterAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// ViewCounter folds CloudFront access logs into per-content view counts.
type ViewCounter struct {
	logs      LogAPI
	db        CounterAPI
	tableName string
	log       *slog.Logger
}

// ViewSummary reports one counter run.
type ViewSummary struct {
	FilesProcessed  int
	ContentUpdated  int
	Views           int
	LastProcessedAt string
}

// NewViewCounter creates a view counter.
func NewViewCounter(logs LogAPI, db CounterAPI, tableName string, logger *slog.Logger) *ViewCounter {
	return &ViewCounter{logs: logs, db: db, tableName: tableName, log: logger}
}

// Run processes every log object under prefix modified after the last
// checkpoint, adds the views to the content items and advances the checkpoint
// to the newest object it read.
func (v *ViewCounter) Run(ctx context.Context, bucket, prefix string) (ViewSummary, error) {
	last := v.lastProcessed(ctx)
	summary := ViewSummary{LastProcessedAt: last}
	v.log.InfoContext(ctx, "Counting content views", "bucket", bucket, "prefix", prefix, "since", last)

	paginator := s3.NewListObjectsV2Paginator(v.logs, &s3.ListObjectsV2Input{
		Bucket: &bucket,
		Prefix: &prefix,
	})

	views := make(map[string]int)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return summary, fmt.Errorf("list log objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil {
				continue
			}
			modified := obj.LastModified.UTC().Format(time.RFC3339)
			if modified <= last {
				continue
			}

			counts, err := v.processLogFile(ctx, bucket, aws.ToString(obj.Key))
			if err != nil {
				v.log.WarnContext(ctx, "Skipping log file", "key", aws.ToString(obj.Key), "error", err)
				continue
			}
			for id, n := range counts {
				views[id] += n
			}
			summary.FilesProcessed++
			if modified > summary.LastProcessedAt {
				summary.LastProcessedAt = modified
			}
		}
	}

	for id, n := range views {
		if err := v.addViews(ctx, id, n); err != nil {
			v.log.WarnContext(ctx, "Failed to update view count", "content_id", id, "error", err)
			continue
		}
		summary.ContentUpdated++
		summary.Views += n
	}

	if summary.LastProcessedAt != last {
		if err := v.setLastProcessed(ctx, summary.LastProcessedAt); err != nil {
			return summary, err
		}
	}
	v.log.InfoContext(ctx, "View count complete",
		"files", summary.FilesProcessed, "content", summary.ContentUpdated, "views", summary.Views)
	return summary, nil
}

func (v *ViewCounter) processLogFile(ctx context.Context, bucket, key string) (map[string]int, error) {
	result, err := v.logs.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer result.Body.Close()

	var r io.Reader = result.Body
	if strings.HasSuffix(key, ".gz") {
		gz, err := gzip.NewReader(result.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return CountViews(r)
}

// CountViews tallies successful GETs of published content in a CloudFront
// access log.
func CountViews(r io.Reader) (map[string]int, error) {
	counts := make(map[string]int)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}

		// date time x-edge-location sc-bytes c-ip cs-method cs(Host) cs-uri-stem sc-status ...
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}
		method, path, status := fields[5], fields[7], fields[8]
		if method != "GET" || (status != "200" && status != "304") {
			continue
		}
		if m := contentPathRegex.FindStringSubmatch(path); m != nil {
			counts[m[1]]++
		}
	}
	return counts, scanner.Err()
}

func (v *ViewCounter) addViews(ctx context.Context, id string, n int) error {
	_, err := v.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &v.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: contentPrefix + id},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
		UpdateExpression:    aws.String("ADD viewCount :n"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberN{Value: strconv.Itoa(n)},
		},
	})
	return err
}

func (v *ViewCounter) lastProcessed(ctx context.Context) string {
	result, err := v.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &v.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: viewCounterPK},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	})
	if err != nil || result.Item == nil {
		return epoch
	}
	if s, ok := result.Item["lastProcessed"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return epoch
}

func (v *ViewCounter) setLastProcessed(ctx context.Context, ts string) error {
	_, err := v.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &v.tableName,
		Item: map[string]types.AttributeValue{
			"PK":            &types.AttributeValueMemberS{Value: viewCounterPK},
			"SK":            &types.AttributeValueMemberS{Value: metadataSK},
			"lastProcessed": &types.AttributeValueMemberS{Value: ts},
		},
	})
	if err != nil {
		return fmt.Errorf("set last processed: %w", err)
	}
	return nil
}
