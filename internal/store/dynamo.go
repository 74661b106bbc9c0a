package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

const (
	contentPrefix = "CONTENT#"
	podcastPrefix = "PODCAST#"
	reportPrefix  = "REPORT#"
	metadataSK    = "METADATA"
	contentGSI1PK = "CONTENT"
	gsi1Index     = "GSI1"
)

// ContentItem is the DynamoDB record for generated content.
type ContentItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	GSI1PK    string `dynamodbav:"GSI1PK"`
	GSI1SK    string `dynamodbav:"GSI1SK"`
	ContentID string `dynamodbav:"contentId"`
	Kind      string `dynamodbav:"kind"`
	Title     string `dynamodbav:"title"`
	Tone      string `dynamodbav:"tone,omitempty"`
	Style     string `dynamodbav:"style,omitempty"`
	PodcastID string `dynamodbav:"podcastId,omitempty"`
	Record    string `dynamodbav:"record"`
	CreatedAt string `dynamodbav:"createdAt"`
	ViewCount int    `dynamodbav:"viewCount,omitempty"` // maintained by ViewCounter
}

// ReportItem is the DynamoDB record for an analysis report. Reports live under
// their podcast's partition so the newest one is a single reverse query.
type ReportItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	ReportID     string `dynamodbav:"reportId"`
	PodcastID    string `dynamodbav:"podcastId"`
	Category     string `dynamodbav:"category"`
	OverallScore int    `dynamodbav:"overallScore"`
	Record       string `dynamodbav:"record"`
	CreatedAt    string `dynamodbav:"createdAt"`
}

// Dynamo is a single-table DynamoDB Store.
type Dynamo struct {
	client    DynamoAPI
	tableName string
}

// NewDynamo creates a DynamoDB store.
func NewDynamo(client DynamoAPI, tableName string) *Dynamo {
	return &Dynamo{client: client, tableName: tableName}
}

// sortLayout is fixed width so sort keys order lexically by time.
const sortLayout = "2006-01-02T15:04:05.000000000Z07:00"

func timestamp(t time.Time) string {
	return t.UTC().Format(sortLayout)
}

// SaveContent inserts a content record. IDs are never overwritten.
func (d *Dynamo) SaveContent(ctx context.Context, c compose.GeneratedContent) error {
	record, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal content record: %w", err)
	}
	created := timestamp(c.CreatedAt)
	item := ContentItem{
		PK:        contentPrefix + c.ID,
		SK:        metadataSK,
		GSI1PK:    contentGSI1PK,
		GSI1SK:    created + "#" + c.ID,
		ContentID: c.ID,
		Kind:      string(c.Kind),
		Title:     c.Title,
		Tone:      c.Tone,
		Style:     c.Style,
		PodcastID: c.PodcastID,
		Record:    string(record),
		CreatedAt: created,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal content item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &d.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("put content item: %w", err)
	}
	return nil
}

// GetContent retrieves a single content record by ID.
func (d *Dynamo) GetContent(ctx context.Context, id string) (*compose.GeneratedContent, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: contentPrefix + id},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}

	var item ContentItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	return decodeContent(item)
}

// ListContent returns content ordered by creation time (newest first) via GSI1.
func (d *Dynamo) ListContent(ctx context.Context, limit int, cursor string) ([]compose.GeneratedContent, string, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	input := &dynamodb.QueryInput{
		TableName:              &d.tableName,
		IndexName:              aws.String(gsi1Index),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: contentGSI1PK},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	}

	if cursor != "" {
		// cursor is the full GSI1SK value ({timestamp}#{id})
		parts := strings.SplitN(cursor, "#", 2)
		if len(parts) != 2 || parts[1] == "" {
			return nil, "", fmt.Errorf("invalid cursor format")
		}
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"PK":     &types.AttributeValueMemberS{Value: contentPrefix + parts[1]},
			"SK":     &types.AttributeValueMemberS{Value: metadataSK},
			"GSI1PK": &types.AttributeValueMemberS{Value: contentGSI1PK},
			"GSI1SK": &types.AttributeValueMemberS{Value: cursor},
		}
	}

	result, err := d.client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("list content: %w", err)
	}

	var items []ContentItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, "", fmt.Errorf("unmarshal content list: %w", err)
	}
	out := make([]compose.GeneratedContent, 0, len(items))
	for _, item := range items {
		c, err := decodeContent(item)
		if err != nil {
			return nil, "", err
		}
		out = append(out, *c)
	}

	var nextCursor string
	if result.LastEvaluatedKey != nil {
		if gsi1sk, ok := result.LastEvaluatedKey["GSI1SK"].(*types.AttributeValueMemberS); ok {
			nextCursor = gsi1sk.Value
		}
	}
	return out, nextCursor, nil
}

// SaveReport stores a report under its podcast's partition.
func (d *Dynamo) SaveReport(ctx context.Context, r analysis.Report) error {
	record, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report record: %w", err)
	}
	created := timestamp(r.CreatedAt)
	item := ReportItem{
		PK:           podcastPrefix + r.PodcastID,
		SK:           reportPrefix + created + "#" + r.ID,
		ReportID:     r.ID,
		PodcastID:    r.PodcastID,
		Category:     r.Category,
		OverallScore: r.OverallScore,
		Record:       string(record),
		CreatedAt:    created,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal report item: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	}); err != nil {
		return fmt.Errorf("put report item: %w", err)
	}
	return nil
}

// LatestReport returns the newest report for a podcast.
func (d *Dynamo) LatestReport(ctx context.Context, podcastID string) (*analysis.Report, error) {
	result, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: podcastPrefix + podcastID},
			":sk": &types.AttributeValueMemberS{Value: reportPrefix},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query latest report: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("report for %s: %w", podcastID, ErrNotFound)
	}

	var item ReportItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	var r analysis.Report
	if err := json.Unmarshal([]byte(item.Record), &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", item.ReportID, err)
	}
	return &r, nil
}

func decodeContent(item ContentItem) (*compose.GeneratedContent, error) {
	var c compose.GeneratedContent
	if err := json.Unmarshal([]byte(item.Record), &c); err != nil {
		return nil, fmt.Errorf("decode content %s: %w", item.ContentID, err)
	}
	return &c, nil
}
