package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo implements the slice of DynamoDB semantics the store relies on:
// conditional puts, key lookups, GSI1 listing and prefix queries.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := str(in.Item["PK"]) + "|" + str(in.Item["SK"])
	if in.ConditionExpression != nil && strings.Contains(*in.ConditionExpression, "attribute_not_exists") {
		if _, ok := f.items[key]; ok {
			return nil, errors.New("ConditionalCheckFailedException")
		}
	}
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[str(in.Key["PK"])+"|"+str(in.Key["SK"])]}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pk := str(in.ExpressionAttributeValues[":pk"])
	sortAttr, partAttr := "SK", "PK"
	if in.IndexName != nil {
		sortAttr, partAttr = "GSI1SK", "GSI1PK"
	}
	prefix := str(in.ExpressionAttributeValues[":sk"])

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if str(item[partAttr]) == pk && strings.HasPrefix(str(item[sortAttr]), prefix) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return str(matched[i][sortAttr]) > str(matched[j][sortAttr]) })

	if in.ExclusiveStartKey != nil {
		after := str(in.ExclusiveStartKey[sortAttr])
		for len(matched) > 0 && str(matched[0][sortAttr]) >= after {
			matched = matched[1:]
		}
	}
	out := &dynamodb.QueryOutput{}
	limit := int(aws.ToInt32(in.Limit))
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{sortAttr: last[sortAttr]}
	}
	out.Items = matched
	return out, nil
}

type fakeS3 struct {
	keys   []string
	bodies map[string]string
	ctypes map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.bodies == nil {
		f.bodies, f.ctypes = map[string]string{}, map[string]string{}
	}
	f.keys = append(f.keys, *in.Key)
	f.bodies[*in.Key] = string(data)
	f.ctypes[*in.Key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

// sampleContent composes n records with increasing timestamps.
func sampleContent(n int) []compose.GeneratedContent {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick, id := 0, 0
	c := compose.New(catalog.Default(),
		compose.WithRand(rand.New(rand.NewSource(1))),
		compose.WithClock(func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }),
		compose.WithIDFunc(func() string { id++; return fmt.Sprintf("c%02d", id) }),
	)
	out := make([]compose.GeneratedContent, n)
	kinds := compose.Kinds()
	for i := range out {
		out[i] = c.Compose(compose.ContentRequest{Kind: kinds[i%len(kinds)]})
	}
	return out
}

func sampleReport(podcastID, id string, at time.Time) analysis.Report {
	return analysis.NewSynthesizer(
		analysis.WithRand(rand.New(rand.NewSource(1))),
		analysis.WithClock(func() time.Time { return at }),
		analysis.WithIDFunc(func() string { return id }),
	).Synthesize(podcastID, nil)
}

func stores() map[string]Store {
	return map[string]Store{
		"memory": NewMemory(),
		"dynamo": NewDynamo(newFakeDynamo(), "podstudio"),
	}
}

func TestStoreContentRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			records := sampleContent(6)
			for _, c := range records {
				require.NoError(t, s.SaveContent(ctx, c))
			}
			for _, c := range records {
				got, err := s.GetContent(ctx, c.ID)
				require.NoError(t, err)
				assert.Equal(t, c, *got)
			}

			_, err := s.GetContent(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.Error(t, s.SaveContent(ctx, records[0]), "duplicate ids are rejected")
		})
	}
}

func TestStoreListContentNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			for _, c := range sampleContent(5) {
				require.NoError(t, s.SaveContent(ctx, c))
			}

			page1, cursor, err := s.ListContent(ctx, 2, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"c05", "c04"}, ids(page1))
			require.NotEmpty(t, cursor)

			page2, cursor, err := s.ListContent(ctx, 2, cursor)
			require.NoError(t, err)
			assert.Equal(t, []string{"c03", "c02"}, ids(page2))

			page3, cursor, err := s.ListContent(ctx, 2, cursor)
			require.NoError(t, err)
			assert.Equal(t, []string{"c01"}, ids(page3))
			assert.Empty(t, cursor)

			all, _, err := s.ListContent(ctx, 0, "")
			require.NoError(t, err)
			assert.Len(t, all, 5)
		})
	}
}

func TestStoreLatestReport(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveReport(ctx, sampleReport("growth-loop", "r1", base)))
			require.NoError(t, s.SaveReport(ctx, sampleReport("growth-loop", "r2", base.Add(time.Hour))))
			require.NoError(t, s.SaveReport(ctx, sampleReport("stack-trace", "r3", base.Add(2*time.Hour))))

			got, err := s.LatestReport(ctx, "growth-loop")
			require.NoError(t, err)
			assert.Equal(t, "r2", got.ID)
			assert.Equal(t, sampleReport("growth-loop", "r2", base.Add(time.Hour)), *got)

			_, err = s.LatestReport(ctx, "night-shift")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreOrdersSubSecondTimestamps(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 100 * time.Millisecond, 120 * time.Millisecond, 500 * time.Millisecond}

	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			for i, off := range offsets {
				id := fmt.Sprintf("r%d", i)
				require.NoError(t, s.SaveReport(ctx, sampleReport("growth-loop", id, base.Add(off))))
				got, err := s.LatestReport(ctx, "growth-loop")
				require.NoError(t, err)
				assert.Equal(t, id, got.ID, "offset %s", off)
			}

			i := 0
			c := compose.New(catalog.Default(),
				compose.WithRand(rand.New(rand.NewSource(1))),
				compose.WithClock(func() time.Time { return base.Add(offsets[i]) }),
				compose.WithIDFunc(func() string { return fmt.Sprintf("s%d", i) }),
			)
			for i = range offsets {
				require.NoError(t, s.SaveContent(ctx, c.Compose(compose.ContentRequest{Kind: compose.KindText})))
			}
			all, _, err := s.ListContent(ctx, 0, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"s3", "s2", "s1", "s0"}, ids(all))
		})
	}
}

func TestTimestampIsFixedWidth(t *testing.T) {
	base := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-04T12:00:00.000000000Z", timestamp(base))
	assert.Equal(t, "2025-03-04T12:00:00.100000000Z", timestamp(base.Add(100*time.Millisecond)))
	assert.Less(t, timestamp(base.Add(100*time.Millisecond)), timestamp(base.Add(120*time.Millisecond)))
}

func TestDynamoListRejectsBadCursor(t *testing.T) {
	_, _, err := NewDynamo(newFakeDynamo(), "t").ListContent(context.Background(), 5, "no-separator")
	assert.ErrorContains(t, err, "invalid cursor")
}

func TestStoragePublish(t *testing.T) {
	fake := &fakeS3{}
	s := NewStorage(fake, "bucket", "https://cdn.example.com/")

	c := sampleContent(1)[0]
	key, url, err := s.PublishContent(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "content/c01.json", key)
	assert.Equal(t, "https://cdn.example.com/content/c01.json", url)
	assert.Equal(t, "application/json", fake.ctypes[key])
	assert.Contains(t, fake.bodies[key], `"id": "c01"`)

	r := sampleReport("growth-loop", "r9", time.Now())
	key, _, err = s.PublishReport(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "reports/growth-loop/r9.json", key)
}

func ids(cs []compose.GeneratedContent) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
