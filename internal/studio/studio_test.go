package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/progress"
	"github.com/apresai/podstudio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory[int](3)
	for i := 1; i <= 5; i++ {
		h.Push(i)
	}
	assert.Equal(t, []int{5, 4, 3}, h.Items())
	assert.Equal(t, 3, h.Len())

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, 5, latest)

	v, ok := h.Find(func(n int) bool { return n%2 == 0 })
	require.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = NewHistory[string](0).Latest()
	assert.False(t, ok)
	assert.Equal(t, 1, NewHistory[string](0).Cap())
}

func TestHistoryItemsIsACopy(t *testing.T) {
	h := NewHistory[int](2)
	h.Push(1)
	items := h.Items()
	items[0] = 99
	latest, _ := h.Latest()
	assert.Equal(t, 1, latest)
}

func newTestStudio(t *testing.T, cfg Config, opts ...Option) *Studio {
	t.Helper()
	var n atomic.Int64
	ids := func() string { return fmt.Sprintf("id-%03d", n.Add(1)) }
	base := []Option{
		WithComposer(compose.New(catalog.Default(),
			compose.WithRand(rand.New(rand.NewSource(1))),
			compose.WithIDFunc(ids),
		)),
		WithSynthesizer(analysis.NewSynthesizer(
			analysis.WithRand(rand.New(rand.NewSource(1))),
			analysis.WithIDFunc(ids),
		)),
		WithScriptRand(rand.New(rand.NewSource(1))),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}
	s, err := New(cfg, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestGenerateUpdatesCurrentAndHistory(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 2, AnalysisHistory: 2})
	ctx := context.Background()

	_, ok := s.Current()
	assert.False(t, ok)

	var last compose.GeneratedContent
	for i := 0; i < 3; i++ {
		c, err := s.Generate(ctx, compose.ContentRequest{Kind: compose.KindText})
		require.NoError(t, err)
		last = c
	}
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, last.ID, cur.ID)
	assert.Len(t, s.Contents(), 2)
	assert.Equal(t, last.ID, s.Contents()[0].ID)
}

func TestGenerateConcurrent(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 50, AnalysisHistory: 10}, WithStore(store.NewMemory()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kinds := compose.Kinds()
			_, err := s.Generate(ctx, compose.ContentRequest{Kind: kinds[i%len(kinds)]})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items := s.Contents()
	assert.Len(t, items, 50)
	seen := map[string]bool{}
	for _, c := range items {
		require.NoError(t, c.Validate())
		assert.False(t, seen[c.ID], "duplicate %s", c.ID)
		seen[c.ID] = true
	}

	all, _, err := s.ListContent(ctx, 100, "")
	require.NoError(t, err)
	assert.Len(t, all, 80, "the store keeps everything the history evicts")

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, items[0].ID, cur.ID)
}

func TestCurrentMatchesHistoryHeadDuringGenerate(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 5})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, err := s.Generate(ctx, compose.ContentRequest{Kind: compose.KindText})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, s.Contents()[0].ID, cur.ID)

	_, err := s.Analyze(ctx, "growth-loop", nil, nil)
	require.NoError(t, err)
	_, err = s.Analyze(ctx, "stack-trace", nil, nil)
	require.NoError(t, err)
	report, ok := s.CurrentReport()
	require.True(t, ok)
	assert.Equal(t, s.Reports()[0].ID, report.ID)
	assert.Equal(t, "stack-trace", report.PodcastID)
}

func TestAnalyzeStagesAndThinkDelay(t *testing.T) {
	var sleeps int
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 2, ThinkDelay: time.Second},
		withSleep(func(d time.Duration) {
			assert.Equal(t, time.Second, d)
			sleeps++
		}))
	p, err := s.Podcast("growth-loop")
	require.NoError(t, err)

	var events []progress.Event
	r, err := s.Analyze(context.Background(), "", p, func(e progress.Event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, len(progress.AnalysisStages)+1)
	for i, st := range progress.AnalysisStages {
		assert.Equal(t, st.Stage, events[i].Stage)
		assert.Equal(t, i+1, events[i].Step)
	}
	done := events[len(events)-1]
	assert.Equal(t, progress.StageComplete, done.Stage)
	assert.Equal(t, r.ID, done.ReportID)
	assert.Equal(t, "growth-loop", done.PodcastID)
	assert.Equal(t, len(progress.AnalysisStages), sleeps)

	cur, ok := s.CurrentReport()
	require.True(t, ok)
	assert.Equal(t, r.ID, cur.ID)
	assert.Equal(t, p.Rating, r.Metrics.AverageRating)
}

func TestAnalyzeIgnoresCancellation(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := s.Analyze(ctx, "night-shift", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "night-shift", r.PodcastID)
	assert.Len(t, s.Reports(), 1)
}

func TestAnalyzeRequiresPodcastID(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 2})
	_, err := s.Analyze(context.Background(), "", nil, nil)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "analyze", serr.Op)
}

func TestAnalysisHistoryBounded(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 3})
	for i := 0; i < 5; i++ {
		_, err := s.Analyze(context.Background(), fmt.Sprintf("p%d", i), nil, nil)
		require.NoError(t, err)
	}
	reports := s.Reports()
	require.Len(t, reports, 3)
	assert.Equal(t, "p4", reports[0].PodcastID)
	assert.Equal(t, "p2", reports[2].PodcastID)
}

func TestScriptSeedsFromLatestReport(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 5})
	ctx := context.Background()
	p, err := s.Podcast("stack-trace")
	require.NoError(t, err)
	r, err := s.Analyze(ctx, p.ID, p, nil)
	require.NoError(t, err)

	res, err := s.Script(ctx, ScriptRequest{PodcastID: p.ID, Style: "highlights", Focus: "insights"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Bullets)
	assert.Equal(t, r.Insights[0], res.Bullets[0])
	assert.Contains(t, []string{"3 min", "4 min"}, res.EstimatedDuration)

	current, err := s.Script(ctx, ScriptRequest{Style: "summary", Focus: "topics"})
	require.NoError(t, err)
	assert.Equal(t, r.Topics[0].Name, current.Bullets[0])

	explicit, err := s.Script(ctx, ScriptRequest{PodcastID: p.ID, AnalysisText: "Key insights:\n- custom"})
	require.NoError(t, err)
	assert.Equal(t, []string{"custom"}, explicit.Bullets)
}

func TestScriptSeedsFromStore(t *testing.T) {
	mem := store.NewMemory()
	first := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 5}, WithStore(mem))
	r, err := first.Analyze(context.Background(), "bootstrapped", nil, nil)
	require.NoError(t, err)

	second := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 5}, WithStore(mem))
	res, err := second.Script(context.Background(), ScriptRequest{PodcastID: "bootstrapped", Focus: "insights"})
	require.NoError(t, err)
	assert.Equal(t, r.Insights[0], res.Bullets[0])
}

func TestContentLookup(t *testing.T) {
	mem := store.NewMemory()
	s := newTestStudio(t, Config{ContentHistory: 1, AnalysisHistory: 1}, WithStore(mem))
	ctx := context.Background()

	a, err := s.Generate(ctx, compose.ContentRequest{Kind: compose.KindGIF})
	require.NoError(t, err)
	_, err = s.Generate(ctx, compose.ContentRequest{Kind: compose.KindVideo})
	require.NoError(t, err)

	got, err := s.Content(ctx, a.ID)
	require.NoError(t, err, "evicted records are still served from the store")
	assert.Equal(t, a.ID, got.ID)

	_, err = s.Content(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListContentWithoutStore(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 10, AnalysisHistory: 1})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.Generate(ctx, compose.ContentRequest{})
		require.NoError(t, err)
	}

	page, next, err := s.ListContent(ctx, 3, "")
	require.NoError(t, err)
	assert.Len(t, page, 3)
	require.NotEmpty(t, next)

	rest, next, err := s.ListContent(ctx, 3, next)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.Empty(t, next)

	_, _, err = s.ListContent(ctx, 3, "bogus")
	assert.Error(t, err)
}

type failingStore struct{ store.Store }

func (failingStore) SaveContent(context.Context, compose.GeneratedContent) error {
	return errors.New("throttled")
}

func TestGenerateSurvivesStoreFailure(t *testing.T) {
	var logs bytes.Buffer
	s := newTestStudio(t, Config{ContentHistory: 5, AnalysisHistory: 1},
		WithStore(failingStore{store.NewMemory()}),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	c, err := s.Generate(context.Background(), compose.ContentRequest{Kind: compose.KindText})
	require.NoError(t, err)
	assert.Len(t, s.Contents(), 1)
	assert.Contains(t, logs.String(), "failed to persist content")
	assert.Contains(t, logs.String(), c.ID)
}

func TestUnknownPodcast(t *testing.T) {
	s := newTestStudio(t, Config{ContentHistory: 1, AnalysisHistory: 1})
	_, err := s.Podcast("missing")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), `unknown podcast "missing"`)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_HISTORY", "7")
	t.Setenv("ANALYSIS_HISTORY", "junk")
	t.Setenv("THINK_DELAY", "250ms")
	cfg := DefaultConfig()
	assert.Equal(t, 7, cfg.ContentHistory)
	assert.Equal(t, 10, cfg.AnalysisHistory)
	assert.Equal(t, 250*time.Millisecond, cfg.ThinkDelay)
}
