package cli

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/apresai/podstudio/internal/script"
)

func testComposer() *compose.Composer {
	return compose.New(catalog.Default(),
		compose.WithRand(rand.New(rand.NewSource(3))),
		compose.WithClock(func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }),
	)
}

func testLibrary(t *testing.T) *podcast.Library {
	t.Helper()
	lib, err := podcast.DefaultLibrary()
	require.NoError(t, err)
	return lib
}

func TestPrintContentEveryKind(t *testing.T) {
	c := testComposer()
	p, _ := testLibrary(t).Get("stack-trace")
	for _, kind := range compose.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			gc := c.Compose(compose.ContentRequest{Kind: kind, Podcast: p})
			var out bytes.Buffer
			printContent(&out, gc)
			assert.Contains(t, out.String(), gc.Title)
			assert.Contains(t, out.String(), gc.ID)
			assert.Contains(t, out.String(), "stack-trace")
			assert.Greater(t, bytes.Count(out.Bytes(), []byte("\n")), 6)

			var body string
			switch p := gc.Payload.(type) {
			case *compose.TextPayload:
				body = p.Content
			case *compose.ImageSetPayload:
				body = p.Images[0]
			case *compose.VideoPayload:
				body = p.MediaURL
			case *compose.GIFPayload:
				body = p.MediaURL
			case *compose.InfographicPayload:
				body = p.Sections[0].Body
			case *compose.SlideDeckPayload:
				body = p.Slides[0].Body
			}
			require.NotEmpty(t, body)
			assert.Contains(t, out.String(), body, "payload is printed")
		})
	}
}

func TestPrintReport(t *testing.T) {
	r := analysis.NewSynthesizer(analysis.WithRand(rand.New(rand.NewSource(1)))).Synthesize("growth-loop", nil)
	var out bytes.Buffer
	printReport(&out, r)
	assert.Contains(t, out.String(), "Analysis growth-loop")
	assert.Contains(t, out.String(), r.Topics[0].Name)
	assert.Contains(t, out.String(), r.Recommendations[0].Title)
	assert.Contains(t, out.String(), r.Sentiment.Overall)
}

func TestPrintCatalogAndPodcasts(t *testing.T) {
	var out bytes.Buffer
	printCatalog(&out, catalog.Default())
	assert.Contains(t, out.String(), "slide-deck")
	assert.Contains(t, out.String(), "deep-dive")
	assert.Contains(t, out.String(), "10-12 min")

	out.Reset()
	printPodcasts(&out, testLibrary(t).List())
	assert.Contains(t, out.String(), "stack-trace")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tuiModel, keys ...string) tuiModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(tuiModel)
	}
	return m
}

func TestInteractivePicker(t *testing.T) {
	flagKind, flagTone, flagStyle, flagPodcast, flagTopic = "text", "friendly", "educational", "", ""
	t.Cleanup(func() {
		flagKind, flagTone, flagStyle, flagPodcast, flagTopic = "text", "friendly", "educational", "", ""
	})

	m := newTUIModel(catalog.Default(), testLibrary(t))
	assert.Equal(t, idxKind, m.cursor)

	// kind: text -> image-set
	m = press(m, "enter", "down", "enter")
	assert.Equal(t, "image-set", m.items[idxKind].value)
	assert.Equal(t, idxTone, m.cursor)

	// skip tone and style, pick the first library podcast
	m = press(m, "down", "down", "enter", "down", "enter")
	first := testLibrary(t).List()[0]
	assert.Equal(t, first.ID, m.items[idxPodcast].value)

	// topic text input
	m = press(m, "enter", "gar", "den", "enter")
	assert.Equal(t, "garden", m.items[idxTopic].value)
	assert.Equal(t, idxGenerate, m.cursor)
	assert.Contains(t, m.View(), "Generate")

	m = press(m, "enter")
	assert.True(t, m.confirmed)

	applySelections(m)
	assert.Equal(t, "image-set", flagKind)
	assert.Equal(t, "friendly", flagTone)
	assert.Equal(t, first.ID, flagPodcast)
	assert.Equal(t, "garden", flagTopic)
}

func TestInteractiveEscKeepsValue(t *testing.T) {
	flagKind = "video"
	t.Cleanup(func() { flagKind = "text" })

	m := newTUIModel(catalog.Default(), testLibrary(t))
	m = press(m, "enter", "down", "esc")
	assert.Equal(t, "video", m.items[idxKind].value)
	assert.Equal(t, stateMenu, m.state)

	m = press(m, "q")
	assert.True(t, m.cancelled)
}

type fakePublisher struct {
	mu      sync.Mutex
	fails   int
	content []string
	reports []string
}

func (f *fakePublisher) PublishContent(_ context.Context, c compose.GeneratedContent) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return "", "", errors.New("slow down")
	}
	f.content = append(f.content, c.ID)
	return "content/" + c.ID + ".json", "https://cdn.test/content/" + c.ID + ".json", nil
}

func (f *fakePublisher) PublishReport(_ context.Context, r analysis.Report) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r.ID)
	return "", "https://cdn.test/reports/" + r.ID + ".json", nil
}

func TestPublishFile(t *testing.T) {
	saved := publishBackoffs
	publishBackoffs = []time.Duration{0, 0}
	t.Cleanup(func() { publishBackoffs = saved })

	dir := t.TempDir()
	ctx := context.Background()

	gc := testComposer().Compose(compose.ContentRequest{Kind: compose.KindSlideDeck})
	contentPath := filepath.Join(dir, "content.json")
	require.NoError(t, writeJSON(contentPath, gc))

	pub := &fakePublisher{fails: 2}
	url, err := publishFile(ctx, pub, contentPath)
	require.NoError(t, err, "two throttles are retried")
	assert.Equal(t, "https://cdn.test/content/"+gc.ID+".json", url)
	assert.Equal(t, []string{gc.ID}, pub.content)

	r := analysis.NewSynthesizer().Synthesize("night-shift", nil)
	reportPath := filepath.Join(dir, "nested", "report.json")
	require.NoError(t, writeJSON(reportPath, r))
	url, err = publishFile(ctx, pub, reportPath)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/reports/"+r.ID+".json", url)

	_, err = publishFile(ctx, &fakePublisher{fails: 10}, contentPath)
	assert.ErrorContains(t, err, "slow down")

	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"hello":"world"}`), 0644))
	_, err = publishFile(ctx, pub, other)
	assert.ErrorContains(t, err, "neither generated content nor an analysis report")

	_, err = publishFile(ctx, pub, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestPublishAll(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	composer := testComposer()

	var paths, ids []string
	for i, kind := range []compose.Kind{compose.KindText, compose.KindGIF, compose.KindVideo} {
		gc := composer.Compose(compose.ContentRequest{Kind: kind})
		path := filepath.Join(dir, "c"+string(rune('a'+i))+".json")
		require.NoError(t, writeJSON(path, gc))
		paths = append(paths, path)
		ids = append(ids, gc.ID)
	}

	pub := &fakePublisher{}
	urls, err := publishAll(ctx, pub, paths)
	require.NoError(t, err)
	require.Len(t, urls, 3)
	for i, id := range ids {
		assert.Equal(t, "https://cdn.test/content/"+id+".json", urls[i], "urls follow argument order")
	}
	assert.ElementsMatch(t, ids, pub.content)

	_, err = publishAll(ctx, pub, append(paths, filepath.Join(dir, "missing.json")))
	assert.ErrorContains(t, err, "missing.json")
}

func TestSavePath(t *testing.T) {
	assert.Equal(t, filepath.Join(OutputBaseDir, "post.json"), savePath("post.json"))
	assert.Equal(t, "out/post.json", savePath("out/post.json"))
}

func TestLoadReportRejectsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, writeJSON(path, map[string]string{"kind": "text"}))
	_, err := loadReport(path)
	assert.ErrorContains(t, err, "is not an analysis report")
}

// runCLI executes the root command in dir and restores the shared flags.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	t.Cleanup(func() {
		flagSave, flagAnalysis, flagReport, flagCategory = "", "", "", ""
		flagKind, flagTone, flagStyle = "text", "friendly", "educational"
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScriptSaveCreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	analysisText := "Key insights:\n• Retention is strong\n• Reviews praise the guests\n\nMain topics:\n• Growth loops\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte(analysisText), 0644))

	_, err := runCLI(t, dir, "script", "--analysis-file", "a.txt", "-o", "out.json")
	require.NoError(t, err)

	saved := filepath.Join(dir, OutputBaseDir, "out.json")
	res, err := script.LoadResult(saved)
	require.NoError(t, err)
	assert.Equal(t, "summary", res.Style)
	assert.LessOrEqual(t, len(res.Bullets), 3)

	out, err := runCLI(t, dir, "script", "show", saved)
	require.NoError(t, err)
	assert.Contains(t, out, res.Text)
	assert.Contains(t, out, "est. "+res.EstimatedDuration)
}

func TestComposeRejectsUnknownCategory(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "compose", "--category", "gaming")
	assert.ErrorContains(t, err, `invalid category "gaming"`)
}

func TestPublishFlagsFromDotEnv(t *testing.T) {
	for _, k := range []string{"S3_BUCKET", "CDN_BASE_URL", "AWS_REGION"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("S3_BUCKET=env-bucket\nCDN_BASE_URL=https://cdn.env.test\n"), 0644))
	t.Chdir(dir)

	saved := []string{flagPublishBucket, flagPublishCDNURL, flagPublishRegion}
	t.Cleanup(func() {
		flagPublishBucket, flagPublishCDNURL, flagPublishRegion = saved[0], saved[1], saved[2]
	})
	flagPublishBucket, flagPublishCDNURL, flagPublishRegion = "", "", ""

	loadDotEnv()
	resolvePublishFlags()
	assert.Equal(t, "env-bucket", flagPublishBucket)
	assert.Equal(t, "https://cdn.env.test", flagPublishCDNURL)
	assert.Equal(t, defaultRegion, flagPublishRegion)

	flagPublishBucket = "from-flag"
	resolvePublishFlags()
	assert.Equal(t, "from-flag", flagPublishBucket, "an explicit flag wins over the environment")
}

func TestPublishRetryStopsOnCancel(t *testing.T) {
	saved := publishBackoffs
	publishBackoffs = []time.Duration{time.Hour, time.Hour}
	t.Cleanup(func() { publishBackoffs = saved })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- publishRetry(ctx, func() error {
			calls++
			cancel()
			return errors.New("slow down")
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorContains(t, err, "slow down")
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("retry kept waiting after cancellation")
	}
}
