// Package studio owns the session state around the generation engine:
// bounded content and analysis histories, the "current" content and report,
// staged analysis progress, persistence and tracing. Engine results are built
// in full before they are committed, and the current pointers are
// last-writer-wins.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/observability"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/apresai/podstudio/internal/progress"
	"github.com/apresai/podstudio/internal/script"
	"github.com/apresai/podstudio/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Error is a studio failure tagged with the operation that produced it.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Studio is safe for concurrent use.
type Studio struct {
	cfg      Config
	composer *compose.Composer
	synth    *analysis.Synthesizer
	library  *podcast.Library
	store    store.Store
	metrics  *observability.Metrics
	log      *slog.Logger
	sleep    func(time.Duration)

	scriptMu  sync.Mutex
	scriptRng *rand.Rand

	// The history heads are the current content and report.
	contents *History[compose.GeneratedContent]
	reports  *History[analysis.Report]
}

// Option configures a Studio.
type Option func(*Studio)

func WithComposer(c *compose.Composer) Option { return func(s *Studio) { s.composer = c } }
func WithSynthesizer(a *analysis.Synthesizer) Option { return func(s *Studio) { s.synth = a } }
func WithLibrary(l *podcast.Library) Option { return func(s *Studio) { s.library = l } }
func WithLogger(l *slog.Logger) Option { return func(s *Studio) { s.log = l } }
func WithMetrics(m *observability.Metrics) Option { return func(s *Studio) { s.metrics = m } }

// WithStore persists every committed record. Without a store the studio keeps
// only its in-process histories.
func WithStore(st store.Store) Option { return func(s *Studio) { s.store = st } }

// WithScriptRand pins the source used by the script composer.
func WithScriptRand(r *rand.Rand) Option { return func(s *Studio) { s.scriptRng = r } }

// withSleep replaces time.Sleep for the think delay.
func withSleep(f func(time.Duration)) Option { return func(s *Studio) { s.sleep = f } }

// New creates a studio. Missing collaborators default to the embedded
// catalog, bundles and sample library.
func New(cfg Config, opts ...Option) (*Studio, error) {
	s := &Studio{
		cfg:       cfg,
		log:       slog.Default(),
		sleep:     time.Sleep,
		scriptRng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(s)
	}
	if s.composer == nil {
		s.composer = compose.New(catalog.Default())
	}
	if s.synth == nil {
		s.synth = analysis.NewSynthesizer()
	}
	if s.library == nil {
		lib, err := podcast.DefaultLibrary()
		if err != nil {
			return nil, &Error{Op: "init", Message: "failed to load podcast library", Err: err}
		}
		s.library = lib
	}
	if s.metrics == nil {
		m, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return nil, &Error{Op: "init", Message: "failed to register metrics", Err: err}
		}
		s.metrics = m
	}
	s.contents = NewHistory[compose.GeneratedContent](cfg.ContentHistory)
	s.reports = NewHistory[analysis.Report](cfg.AnalysisHistory)
	s.log = s.log.With("component", "studio")
	return s, nil
}

// Catalog exposes the composer's catalog for listings.
func (s *Studio) Catalog() *catalog.Catalog { return s.composer.Catalog() }

// Library is the podcast source for id lookups.
func (s *Studio) Library() *podcast.Library { return s.library }

// Podcast looks up a podcast by id.
func (s *Studio) Podcast(id string) (*podcast.Podcast, error) {
	p, ok := s.library.Get(id)
	if !ok {
		return nil, &Error{Op: "podcast", Message: fmt.Sprintf("unknown podcast %q", id)}
	}
	return p, nil
}

// Generate composes content for req, records it as the current content and
// appends it to the history.
func (s *Studio) Generate(ctx context.Context, req compose.ContentRequest) (compose.GeneratedContent, error) {
	ctx, span := observability.Tracer().Start(ctx, "studio.Generate")
	defer span.End()

	c := s.composer.Compose(req)
	span.SetAttributes(
		attribute.String("content.kind", string(c.Kind)),
		attribute.String("content.tone", c.Tone),
		attribute.String("content.style", c.Style),
		attribute.String("podcast.id", c.PodcastID),
	)
	if err := c.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid content")
		return compose.GeneratedContent{}, &Error{Op: "compose", Message: "composer produced invalid content", Err: err}
	}

	s.contents.Push(c)

	s.persist(ctx, "content", c.ID, func(ctx context.Context) error { return s.store.SaveContent(ctx, c) })
	s.metrics.ContentGenerated(ctx, string(c.Kind), c.Tone, c.Style)
	s.log.InfoContext(ctx, "content generated",
		"id", c.ID, "kind", c.Kind, "tone", c.Tone, "style", c.Style, "podcast_id", c.PodcastID,
		"history", s.contents.Len(), "history_cap", s.contents.Cap())
	return c, nil
}

// Analyze runs a staged analysis for a podcast. Once started it always
// completes: the request context only carries the trace, not cancellation.
// p may be nil for an unknown podcast; the report then uses default data.
func (s *Studio) Analyze(ctx context.Context, podcastID string, p *podcast.Podcast, cb progress.Callback) (analysis.Report, error) {
	if podcastID == "" && p != nil {
		podcastID = p.ID
	}
	if podcastID == "" {
		return analysis.Report{}, &Error{Op: "analyze", Message: "podcast id is required"}
	}
	if cb == nil {
		cb = progress.NopCallback
	}

	ctx = observability.DetachTraceContext(ctx)
	ctx, span := observability.Tracer().Start(ctx, "studio.Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("podcast.id", podcastID))

	start := time.Now()
	total := len(progress.AnalysisStages)
	for i, st := range progress.AnalysisStages {
		e := progress.NewEvent(st.Stage, st.Message, float64(i)/float64(total), start)
		e.Step, e.StepTotal = i+1, total
		cb(e)
		if s.cfg.ThinkDelay > 0 {
			s.sleep(s.cfg.ThinkDelay)
		}
	}

	r := s.synth.Synthesize(podcastID, p)
	s.reports.Push(r)

	s.persist(ctx, "report", r.ID, func(ctx context.Context) error { return s.store.SaveReport(ctx, r) })

	done := progress.NewEvent(progress.StageComplete, "Analysis ready", 1, start)
	done.PodcastID, done.ReportID = podcastID, r.ID
	cb(done)

	s.metrics.AnalysisCompleted(ctx, r.Category, time.Since(start))
	span.SetAttributes(attribute.String("report.id", r.ID), attribute.Int("report.score", r.OverallScore))
	s.log.InfoContext(ctx, "analysis complete",
		"podcast_id", podcastID, "report_id", r.ID, "category", r.Category, "score", r.OverallScore,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return r, nil
}

// ScriptRequest asks for a voice-over script. When AnalysisText is empty the
// newest report for PodcastID seeds the script, or the current report when no
// podcast is named.
type ScriptRequest struct {
	PodcastID    string
	Tone         string
	Style        string
	Focus        string
	AnalysisText string
}

// Script composes a voice-over script.
func (s *Studio) Script(ctx context.Context, req ScriptRequest) (script.Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "studio.Script")
	defer span.End()

	text := req.AnalysisText
	if text == "" {
		if r, ok := s.seedReport(ctx, req.PodcastID); ok {
			text = r.SeedText()
			span.SetAttributes(attribute.String("report.id", r.ID))
		}
	}

	s.scriptMu.Lock()
	res := script.Compose(s.scriptRng, script.Request{
		Tone:         req.Tone,
		Style:        req.Style,
		Focus:        req.Focus,
		AnalysisText: text,
	})
	s.scriptMu.Unlock()

	s.metrics.ScriptComposed(ctx, res.Style)
	span.SetAttributes(
		attribute.String("script.style", res.Style),
		attribute.String("script.duration", res.EstimatedDuration),
	)
	s.log.InfoContext(ctx, "script composed",
		"podcast_id", req.PodcastID, "style", res.Style, "bullets", len(res.Bullets), "duration", res.EstimatedDuration)
	return res, nil
}

func (s *Studio) seedReport(ctx context.Context, podcastID string) (analysis.Report, bool) {
	if podcastID == "" {
		return s.CurrentReport()
	}
	if r, ok := s.reports.Find(func(r analysis.Report) bool { return r.PodcastID == podcastID }); ok {
		return r, true
	}
	if s.store == nil {
		return analysis.Report{}, false
	}
	r, err := s.store.LatestReport(ctx, podcastID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.WarnContext(ctx, "latest report lookup failed", "podcast_id", podcastID, "error", err)
		}
		return analysis.Report{}, false
	}
	return *r, true
}

// Content returns a record from the history, then from the store.
func (s *Studio) Content(ctx context.Context, id string) (compose.GeneratedContent, error) {
	if c, ok := s.contents.Find(func(c compose.GeneratedContent) bool { return c.ID == id }); ok {
		return c, nil
	}
	if s.store != nil {
		c, err := s.store.GetContent(ctx, id)
		if err == nil {
			return *c, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return compose.GeneratedContent{}, &Error{Op: "content", Message: "failed to load content", Err: err}
		}
	}
	return compose.GeneratedContent{}, &Error{Op: "content", Message: fmt.Sprintf("content %q not found", id), Err: store.ErrNotFound}
}

// ListContent pages through stored content, newest first. Without a store it
// pages through the in-process history.
func (s *Studio) ListContent(ctx context.Context, limit int, cursor string) ([]compose.GeneratedContent, string, error) {
	if s.store != nil {
		items, next, err := s.store.ListContent(ctx, limit, cursor)
		if err != nil {
			return nil, "", &Error{Op: "list", Message: "failed to list content", Err: err}
		}
		return items, next, nil
	}

	items := s.contents.Items()
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	start := 0
	if cursor != "" {
		start = -1
		for i, c := range items {
			if c.ID == cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, "", &Error{Op: "list", Message: fmt.Sprintf("invalid cursor %q", cursor)}
		}
	}
	end := min(start+limit, len(items))
	page := items[start:end]
	var next string
	if end < len(items) && len(page) > 0 {
		next = page[len(page)-1].ID
	}
	return page, next, nil
}

// Current returns the most recently generated content.
func (s *Studio) Current() (compose.GeneratedContent, bool) { return s.contents.Latest() }

// CurrentReport returns the most recent analysis.
func (s *Studio) CurrentReport() (analysis.Report, bool) { return s.reports.Latest() }

// Contents returns the content history, newest first.
func (s *Studio) Contents() []compose.GeneratedContent { return s.contents.Items() }

// Reports returns the analysis history, newest first.
func (s *Studio) Reports() []analysis.Report { return s.reports.Items() }

// persist writes a committed record to the store. Failures are logged; the
// in-process history already holds the record.
func (s *Studio) persist(ctx context.Context, kind, id string, save func(context.Context) error) {
	if s.store == nil {
		return
	}
	if err := save(ctx); err != nil {
		s.log.WarnContext(ctx, "failed to persist "+kind, "id", id, "error", err)
	}
}
