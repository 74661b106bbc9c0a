package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/observability"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/apresai/podstudio/internal/script"
	"github.com/apresai/podstudio/internal/store"
	"github.com/apresai/podstudio/internal/studio"
)

// maxUserImages caps the images a caller may attach to one request.
const maxUserImages = 5

// Publisher uploads records to the public CDN.
type Publisher interface {
	PublishContent(ctx context.Context, c compose.GeneratedContent) (key, url string, err error)
	PublishReport(ctx context.Context, r analysis.Report) (key, url string, err error)
}

// Handlers contains tool handler implementations.
type Handlers struct {
	studio  *studio.Studio
	storage Publisher // nil when publishing is disabled
	log     *slog.Logger
}

// NewHandlers creates tool handlers.
func NewHandlers(st *studio.Studio, storage Publisher, logger *slog.Logger) *Handlers {
	return &Handlers{studio: st, storage: storage, log: logger}
}

// HandleComposeContent generates one content record.
func (h *Handlers) HandleComposeContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "tool.compose_content")
	defer span.End()

	kindArg := catalog.Normalize(mcp.ParseString(req, "kind", string(compose.KindText)))
	tone := catalog.Normalize(mcp.ParseString(req, "tone", ""))
	style := catalog.Normalize(mcp.ParseString(req, "style", ""))
	podcastID := mcp.ParseString(req, "podcast_id", "")
	publish := parseBoolParam(req, "publish", false)

	span.SetAttributes(
		attribute.String("kind", kindArg),
		attribute.String("tone", tone),
		attribute.String("style", style),
		attribute.String("podcast_id", podcastID),
	)

	kind, ok := compose.ParseKind(kindArg)
	if !ok {
		span.SetStatus(codes.Error, "invalid kind")
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q (valid: %s)", kindArg, joinKinds())), nil
	}
	cat := h.studio.Catalog()
	if tone != "" && !cat.HasTone(tone) {
		span.SetStatus(codes.Error, "invalid tone")
		return mcp.NewToolResultError(fmt.Sprintf("unknown tone %q (valid: %s)", tone, strings.Join(cat.Tones(), ", "))), nil
	}
	if style != "" && !cat.HasStyle(style) {
		span.SetStatus(codes.Error, "invalid style")
		return mcp.NewToolResultError(fmt.Sprintf("unknown style %q (valid: %s)", style, strings.Join(cat.Styles(), ", "))), nil
	}

	images := parseStringSlice(req, "images")
	if len(images) > maxUserImages {
		span.SetStatus(codes.Error, "too many images")
		return mcp.NewToolResultError(fmt.Sprintf("at most %d images are allowed, got %d", maxUserImages, len(images))), nil
	}

	var category podcast.Category
	if arg := mcp.ParseString(req, "category", ""); arg != "" {
		if category, ok = podcast.ParseCategory(arg); !ok {
			span.SetStatus(codes.Error, "invalid category")
			return mcp.NewToolResultError(fmt.Sprintf("unknown category %q (valid: %s)", arg, podcast.CategoryNames())), nil
		}
	}

	creq := compose.ContentRequest{
		Kind:     kind,
		Tone:     tone,
		Style:    style,
		Topic:    mcp.ParseString(req, "topic", ""),
		Category: category,
		Images:   images,
	}
	if podcastID != "" {
		p, err := h.studio.Podcast(podcastID)
		if err != nil {
			span.SetStatus(codes.Error, "unknown podcast")
			return mcp.NewToolResultError(err.Error()), nil
		}
		creq.Podcast = p
	}

	c, err := h.studio.Generate(ctx, creq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to compose content: %v", err)), nil
	}
	span.SetAttributes(attribute.String("content_id", c.ID))

	result := map[string]any{"content": c}
	if publish {
		url, err := h.publish(ctx, func(ctx context.Context) (string, string, error) {
			return h.storage.PublishContent(ctx, c)
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "publish failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		result["url"] = url
	}
	return jsonResult(result)
}

// HandleAnalyzePodcast runs an analysis to completion. Podcasts missing from
// the sample library are analyzed with their category's default data.
func (h *Handlers) HandleAnalyzePodcast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "tool.analyze_podcast")
	defer span.End()

	id := mcp.ParseString(req, "podcast_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing podcast_id")
		return mcp.NewToolResultError("podcast_id is required"), nil
	}
	span.SetAttributes(attribute.String("podcast_id", id))

	var p *podcast.Podcast
	if found, ok := h.studio.Library().Get(id); ok {
		p = found
	} else {
		h.log.InfoContext(ctx, "Analyzing podcast outside the library", "podcast_id", id)
	}

	r, err := h.studio.Analyze(ctx, id, p, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analyze failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze podcast: %v", err)), nil
	}
	span.SetAttributes(attribute.String("report_id", r.ID))

	result := map[string]any{"report": r}
	if parseBoolParam(req, "publish", false) {
		url, err := h.publish(ctx, func(ctx context.Context) (string, string, error) {
			return h.storage.PublishReport(ctx, r)
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "publish failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		result["url"] = url
	}
	return jsonResult(result)
}

// HandleComposeScript writes a voice-over script.
func (h *Handlers) HandleComposeScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "tool.compose_script")
	defer span.End()

	sreq := studio.ScriptRequest{
		PodcastID:    mcp.ParseString(req, "podcast_id", ""),
		Tone:         catalog.Normalize(mcp.ParseString(req, "tone", "")),
		Style:        catalog.Normalize(mcp.ParseString(req, "style", "")),
		Focus:        catalog.Normalize(mcp.ParseString(req, "focus", "")),
		AnalysisText: mcp.ParseString(req, "analysis_text", ""),
	}
	span.SetAttributes(
		attribute.String("podcast_id", sreq.PodcastID),
		attribute.String("style", sreq.Style),
	)

	switch {
	case sreq.Tone != "" && !script.IsValidTone(sreq.Tone):
		span.SetStatus(codes.Error, "invalid tone")
		return mcp.NewToolResultError(fmt.Sprintf("unknown tone %q (valid: %s)", sreq.Tone, strings.Join(script.ToneNames(), ", "))), nil
	case sreq.Style != "" && !script.IsValidStyle(sreq.Style):
		span.SetStatus(codes.Error, "invalid style")
		return mcp.NewToolResultError(fmt.Sprintf("unknown style %q (valid: %s)", sreq.Style, strings.Join(script.StyleNames(), ", "))), nil
	case sreq.Focus != "" && !script.IsValidFocus(sreq.Focus):
		span.SetStatus(codes.Error, "invalid focus")
		return mcp.NewToolResultError(fmt.Sprintf("unknown focus %q (valid: %s)", sreq.Focus, strings.Join(script.FocusNames(), ", "))), nil
	}

	res, err := h.studio.Script(ctx, sreq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "script failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to compose script: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"script":             res.Text,
		"estimated_duration": res.EstimatedDuration,
		"bullets":            res.Bullets,
		"tone":               res.Tone,
		"style":              res.Style,
		"style_label":        script.StyleLabel(res.Style),
		"focus":              res.Focus,
	})
}

// HandleGetContent returns a content record.
func (h *Handlers) HandleGetContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "tool.get_content")
	defer span.End()

	id := mcp.ParseString(req, "content_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing content_id")
		return mcp.NewToolResultError("content_id is required"), nil
	}
	span.SetAttributes(attribute.String("content_id", id))

	c, err := h.studio.Content(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(fmt.Sprintf("content %s not found", id)), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get content failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get content: %v", err)), nil
	}
	return jsonResult(c)
}

// HandleListContent returns a paginated list of content summaries.
func (h *Handlers) HandleListContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "tool.list_content")
	defer span.End()

	limit := parseIntParam(req, "limit", store.DefaultListLimit)
	cursor := mcp.ParseString(req, "cursor", "")
	span.SetAttributes(
		attribute.Int("limit", limit),
		attribute.String("cursor", cursor),
	)

	items, nextCursor, err := h.studio.ListContent(ctx, limit, cursor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list content failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list content: %v", err)), nil
	}
	span.SetAttributes(attribute.Int("result_count", len(items)))

	summaries := make([]map[string]any, 0, len(items))
	for _, c := range items {
		s := map[string]any{
			"content_id": c.ID,
			"kind":       c.Kind,
			"title":      c.Title,
			"tone":       c.Tone,
			"style":      c.Style,
			"created_at": c.CreatedAt,
		}
		if c.PodcastID != "" {
			s["podcast_id"] = c.PodcastID
		}
		summaries = append(summaries, s)
	}

	result := map[string]any{
		"content": summaries,
		"count":   len(summaries),
	}
	if nextCursor != "" {
		result["next_cursor"] = nextCursor
	}
	return jsonResult(result)
}

// HandleListPodcasts lists the sample library.
func (h *Handlers) HandleListPodcasts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, span := observability.Tracer().Start(ctx, "tool.list_podcasts")
	defer span.End()

	list := h.studio.Library().List()
	podcasts := make([]map[string]any, 0, len(list))
	for _, p := range list {
		podcasts = append(podcasts, map[string]any{
			"podcast_id": p.ID,
			"title":      p.Title,
			"author":     p.Author,
			"category":   p.Category,
			"episodes":   len(p.Episodes),
			"rating":     p.Rating,
		})
	}
	span.SetAttributes(attribute.Int("result_count", len(podcasts)))

	return jsonResult(map[string]any{
		"podcasts": podcasts,
		"count":    len(podcasts),
	})
}

func (h *Handlers) publish(ctx context.Context, put func(context.Context) (string, string, error)) (string, error) {
	if h.storage == nil {
		return "", errors.New("publishing is disabled: S3_BUCKET is not configured")
	}
	key, url, err := put(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish: %w", err)
	}
	h.log.InfoContext(ctx, "Published", "key", key, "url", url)
	return url, nil
}

func joinKinds() string {
	names := make([]string, 0, len(compose.Kinds()))
	for _, k := range compose.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func parseIntParam(req mcp.CallToolRequest, key string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	raw, ok := args[key]
	if !ok {
		return defaultVal
	}
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return defaultVal
	}
}

func parseBoolParam(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	switch v := req.GetArguments()[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return defaultVal
	}
}

func parseStringSlice(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
