package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/apresai/podstudio/internal/script"
)

var rule = strings.Repeat("─", 50)

func printContent(w io.Writer, c compose.GeneratedContent) {
	fmt.Fprintf(w, "\n  %s\n  %s\n", c.Title, rule)
	fmt.Fprintf(w, "  %-10s %s\n", "ID", c.ID)
	fmt.Fprintf(w, "  %-10s %s\n", "Kind", c.Kind)
	fmt.Fprintf(w, "  %-10s %s / %s\n", "Voice", c.Tone, c.Style)
	if c.PodcastID != "" {
		fmt.Fprintf(w, "  %-10s %s\n", "Podcast", c.PodcastID)
	}
	fmt.Fprintln(w)

	switch p := c.Payload.(type) {
	case *compose.TextPayload:
		fmt.Fprintf(w, "%s\n\n%s\n\nPost in: %s\n", p.Content, strings.Join(p.Hashtags, " "), p.Community)
	case *compose.ImageSetPayload:
		for i, img := range p.Images {
			fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, p.Captions[i], img)
		}
	case *compose.VideoPayload:
		fmt.Fprintf(w, "  %s\n  Duration:  %s\n  Media:     %s\n  Thumbnail: %s\n\n  Script:\n  %s\n",
			p.Description, p.Duration, p.MediaURL, p.ThumbnailURL, p.Script)
	case *compose.GIFPayload:
		fmt.Fprintf(w, "  %s\n  %s\n  %s, %s, loop=%t\n  Media:     %s\n  Thumbnail: %s\n",
			p.Title, p.Description, p.Duration, p.Dimensions, p.Loop, p.MediaURL, p.ThumbnailURL)
	case *compose.InfographicPayload:
		fmt.Fprintf(w, "  %s\n  %s\n", p.Title, p.ImageURL)
		for _, s := range p.Sections {
			fmt.Fprintf(w, "\n  %s\n  %s\n", strings.ToUpper(s.Heading), s.Body)
		}
	case *compose.SlideDeckPayload:
		fmt.Fprintf(w, "  %s (%d slides)\n", p.Title, p.TotalSlides)
		for _, s := range p.Slides {
			fmt.Fprintf(w, "\n  [%d] %s\n      %s\n      %s\n", s.Number, s.Title, s.Body, s.ImageURL)
		}
	}
	fmt.Fprintln(w)
}

func printReport(w io.Writer, r analysis.Report) {
	m := r.Metrics
	fmt.Fprintf(w, "\n  Analysis %s (%s)\n  %s\n", r.PodcastID, r.Category, rule)
	fmt.Fprintf(w, "  %-22s %d/100\n", "Overall score", r.OverallScore)
	fmt.Fprintf(w, "  %-22s %d total, %d monthly (+%.1f%%)\n", "Listeners", m.TotalListeners, m.MonthlyListeners, m.GrowthRate)
	fmt.Fprintf(w, "  %-22s engagement %d%%, retention %d%%, completion %d%%\n", "Engagement", m.EngagementRate, m.RetentionRate, m.CompletionRate)
	fmt.Fprintf(w, "  %-22s %.1f from %d reviews\n", "Rating", m.AverageRating, m.TotalReviews)
	fmt.Fprintf(w, "  %-22s %s (%d%% positive, %d%% neutral, %d%% negative)\n", "Sentiment",
		r.Sentiment.Overall, r.Sentiment.Positive, r.Sentiment.Neutral, r.Sentiment.Negative)

	fmt.Fprintf(w, "\n  TOPICS\n")
	for _, t := range r.Topics {
		fmt.Fprintf(w, "  %-28s relevance %d%%\n", t.Name, t.Relevance)
	}
	fmt.Fprintf(w, "\n  AUDIENCE\n")
	for _, s := range r.AudienceSegments {
		fmt.Fprintf(w, "  %-28s %d%%\n", s.Name, s.Percentage)
	}
	fmt.Fprintf(w, "\n  INSIGHTS\n")
	for _, s := range r.Insights {
		fmt.Fprintf(w, "  • %s\n", s)
	}
	fmt.Fprintf(w, "\n  RECOMMENDATIONS\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  [%s] %s: %s\n", rec.Priority, rec.Title, rec.Description)
	}
	fmt.Fprintln(w)
}

func printScript(w io.Writer, res script.Result) {
	fmt.Fprintf(w, "\n%s (%s, est. %s)\n\n%s\n\n", script.StyleLabel(res.Style), script.DurationRangeLabel(res.Style), res.EstimatedDuration, res.Text)
}

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintf(w, "\n  CONTENT\n  %s\n", rule)
	fmt.Fprintf(w, "  %-8s %s\n", "kinds", strings.Join(kindNames(), ", "))
	fmt.Fprintf(w, "  %-8s %s\n", "tones", strings.Join(cat.Tones(), ", "))
	fmt.Fprintf(w, "  %-8s %s\n", "styles", strings.Join(cat.Styles(), ", "))

	fmt.Fprintf(w, "\n  SCRIPTS\n  %s\n", rule)
	fmt.Fprintf(w, "  %-8s %s\n", "tones", strings.Join(script.ToneNames(), ", "))
	fmt.Fprintf(w, "  %-8s %s\n\n", "focus", strings.Join(script.FocusNames(), ", "))

	var rows [][]string
	for _, s := range script.StyleNames() {
		rows = append(rows, []string{s, script.StyleLabel(s), script.DurationRangeLabel(s)})
	}
	fmt.Fprintln(w, renderTable([]string{"STYLE", "LABEL", "DURATION"}, rows))
	fmt.Fprintln(w)
}

func printPodcasts(w io.Writer, list []*podcast.Podcast) {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			p.ID,
			p.Title,
			p.Category.Label(),
			strconv.Itoa(len(p.Episodes)),
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
		})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"ID", "TITLE", "CATEGORY", "EPISODES", "RATING"}, rows, 3, 4))
	fmt.Fprintln(w)
}
