package analysis

import (
	"strings"
	"time"
)

// Report is one synthesized podcast analysis. Reports are immutable once
// returned.
type Report struct {
	ID               string           `json:"id"`
	PodcastID        string           `json:"podcastId"`
	Category         string           `json:"category"`
	Metrics          Metrics          `json:"metrics"`
	Sentiment        Sentiment        `json:"sentiment"`
	Topics           []Topic          `json:"topics"`
	AudienceSegments []Segment        `json:"audienceSegments"`
	Recommendations  []Recommendation `json:"recommendations"`
	Competitors      []Competitor     `json:"competitors"`
	Trends           Trends           `json:"trends"`
	Keywords         []string         `json:"keywords"`
	OverallScore     int              `json:"overallScore"`
	Insights         []string         `json:"insights"`
	Strengths        []string         `json:"strengths"`
	Improvements     []string         `json:"improvements"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type Metrics struct {
	TotalListeners       int     `json:"totalListeners"`
	MonthlyListeners     int     `json:"monthlyListeners"`
	GrowthRate           float64 `json:"growthRate"`
	EngagementRate       int     `json:"engagementRate"`
	RetentionRate        int     `json:"retentionRate"`
	CompletionRate       int     `json:"completionRate"`
	AverageRating        float64 `json:"averageRating"`
	TotalReviews         int     `json:"totalReviews"`
	AverageListenMinutes int     `json:"averageListenMinutes"`
	EpisodesAnalyzed     int     `json:"episodesAnalyzed"`
}

// Sentiment percentages always sum to 100.
type Sentiment struct {
	Positive   int    `json:"positive"`
	Neutral    int    `json:"neutral"`
	Negative   int    `json:"negative"`
	Overall    string `json:"overall"`
	Confidence int    `json:"confidence"`
}

type Topic struct {
	Name      string   `json:"name" yaml:"name"`
	Relevance int      `json:"relevance" yaml:"relevance"`
	Frequency int      `json:"frequency" yaml:"frequency"`
	Sentiment string   `json:"sentiment" yaml:"sentiment"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
}

type Segment struct {
	Name        string `json:"name"`
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

type Recommendation struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Priority    string `json:"priority" yaml:"priority"`
	Impact      string `json:"impact" yaml:"impact"`
}

type Competitor struct {
	Name      string  `json:"name"`
	Listeners int     `json:"listeners"`
	Rating    float64 `json:"rating"`
	Strength  string  `json:"strength"`
}

// Trends holds three parallel monthly series, oldest first.
type Trends struct {
	Months     []string `json:"months"`
	Listeners  []int    `json:"listeners"`
	Engagement []int    `json:"engagement"`
	Sentiment  []int    `json:"sentiment"`
}

// SeedText renders the report as the free-text analysis blob the script
// composer parses: a "Key insights:" block followed by a "Main topics:" block.
func (r Report) SeedText() string {
	var b strings.Builder
	b.WriteString("Key insights:\n")
	for _, in := range r.Insights {
		b.WriteString("• " + in + "\n")
	}
	b.WriteString("\nMain topics:\n")
	for _, t := range r.Topics {
		b.WriteString("• " + t.Name + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
