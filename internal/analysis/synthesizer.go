// Package analysis synthesizes podcast analysis reports. Category bundles
// supply the narrative content; metrics are layered on top with bounded
// jitter so that every report is plausible and internally consistent.
package analysis

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/apresai/podstudio/internal/podcast"
	"github.com/oklog/ulid/v2"
)

// TrendMonths is the length of every trend series.
const TrendMonths = 6

// Score bounds for Report.OverallScore.
const (
	MinScore = 80
	MaxScore = 95
)

// Synthesizer builds reports. It is safe for concurrent use.
type Synthesizer struct {
	bundles *Bundles
	now     func() time.Time
	newID   func() string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithRand pins the source of metric jitter.
func WithRand(r *rand.Rand) Option { return func(s *Synthesizer) { s.rng = r } }

func WithClock(now func() time.Time) Option { return func(s *Synthesizer) { s.now = now } }

func WithIDFunc(f func() string) Option { return func(s *Synthesizer) { s.newID = f } }

// WithBundles replaces the embedded category bundles.
func WithBundles(b *Bundles) Option { return func(s *Synthesizer) { s.bundles = b } }

func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		bundles: DefaultBundles(),
		now:     time.Now,
		newID:   func() string { return ulid.Make().String() },
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize produces a complete report for podcastID. p may be nil, in
// which case the default bundle and fully synthesized metrics are used.
func (s *Synthesizer) Synthesize(podcastID string, p *podcast.Podcast) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := string(podcast.CategoryOther)
	if p != nil && p.Category != "" {
		category = string(p.Category)
	}
	b := s.bundles.Lookup(category)
	now := s.now().UTC()

	m := s.metrics(b, p)
	sent := s.sentiment(p)
	return Report{
		ID:               s.newID(),
		PodcastID:        podcastID,
		Category:         b.Category,
		Metrics:          m,
		Sentiment:        sent,
		Topics:           s.topics(b),
		AudienceSegments: s.segments(b),
		Recommendations:  append([]Recommendation(nil), b.Recommendations...),
		Competitors:      s.competitors(b, m),
		Trends:           s.trends(now, m, sent),
		Keywords:         append([]string(nil), b.Keywords...),
		OverallScore:     s.score(m.AverageRating),
		Insights:         append([]string(nil), b.Insights...),
		Strengths:        append([]string(nil), b.Strengths...),
		Improvements:     append([]string(nil), b.Improvements...),
		CreatedAt:        now,
	}
}

// between returns a uniform integer in [lo, hi].
func (s *Synthesizer) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *Synthesizer) metrics(b *Bundle, p *podcast.Podcast) Metrics {
	total := s.between(b.Listeners.Min, b.Listeners.Max)
	m := Metrics{
		TotalListeners:       total,
		MonthlyListeners:     total * s.between(25, 40) / 100,
		GrowthRate:           round1(5 + s.rng.Float64()*20),
		EngagementRate:       s.between(60, 85),
		RetentionRate:        s.between(55, 80),
		CompletionRate:       s.between(60, 90),
		AverageListenMinutes: s.between(18, 45),
		AverageRating:        round1(3.5 + s.rng.Float64()*1.5),
		TotalReviews:         s.between(50, 500),
		EpisodesAnalyzed:     s.between(10, 40),
	}
	if p == nil {
		return m
	}
	if p.Rating > 0 {
		m.AverageRating = p.Rating
	}
	switch {
	case p.ReviewCount > 0:
		m.TotalReviews = p.ReviewCount
	case len(p.Reviews) > 0:
		m.TotalReviews = len(p.Reviews)
	}
	if n := len(p.Episodes); n > 0 {
		m.EpisodesAnalyzed = n
	}
	return m
}

// sentiment splits 100 points between positive, neutral and negative. When
// the podcast carries reviews the positive share follows the share of
// four- and five-star reviews.
func (s *Synthesizer) sentiment(p *podcast.Podcast) Sentiment {
	positive := s.between(65, 85)
	if p != nil {
		if share, ok := p.PositiveReviewShare(); ok {
			positive = clamp(int(math.Round(share*100))+s.between(-3, 3), 35, 92)
		}
	}
	rest := 100 - positive
	negative := s.between(2, 8)
	if negative > rest {
		negative = rest
	}
	sent := Sentiment{
		Positive:   positive,
		Neutral:    rest - negative,
		Negative:   negative,
		Confidence: s.between(82, 96),
	}
	switch {
	case positive >= 70:
		sent.Overall = "very positive"
	case positive >= 55:
		sent.Overall = "positive"
	case positive >= 40:
		sent.Overall = "mixed"
	default:
		sent.Overall = "negative"
	}
	return sent
}

func (s *Synthesizer) topics(b *Bundle) []Topic {
	out := make([]Topic, len(b.Topics))
	for i, t := range b.Topics {
		t.Relevance = clamp(t.Relevance+s.between(-4, 4), 1, 100)
		t.Frequency = max(1, t.Frequency+s.between(-3, 3))
		t.Keywords = append([]string(nil), t.Keywords...)
		out[i] = t
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

func (s *Synthesizer) segments(b *Bundle) []Segment {
	weights := make([]int, len(b.Segments))
	for i, seg := range b.Segments {
		weights[i] = max(1, seg.Weight+s.between(-3, 3))
	}
	pcts := apportion(weights, 100)
	out := make([]Segment, len(b.Segments))
	for i, seg := range b.Segments {
		out[i] = Segment{Name: seg.Name, Percentage: pcts[i], Description: seg.Description}
	}
	return out
}

func (s *Synthesizer) competitors(b *Bundle, m Metrics) []Competitor {
	out := make([]Competitor, len(b.Competitors))
	for i, c := range b.Competitors {
		out[i] = Competitor{
			Name:      c.Name,
			Listeners: m.TotalListeners * s.between(60, 180) / 100,
			Rating:    round1(4.0 + s.rng.Float64()*0.9),
			Strength:  c.Strength,
		}
	}
	return out
}

// trends builds the series backwards from the current metrics so the last
// point matches the report. Listeners never decrease month over month;
// engagement and sentiment move by at most three points per month.
func (s *Synthesizer) trends(now time.Time, m Metrics, sent Sentiment) Trends {
	t := Trends{
		Months:     make([]string, TrendMonths),
		Listeners:  make([]int, TrendMonths),
		Engagement: make([]int, TrendMonths),
		Sentiment:  make([]int, TrendMonths),
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := TrendMonths - 1
	t.Listeners[last] = m.MonthlyListeners
	t.Engagement[last] = m.EngagementRate
	t.Sentiment[last] = sent.Positive
	for i := last; i >= 0; i-- {
		t.Months[i] = first.AddDate(0, i-last, 0).Format("Jan 2006")
		if i == last {
			continue
		}
		step := m.GrowthRate / 100 / TrendMonths * (0.5 + s.rng.Float64())
		t.Listeners[i] = max(0, t.Listeners[i+1]-int(float64(t.Listeners[i+1])*step))
		t.Engagement[i] = clamp(t.Engagement[i+1]-s.between(-3, 3), 0, 100)
		t.Sentiment[i] = clamp(t.Sentiment[i+1]-s.between(-3, 3), 0, 100)
	}
	return t
}

// score maps the rating onto the lower part of the score band and adds jitter.
func (s *Synthesizer) score(rating float64) int {
	base := MinScore + clamp(int((rating-3.5)/1.5*10), 0, 10)
	return clamp(base+s.between(0, 5), MinScore, MaxScore)
}

// apportion splits total proportionally to weights using the largest
// remainder method, so the parts always sum to total.
func apportion(weights []int, total int) []int {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	out := make([]int, len(weights))
	if sum == 0 {
		return out
	}
	type rem struct {
		i   int
		rem int
	}
	rems := make([]rem, len(weights))
	assigned := 0
	for i, w := range weights {
		out[i] = w * total / sum
		assigned += out[i]
		rems[i] = rem{i: i, rem: w * total % sum}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].rem > rems[b].rem })
	for k := 0; assigned < total; k++ {
		out[rems[k%len(rems)].i]++
		assigned++
	}
	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
