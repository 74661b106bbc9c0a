package script

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spanishAnalysis = "Insights clave:\n• A\n• B\n\nTemas principales:\n• C"

func TestComposeSummaryScenario(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		r := Compose(rand.New(rand.NewSource(seed)), Request{
			Tone:         "conversational",
			Style:        "summary",
			Focus:        "insights",
			AnalysisText: spanishAnalysis,
		})
		assert.LessOrEqual(t, len(r.Bullets), 3)
		assert.Contains(t, []string{"1 min", "2 min"}, r.EstimatedDuration)
		assert.Equal(t, []string{"A", "B", "C"}, r.Bullets)
		assert.Contains(t, r.Text, "Insight: A")
		assert.Contains(t, r.Text, "IN SHORT:")
	}
}

func TestComposeDurationRanges(t *testing.T) {
	want := map[string][]string{
		"summary":    {"1 min", "2 min"},
		"highlights": {"3 min", "4 min"},
		"tutorial":   {"6 min", "7 min", "8 min"},
		"case-study": {"6 min", "7 min", "8 min"},
		"deep-dive":  {"10 min", "11 min", "12 min"},
	}
	rng := rand.New(rand.NewSource(42))
	for _, style := range StyleNames() {
		seen := map[string]bool{}
		for i := 0; i < 200; i++ {
			r := Compose(rng, Request{Style: style, AnalysisText: spanishAnalysis})
			assert.Contains(t, want[style], r.EstimatedDuration, style)
			seen[r.EstimatedDuration] = true
		}
		assert.Len(t, seen, len(want[style]), "%s should cover its whole range", style)
	}
}

func TestComposeBulletCap(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "- point "+string(rune('a'+i)))
	}
	text := "Key insights:\n" + strings.Join(lines, "\n")
	rng := rand.New(rand.NewSource(1))

	assert.Len(t, Compose(rng, Request{Style: "summary", AnalysisText: text}).Bullets, 3)
	assert.Len(t, Compose(rng, Request{Style: "deep-dive", AnalysisText: text}).Bullets, 6)
}

func TestComposeFallbacks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := Compose(rng, Request{Tone: "sarcastic", Style: "epic", Focus: "random", AnalysisText: ""})
	assert.Equal(t, "conversational", r.Tone)
	assert.Equal(t, "summary", r.Style)
	assert.Equal(t, "balanced", r.Focus)
	assert.Equal(t, []string{emptyAnalysisBullet}, r.Bullets)
	assert.NotEmpty(t, r.Text)
}

func TestComposeFocusPrefixes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for focus, prefix := range map[string]string{
		"insights":   "Insight: ",
		"topics":     "Topic: ",
		"actionable": "Try this: ",
		"balanced":   "- ",
	} {
		r := Compose(rng, Request{Style: "highlights", Focus: focus, AnalysisText: spanishAnalysis})
		assert.Contains(t, r.Text, prefix+r.Bullets[0], focus)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Analysis
	}{
		{
			name: "spanish headers",
			text: spanishAnalysis,
			want: Analysis{Insights: []string{"A", "B"}, Topics: []string{"C"}},
		},
		{
			name: "english headers and markers",
			text: "## Key Insights\n- one\n* two\n\nMain topics:\n• AI\nnot a bullet",
			want: Analysis{Insights: []string{"one", "two"}, Topics: []string{"AI"}},
		},
		{
			name: "bullets before any header are ignored",
			text: "- stray\nTopics:\n- kept",
			want: Analysis{Topics: []string{"kept"}},
		},
		{
			name: "raw fallback",
			text: "first line\n\n  - second line  \n",
			want: Analysis{Raw: []string{"first line", "second line"}},
		},
		{
			name: "empty",
			text: " \n\n",
			want: Analysis{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestAnalysisBulletsOrdering(t *testing.T) {
	a := Analysis{Insights: []string{"i1", "i2"}, Topics: []string{"t1"}}
	assert.Equal(t, []string{"i1", "i2", "t1"}, a.Bullets("insights"))
	assert.Equal(t, []string{"t1", "i1", "i2"}, a.Bullets("topics"))
	assert.Equal(t, []string{"i1", "t1", "i2"}, a.Bullets("balanced"))
	assert.True(t, Analysis{}.Empty())
}

func TestStyleTables(t *testing.T) {
	for _, s := range StyleNames() {
		assert.True(t, IsValidStyle(s))
		assert.NotEmpty(t, StyleLabel(s))
	}
	assert.False(t, IsValidStyle("podcast"))
	assert.Equal(t, "Quick Summary", StyleLabel("unknown"))
	assert.Equal(t, "6-8 min", DurationRangeLabel("case-study"))
}

func TestSaveLoadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "script.json")
	r := Compose(rand.New(rand.NewSource(1)), Request{AnalysisText: spanishAnalysis})
	require.NoError(t, SaveResult(&r, path))

	got, err := LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, r, *got)

	_, err = LoadResult(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestComposeEmptyAnalysis(t *testing.T) {
	r := Compose(rand.New(rand.NewSource(1)), Request{AnalysisText: "\n  \n"})
	assert.Equal(t, []string{emptyAnalysisBullet}, r.Bullets)
	assert.True(t, Parse("").Empty())
	assert.False(t, Parse("just one line").Empty())
}
