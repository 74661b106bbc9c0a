package render

import (
	"regexp"
	"testing"

	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/stretchr/testify/assert"
)

var tokenRe = regexp.MustCompile(`\{[a-zA-Z_]+\}`)

func samplePodcast() *podcast.Podcast {
	return &podcast.Podcast{
		ID:       "stack-trace",
		Title:    "Stack Trace Radio",
		Author:   "Devon Park",
		Category: podcast.CategoryTechnology,
		Episodes: []podcast.Episode{{
			ID:          "st-1",
			Title:       "Running Postgres at Scale",
			Duration:    "55:02",
			Description: "Sharding and vacuum tuning.",
		}},
	}
}

func TestRenderEntity(t *testing.T) {
	f := FieldsFor(samplePodcast())
	got := Render("{author} on {title}: '{episode}' ({category}). {description}", f)
	assert.Equal(t, "Devon Park on Stack Trace Radio: 'Running Postgres at Scale' (technology). Sharding and vacuum tuning.", got)
}

func TestRenderGeneric(t *testing.T) {
	f := GenericFields("")
	got := Render("All about {topic} by {author}. {description}", f)
	assert.Equal(t, "All about content creation by our team.", got)
}

func TestRenderUnknownPlaceholderUsesTopic(t *testing.T) {
	got := Render("Hello {mystery}!", GenericFields("gardening"))
	assert.Equal(t, "Hello gardening!", got)
}

func TestRenderNeverLeaksPlaceholders(t *testing.T) {
	c := catalog.Default()
	contexts := []Fields{
		FieldsFor(samplePodcast()),
		FieldsFor(&podcast.Podcast{Title: "Bare"}),
		GenericFields(""),
		GenericFieldsForCategory(podcast.CategoryMarketing),
	}
	for _, tone := range c.Tones() {
		for _, style := range c.Styles() {
			for _, hasEntity := range []bool{true, false} {
				for _, tmpl := range c.Lookup(tone, style, hasEntity) {
					for _, f := range contexts {
						out := Render(tmpl, f)
						assert.NotEmpty(t, out)
						assert.False(t, tokenRe.MatchString(out), "leaked placeholder in %q", out)
					}
				}
			}
		}
	}
}

func TestFieldsForFallbacks(t *testing.T) {
	f := FieldsFor(&podcast.Podcast{Title: "Bare", Description: "About nothing."})
	assert.Equal(t, "the host", f.Author)
	assert.Equal(t, "the latest episode", f.Episode)
	assert.Equal(t, "About nothing.", f.Description)
	assert.Equal(t, "general", f.Category)
	assert.True(t, f.HasEntity)

	assert.False(t, FieldsFor(nil).HasEntity)
}

func TestHashtagsGeneric(t *testing.T) {
	tags := Hashtags(catalog.Default(), "friendly", "educational", nil)
	assert.Equal(t, []string{"#LearnTogether", "#FriendlyTips", "#Education"}, tags)
}

func TestHashtagsEntityCapped(t *testing.T) {
	tags := Hashtags(catalog.Default(), "professional", "informative", samplePodcast())
	assert.Len(t, tags, MaxHashtags)
	assert.Equal(t, []string{"#IndustryInsights", "#MarketUpdate", "#Briefing", "#Technology", "#StackTraceRadio"}, tags)
}

func TestHashtagsDeduplicate(t *testing.T) {
	p := &podcast.Podcast{Title: "Education", Category: podcast.CategoryOther}
	tags := Hashtags(catalog.Default(), "friendly", "educational", p)
	assert.Equal(t, []string{"#LearnTogether", "#FriendlyTips", "#Education", "#General", "#Podcast"}, tags)
}

func TestHashtagsEntityPrecedence(t *testing.T) {
	p := &podcast.Podcast{Author: "Ana Ruiz", Category: podcast.CategoryTechnology}
	tags := Hashtags(catalog.Default(), "friendly", "educational", p)
	assert.Equal(t, []string{"#LearnTogether", "#FriendlyTips", "#Education", "#Technology", "#Podcast"}, tags)

	p.Title = "Technology"
	tags = Hashtags(catalog.Default(), "friendly", "educational", p)
	assert.Equal(t, []string{"#LearnTogether", "#FriendlyTips", "#Education", "#Technology", "#Podcast"}, tags)
	assert.NotContains(t, tags, "#AnaRuiz")
}

func TestTagify(t *testing.T) {
	assert.Equal(t, "StackTraceRadio", Tagify("stack trace radio", 20))
	assert.Equal(t, "TheVeryLongPodcastNa", Tagify("the very long podcast name", 20))
	assert.Equal(t, "", Tagify("  !! ", 20))
}
