package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Growth Loop", "thegrowthloop"},
		{"  Stack-Trace Radio!! ", "stacktraceradio"},
		{"", DefaultKey},
		{"!!!", DefaultKey},
		{"Café 42", "café42"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, kind := range []Kind{KindImage, KindVideo, KindGIF} {
		for i := 0; i < 10; i++ {
			a := Resolve(kind, "The Growth Loop", i, Square)
			b := Resolve(kind, "the growth loop", i, Square)
			assert.Equal(t, a, b, "kind %s index %d", kind, i)
		}
	}
}

func TestResolveImageURL(t *testing.T) {
	ref := Image("Stack Trace Radio", 2, Landscape)
	assert.Equal(t, KindImage, ref.Kind)
	assert.Equal(t, "stacktraceradio-2", ref.Seed)
	assert.Equal(t, "https://picsum.photos/seed/stacktraceradio-2/1280/720", ref.URL)
}

func TestResolveEmptyKeyUsesDefault(t *testing.T) {
	ref := Image("", 0, Square)
	assert.Equal(t, "default-0", ref.Seed)
}

func TestResolveDistinctIndexes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		seen[Image("podcast", i, Square).URL] = true
	}
	assert.Len(t, seen, 5)
}

func TestVideoAndGIFComeFromPools(t *testing.T) {
	assert.Contains(t, videoPool, Video("x", 0).URL)
	assert.Contains(t, gifPool, GIF("x", 0).URL)
	assert.Equal(t, GIFSquare, GIF("x", 0).Dimensions)
}

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"marketing", "marketing"},
		{"Digital Marketing Tips", "marketing"},
		{"tech", "technology"},
		{"small business owners", "business"},
		{"podcasting", "podcast"},
		{"gardening", OtherTopic},
		{"", OtherTopic},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchTopic(tt.in))
		})
	}
}

func TestTopicSeedsIsACopy(t *testing.T) {
	seeds := TopicSeeds("Technology trends")
	require.Len(t, seeds, 5)
	assert.Equal(t, "tech-circuit", seeds[0])
	seeds[0] = "changed"
	assert.Equal(t, "tech-circuit", TopicSeeds("technology")[0])
	assert.Equal(t, "abstract-colors", TopicSeeds("")[0])
}

func TestTopicImages(t *testing.T) {
	refs := TopicImages("technology", 5, Square)
	assert.Len(t, refs, 5)
	assert.Equal(t, "tech-circuit", refs[0].Seed)

	again := TopicImages("technology", 5, Square)
	assert.Equal(t, refs, again)

	more := TopicImages("technology", 7, Square)
	assert.Equal(t, "tech-circuit-1", more[5].Seed)
}
