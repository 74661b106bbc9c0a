package assets

import (
	"fmt"
	"strings"
)

// OtherTopic is the final bucket for topics that match nothing.
const OtherTopic = "other"

// topicOrder fixes the match order so fuzzy matching is deterministic.
var topicOrder = []string{
	"marketing",
	"technology",
	"business",
	"entrepreneurship",
	"entertainment",
	"society",
	"podcast",
	OtherTopic,
}

var topicSeeds = map[string][]string{
	"marketing":        {"marketing-strategy", "brand-campaign", "social-growth", "content-calendar", "audience-funnel"},
	"technology":       {"tech-circuit", "code-screen", "data-center", "ai-network", "startup-laptop"},
	"business":         {"business-meeting", "office-skyline", "quarterly-chart", "team-handshake", "finance-desk"},
	"entrepreneurship": {"founder-desk", "startup-garage", "pitch-deck", "coworking-space", "launch-day"},
	"entertainment":    {"stage-lights", "movie-night", "concert-crowd", "popcorn-show", "studio-set"},
	"society":          {"city-people", "community-park", "public-square", "neighbors-talk", "town-hall"},
	"podcast":          {"podcast-mic", "recording-studio", "headphones-desk", "audio-waves", "on-air-sign"},
	OtherTopic:         {"abstract-colors", "creative-space", "minimal-desk", "notebook-coffee", "golden-hour"},
}

// MatchTopic maps a free-text topic onto the topic table: exact match first,
// then substring containment in either direction, then OtherTopic.
func MatchTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	if t == "" {
		return OtherTopic
	}
	if _, ok := topicSeeds[t]; ok {
		return t
	}
	for _, name := range topicOrder {
		if strings.Contains(t, name) || strings.Contains(name, t) {
			return name
		}
	}
	return OtherTopic
}

// TopicSeeds returns the curated seeds for a topic.
func TopicSeeds(topic string) []string {
	return append([]string(nil), topicSeeds[MatchTopic(topic)]...)
}

// TopicImages resolves up to n images from the topic's curated seeds,
// cycling through the seed list when n exceeds it.
func TopicImages(topic string, n int, dims Dimensions) []Ref {
	if n < 0 {
		n = 0
	}
	seeds := TopicSeeds(topic)
	refs := make([]Ref, 0, n)
	for i := 0; i < n; i++ {
		seed := seeds[i%len(seeds)]
		if i >= len(seeds) {
			seed = fmt.Sprintf("%s-%d", seed, i/len(seeds))
		}
		refs = append(refs, fromSeed(KindImage, seed, dims))
	}
	return refs
}
