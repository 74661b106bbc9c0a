package render

import (
	"strings"
	"unicode"

	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/podcast"
)

// MaxHashtags caps the hashtag list of a text post.
const MaxHashtags = 5

const maxTagLen = 20

// Hashtags returns the tags for a {tone, style} pair. Pair tags come first;
// with a podcast the category, title, "Podcast" and author tags follow. The
// list is deduplicated and capped at MaxHashtags, so entity tags fill only the
// slots the pair tags leave and later ones are dropped first. Empty and
// duplicate tags do not take a slot.
func Hashtags(c *catalog.Catalog, tone, style string, p *podcast.Podcast) []string {
	candidates := c.Hashtags(tone, style)
	if p != nil {
		candidates = append(candidates,
			Tagify(p.Category.Label(), maxTagLen),
			Tagify(p.Title, maxTagLen),
			"Podcast",
			Tagify(p.Author, maxTagLen),
		)
	}

	seen := make(map[string]bool, len(candidates))
	tags := make([]string, 0, MaxHashtags)
	for _, tag := range candidates {
		if tag == "" {
			continue
		}
		k := strings.ToLower(tag)
		if seen[k] {
			continue
		}
		seen[k] = true
		tags = append(tags, "#"+tag)
		if len(tags) == MaxHashtags {
			break
		}
	}
	return tags
}

// Tagify turns s into a CamelCase tag of at most max runes.
func Tagify(s string, max int) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for _, r := range runes {
			if n == max {
				return b.String()
			}
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}
