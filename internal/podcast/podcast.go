// Package podcast models the entity a user selects before generating
// content: a podcast with its episodes and reviews. It also embeds the sample
// library the CLI and MCP server offer by ID.
package podcast

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Category is the closed set of podcast categories the engine knows about.
type Category string

const (
	CategoryMarketing        Category = "marketing"
	CategoryTechnology       Category = "technology"
	CategoryEntrepreneurship Category = "entrepreneurship"
	CategoryBusiness         Category = "business"
	CategoryEntertainment    Category = "entertainment"
	CategorySociety          Category = "society"
	CategoryOther            Category = "other"
)

// Categories returns all valid category values.
func Categories() []Category {
	return []Category{
		CategoryMarketing,
		CategoryTechnology,
		CategoryEntrepreneurship,
		CategoryBusiness,
		CategoryEntertainment,
		CategorySociety,
		CategoryOther,
	}
}

// CategoryNames lists Categories comma separated.
func CategoryNames() string {
	names := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// ParseCategory matches s against Categories, ignoring case and surrounding
// space.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Label returns a display label for the category.
func (c Category) Label() string {
	labels := map[Category]string{
		CategoryMarketing:        "Marketing",
		CategoryTechnology:       "Technology",
		CategoryEntrepreneurship: "Entrepreneurship",
		CategoryBusiness:         "Business",
		CategoryEntertainment:    "Entertainment",
		CategorySociety:          "Society",
		CategoryOther:            "General",
	}
	if l, ok := labels[c]; ok {
		return l
	}
	if c == "" {
		return "General"
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Podcast is the entity context a user selects before generating content.
// The engine only reads it.
type Podcast struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Episodes    []Episode `json:"episodes,omitempty"`
	Reviews     []Review  `json:"reviews,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	ReviewCount int       `json:"reviewCount,omitempty"`
}

type Episode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    string `json:"duration"` // mm:ss
	Description string `json:"description,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
}

type Review struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text,omitempty"`
	Date   string  `json:"date,omitempty"`
}

// FirstEpisode returns the newest listed episode, or nil when the podcast has none.
func (p *Podcast) FirstEpisode() *Episode {
	if p == nil || len(p.Episodes) == 0 {
		return nil
	}
	return &p.Episodes[0]
}

// PositiveReviewShare returns the fraction of reviews rated 4 stars or more
// and whether any reviews were present.
func (p *Podcast) PositiveReviewShare() (float64, bool) {
	if p == nil || len(p.Reviews) == 0 {
		return 0, false
	}
	positive := 0
	for _, r := range p.Reviews {
		if r.Rating >= 4 {
			positive++
		}
	}
	return float64(positive) / float64(len(p.Reviews)), true
}

// LoadFile reads a podcast from a JSON file.
func LoadFile(path string) (*Podcast, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read podcast from %s: %w", path, err)
	}
	var p Podcast
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse podcast from %s: %w", path, err)
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("podcast %s has no title", path)
	}
	if p.ID == "" {
		p.ID = Slug(p.Title)
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	c, ok := ParseCategory(string(p.Category))
	if !ok {
		return nil, fmt.Errorf("podcast %s has unknown category %q (valid: %s)", path, p.Category, CategoryNames())
	}
	p.Category = c
	return &p, nil
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
