// Package render fills catalog templates with podcast or generic fields.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/apresai/podstudio/internal/podcast"
)

// DefaultTopic is used when neither a podcast nor a topic is available.
const DefaultTopic = "content creation"

// Fields are the values substituted into a template.
type Fields struct {
	Title       string
	Author      string
	Category    string
	Episode     string
	Description string
	Topic       string
	HasEntity   bool
}

// FieldsFor builds fields from a podcast. A nil podcast yields generic fields.
func FieldsFor(p *podcast.Podcast) Fields {
	if p == nil {
		return GenericFields("")
	}
	category := strings.ToLower(p.Category.Label())
	f := Fields{
		Title:     strings.TrimSpace(p.Title),
		Author:    strings.TrimSpace(p.Author),
		Category:  category,
		Topic:     category,
		HasEntity: true,
	}
	if f.Author == "" {
		f.Author = "the host"
	}
	if ep := p.FirstEpisode(); ep != nil {
		f.Episode = ep.Title
		f.Description = ep.Description
	}
	if f.Episode == "" {
		f.Episode = "the latest episode"
	}
	if f.Description == "" {
		f.Description = p.Description
	}
	if f.Description == "" {
		f.Description = fmt.Sprintf("A new conversation from %s.", f.Title)
	}
	return f
}

// GenericFields builds fields for requests without a podcast. Every
// entity placeholder resolves to the topic.
func GenericFields(topic string) Fields {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	return Fields{
		Title:       topic,
		Author:      "our team",
		Category:    topic,
		Episode:     topic,
		Description: "",
		Topic:       topic,
	}
}

// GenericFieldsForCategory derives the generic topic from a category name.
func GenericFieldsForCategory(c podcast.Category) Fields {
	if c == "" {
		return GenericFields("")
	}
	return GenericFields(strings.ToLower(c.Label()))
}

var (
	leftoverRe = regexp.MustCompile(`\{[a-zA-Z_]+\}`)
	spaceRe    = regexp.MustCompile(`[ \t]{2,}`)
)

// Render substitutes every placeholder in tmpl. Unknown placeholders are
// replaced with the topic, so the output never contains a {token}.
func Render(tmpl string, f Fields) string {
	r := strings.NewReplacer(
		"{title}", f.Title,
		"{author}", f.Author,
		"{category}", f.Category,
		"{episode}", f.Episode,
		"{description}", f.Description,
		"{topic}", f.Topic,
	)
	out := r.Replace(tmpl)
	out = leftoverRe.ReplaceAllLiteralString(out, f.Topic)
	out = spaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
