package compose

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/apresai/podstudio/internal/podcast"
)

// Kind is the type of artifact a request produces.
type Kind string

const (
	KindText        Kind = "text"
	KindImageSet    Kind = "image-set"
	KindVideo       Kind = "video"
	KindGIF         Kind = "gif"
	KindInfographic Kind = "infographic"
	KindSlideDeck   Kind = "slide-deck"
)

// Kinds returns all content kinds in display order.
func Kinds() []Kind {
	return []Kind{KindText, KindImageSet, KindVideo, KindGIF, KindInfographic, KindSlideDeck}
}

// ParseKind reports whether s names a content kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ContentRequest is the categorical input of one generation call.
type ContentRequest struct {
	Kind    Kind
	Tone    string
	Style   string
	Focus   string
	Podcast *podcast.Podcast
	// Images are caller-supplied references, e.g. user uploads. They take
	// precedence over resolved placeholders.
	Images []string
	// Topic is the generic subject used when Podcast is nil.
	Topic string
	// Category names the generic subject when neither Podcast nor Topic is
	// set.
	Category podcast.Category
}

// GeneratedContent is one immutable generation result. Regenerating creates a
// new record with a new ID.
type GeneratedContent struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
	Tone      string    `json:"tone"`
	Style     string    `json:"style"`
	PodcastID string    `json:"podcastId,omitempty"`
}

// UnmarshalJSON decodes the payload into the concrete type named by Kind.
func (g *GeneratedContent) UnmarshalJSON(data []byte) error {
	type alias GeneratedContent
	aux := struct {
		*alias
		Payload json.RawMessage `json:"payload"`
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p, err := DecodePayload(g.Kind, aux.Payload)
	if err != nil {
		return err
	}
	g.Payload = p
	return nil
}

// DecodePayload decodes raw JSON into the payload type for kind.
func DecodePayload(kind Kind, raw []byte) (Payload, error) {
	var p Payload
	switch kind {
	case KindText:
		p = &TextPayload{}
	case KindImageSet:
		p = &ImageSetPayload{}
	case KindVideo:
		p = &VideoPayload{}
	case KindGIF:
		p = &GIFPayload{}
	case KindInfographic:
		p = &InfographicPayload{}
	case KindSlideDeck:
		p = &SlideDeckPayload{}
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return p, nil
}

// Validate checks that the payload matches Kind and is fully populated.
func (g GeneratedContent) Validate() error {
	if g.Payload == nil {
		return fmt.Errorf("content %s: missing payload", g.ID)
	}
	if g.Payload.Kind() != g.Kind {
		return fmt.Errorf("content %s: payload kind %s does not match %s", g.ID, g.Payload.Kind(), g.Kind)
	}
	if g.ID == "" || g.Title == "" {
		return fmt.Errorf("content of kind %s: id and title are required", g.Kind)
	}
	return g.Payload.Validate()
}
