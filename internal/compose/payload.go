package compose

import (
	"errors"
	"fmt"
	"strings"
)

// Payload is the kind-specific body of a GeneratedContent. The set of
// implementations is closed.
type Payload interface {
	Kind() Kind
	Validate() error
	sealed()
}

type TextPayload struct {
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	Community string   `json:"community"`
}

type ImageSetPayload struct {
	Images   []string `json:"images"`
	Captions []string `json:"captions"`
}

type VideoPayload struct {
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	Script       string `json:"script"`
	Description  string `json:"description"`
}

type GIFPayload struct {
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Description  string `json:"description"`
	Title        string `json:"title"`
	Duration     string `json:"duration"`
	Dimensions   string `json:"dimensions"`
	Loop         bool   `json:"loop"`
}

type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type InfographicPayload struct {
	ImageURL string    `json:"imageUrl"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Slide struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl"`
}

type SlideDeckPayload struct {
	Title       string  `json:"title"`
	Slides      []Slide `json:"slides"`
	TotalSlides int     `json:"totalSlides"`
}

func (TextPayload) Kind() Kind        { return KindText }
func (ImageSetPayload) Kind() Kind    { return KindImageSet }
func (VideoPayload) Kind() Kind       { return KindVideo }
func (GIFPayload) Kind() Kind         { return KindGIF }
func (InfographicPayload) Kind() Kind { return KindInfographic }
func (SlideDeckPayload) Kind() Kind   { return KindSlideDeck }

func (TextPayload) sealed()        {}
func (ImageSetPayload) sealed()    {}
func (VideoPayload) sealed()       {}
func (GIFPayload) sealed()         {}
func (InfographicPayload) sealed() {}
func (SlideDeckPayload) sealed()   {}

// missing collects the names of empty required string fields.
type missing []string

func (m *missing) check(name, value string) {
	if strings.TrimSpace(value) == "" {
		*m = append(*m, name)
	}
}

func (m missing) err(kind Kind) error {
	if len(m) == 0 {
		return nil
	}
	return fmt.Errorf("%s payload missing %s", kind, strings.Join(m, ", "))
}

func (p TextPayload) Validate() error {
	var m missing
	m.check("content", p.Content)
	m.check("community", p.Community)
	if len(p.Hashtags) == 0 {
		m = append(m, "hashtags")
	}
	return m.err(KindText)
}

func (p ImageSetPayload) Validate() error {
	var m missing
	if len(p.Images) == 0 {
		m = append(m, "images")
	}
	for i, img := range p.Images {
		m.check(fmt.Sprintf("images[%d]", i), img)
	}
	if err := m.err(KindImageSet); err != nil {
		return err
	}
	if len(p.Captions) != len(p.Images) {
		return fmt.Errorf("image-set payload has %d captions for %d images", len(p.Captions), len(p.Images))
	}
	return nil
}

func (p VideoPayload) Validate() error {
	var m missing
	m.check("mediaUrl", p.MediaURL)
	m.check("thumbnailUrl", p.ThumbnailURL)
	m.check("duration", p.Duration)
	m.check("script", p.Script)
	m.check("description", p.Description)
	return m.err(KindVideo)
}

func (p GIFPayload) Validate() error {
	var m missing
	m.check("mediaUrl", p.MediaURL)
	m.check("thumbnailUrl", p.ThumbnailURL)
	m.check("description", p.Description)
	m.check("title", p.Title)
	m.check("duration", p.Duration)
	m.check("dimensions", p.Dimensions)
	return m.err(KindGIF)
}

func (p InfographicPayload) Validate() error {
	var m missing
	m.check("imageUrl", p.ImageURL)
	m.check("title", p.Title)
	if len(p.Sections) == 0 {
		m = append(m, "sections")
	}
	for i, s := range p.Sections {
		m.check(fmt.Sprintf("sections[%d].heading", i), s.Heading)
		m.check(fmt.Sprintf("sections[%d].body", i), s.Body)
	}
	return m.err(KindInfographic)
}

func (p SlideDeckPayload) Validate() error {
	var m missing
	m.check("title", p.Title)
	if len(p.Slides) == 0 {
		m = append(m, "slides")
	}
	for i, s := range p.Slides {
		m.check(fmt.Sprintf("slides[%d].title", i), s.Title)
		m.check(fmt.Sprintf("slides[%d].body", i), s.Body)
		m.check(fmt.Sprintf("slides[%d].imageUrl", i), s.ImageURL)
	}
	if err := m.err(KindSlideDeck); err != nil {
		return err
	}
	if p.TotalSlides != len(p.Slides) {
		return errors.New("slide-deck payload totalSlides does not match slides")
	}
	return nil
}
