// Package compose turns a ContentRequest into a fully populated
// GeneratedContent. It never fails for a structurally valid request: unknown
// tone/style pairs resolve through the catalog's fallback, unknown kinds
// produce a text post, and a missing podcast selects generic templates.
package compose

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/apresai/podstudio/internal/render"
	"github.com/oklog/ulid/v2"
)

// MaxImages caps the number of images in an image set.
const MaxImages = 5

// Composer selects and fills templates. It is safe for concurrent use.
type Composer struct {
	cat   *catalog.Catalog
	now   func() time.Time
	newID func() string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Composer.
type Option func(*Composer)

// WithRand pins the source used to choose among equally valid templates.
func WithRand(r *rand.Rand) Option { return func(c *Composer) { c.rng = r } }

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option { return func(c *Composer) { c.now = now } }

// WithIDFunc sets the record ID generator.
func WithIDFunc(f func() string) Option { return func(c *Composer) { c.newID = f } }

// New creates a Composer over cat.
func New(cat *catalog.Catalog, opts ...Option) *Composer {
	c := &Composer{
		cat:   cat,
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Catalog returns the catalog the composer reads from.
func (c *Composer) Catalog() *catalog.Catalog { return c.cat }

// Compose produces a new GeneratedContent for req.
func (c *Composer) Compose(req ContentRequest) GeneratedContent {
	tone := catalog.Normalize(req.Tone)
	style := catalog.Normalize(req.Style)
	key := c.cat.Resolve(tone, style)

	b := build{
		c:     c,
		req:   req,
		key:   key,
		tone:  tone,
		style: style,
		p:     req.Podcast,
	}
	switch {
	case b.p != nil:
		b.fields = render.FieldsFor(b.p)
	case strings.TrimSpace(req.Topic) == "" && req.Category != "":
		b.fields = render.GenericFieldsForCategory(req.Category)
	default:
		b.fields = render.GenericFields(req.Topic)
	}

	var title string
	var payload Payload
	kind := req.Kind
	switch kind {
	case KindImageSet:
		title, payload = b.imageSet()
	case KindVideo:
		title, payload = b.video()
	case KindGIF:
		title, payload = b.gif()
	case KindInfographic:
		title, payload = b.infographic()
	case KindSlideDeck:
		title, payload = b.slideDeck()
	default:
		kind = KindText
		title, payload = b.text()
	}

	out := GeneratedContent{
		ID:        c.newID(),
		Kind:      kind,
		Title:     title,
		Payload:   payload,
		CreatedAt: c.now().UTC(),
		Tone:      key.Tone,
		Style:     key.Style,
	}
	if b.p != nil {
		out.PodcastID = b.p.ID
	}
	return out
}

// pick returns one element of options chosen by the composer's source.
func (c *Composer) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rng.Intn(len(options))]
}

// build carries the per-call state shared by the kind builders.
type build struct {
	c      *Composer
	req    ContentRequest
	key    catalog.Key
	tone   string
	style  string
	p      *podcast.Podcast
	fields render.Fields
}

// subject is what a title is about: the podcast title or the generic topic.
func (b *build) subject() string {
	if b.p != nil {
		return b.fields.Title
	}
	return b.fields.Topic
}

// assetKey is the resolver key: the podcast title, or empty (resolved to the
// default key) without a podcast.
func (b *build) assetKey() string {
	if b.p != nil {
		return b.p.Title
	}
	return ""
}

func (b *build) titled(suffix string) string {
	t := b.c.cat.Opener(b.key.Tone) + " " + b.subject()
	if suffix != "" {
		t += " " + suffix
	}
	return strings.TrimSpace(t)
}

func (b *build) render(tmpl string) string {
	return render.Render(tmpl, b.fields)
}

// userImages returns the non-empty caller-supplied images, capped at max.
func (b *build) userImages(max int) []string {
	var out []string
	for _, img := range b.req.Images {
		if strings.TrimSpace(img) == "" {
			continue
		}
		out = append(out, img)
		if len(out) == max {
			break
		}
	}
	return out
}
