package compose

import (
	"fmt"
	"strings"

	"github.com/apresai/podstudio/internal/assets"
	"github.com/apresai/podstudio/internal/podcast"
)

var entityCaptions = []string{
	"Slide 1 - Meet {title}, hosted by {author}",
	"Slide 2 - Why {category} matters right now",
	"Slide 3 - Inside '{episode}'",
	"Slide 4 - Key takeaways from {title}",
	"Slide 5 - Listen to {title} today",
}

const (
	defaultVideoDuration = "3:00"
	genericVideoDuration = "2:30"
	gifDuration          = "3s"
)

const entityVideoScript = `INTRO: {opener} {title}. Today {author} takes us through '{episode}'.

DEVELOPMENT: {description} This is the part of the {category} conversation everyone is talking about, and {author} explains why it matters.

CLOSING: Follow {title} for more, and tell us in the comments what you would ask {author} next.`

const genericVideoScript = `INTRO: {opener} {topic}. Here is what you need to know in under three minutes.

DEVELOPMENT: We break {topic} into three simple ideas, show a real example and point out the most common mistake.

CLOSING: Save this video, share it with a friend and follow for more on {topic}.`

func (b *build) imageSet() (string, Payload) {
	images := b.userImages(MaxImages)
	if len(images) == 0 {
		var refs []assets.Ref
		if b.p != nil {
			for i := 0; i < MaxImages; i++ {
				refs = append(refs, assets.Image(b.p.Title, i, assets.Square))
			}
		} else {
			topic := b.req.Topic
			if topic == "" {
				topic = string(b.req.Category)
			}
			if topic == "" {
				topic = "podcast"
			}
			refs = assets.TopicImages(topic, MaxImages, assets.Square)
		}
		for _, r := range refs {
			images = append(images, r.URL)
		}
	}

	captions := make([]string, len(images))
	for i := range images {
		if b.p != nil && i < len(entityCaptions) {
			captions[i] = b.render(entityCaptions[i])
			continue
		}
		captions[i] = fmt.Sprintf("Slide %d - %s", i+1, b.subject())
	}

	return b.titled("carousel"), &ImageSetPayload{Images: images, Captions: captions}
}

func (b *build) video() (string, Payload) {
	var thumb string
	if imgs := b.userImages(1); len(imgs) > 0 {
		thumb = imgs[0]
	} else {
		thumb = assets.Image(b.assetKey(), 0, assets.Landscape).URL
	}

	opener := b.c.cat.Opener(b.key.Tone)
	v := &VideoPayload{
		ThumbnailURL: thumb,
		MediaURL:     assets.Video(b.assetKey(), 0).URL,
	}
	if b.p != nil {
		v.Description = b.render("{title} by {author}: a short video on '{episode}'. {description}")
		v.Duration = defaultVideoDuration
		if ep := b.p.FirstEpisode(); ep != nil && ep.Duration != "" {
			v.Duration = ep.Duration
		}
		v.Script = b.render(withOpener(entityVideoScript, opener))
	} else {
		v.Description = b.render("A short explainer video about {topic}.")
		v.Duration = genericVideoDuration
		v.Script = b.render(withOpener(genericVideoScript, opener))
	}
	return b.titled("video"), v
}

func (b *build) gif() (string, Payload) {
	category := string(categoryOf(b.p))
	// The requested pair drives the theme chain so that unknown pairs reach
	// the catalog's fallback theme.
	tone, style := b.tone, b.style
	if tone == "" {
		tone = b.key.Tone
	}
	if style == "" {
		style = b.key.Style
	}
	theme := b.c.cat.GIFTheme(category, tone, style)

	seedKey := theme.Theme + " " + b.assetKey()
	g := &GIFPayload{
		MediaURL:     assets.GIF(seedKey, 0).URL,
		ThumbnailURL: assets.Image(seedKey, 0, assets.GIFSquare).URL,
		Title:        b.render(theme.Title),
		Description:  b.render(theme.Description),
		Duration:     gifDuration,
		Dimensions:   assets.GIFSquare.String(),
		Loop:         true,
	}
	return g.Title, g
}

func withOpener(tmpl, opener string) string {
	return strings.ReplaceAll(tmpl, "{opener}", opener)
}

// categoryOf returns the podcast category or "other".
func categoryOf(p *podcast.Podcast) podcast.Category {
	if p == nil || p.Category == "" {
		return podcast.CategoryOther
	}
	return p.Category
}
