package compose

import "github.com/apresai/podstudio/internal/render"

func (b *build) text() (string, Payload) {
	templates := b.c.cat.Lookup(b.key.Tone, b.key.Style, b.p != nil)
	content := b.render(b.c.pick(templates))

	return b.titled("post"), &TextPayload{
		Content:   content,
		Hashtags:  render.Hashtags(b.c.cat, b.key.Tone, b.key.Style, b.p),
		Community: b.c.pick(b.c.cat.Communities(b.key.Tone, b.key.Style)),
	}
}
