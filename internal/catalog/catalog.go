// Package catalog holds the template data the composer selects from: text
// templates per {tone, style} pair, hashtag and community tables, GIF themes
// and tone openers. The data is a YAML document embedded at build time and is
// versioned independently of the code reading it.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Key identifies one {tone, style} combination.
type Key struct {
	Tone  string
	Style string
}

func (k Key) String() string { return k.Tone + "/" + k.Style }

// TextEntry is the template set for one {tone, style} pair.
type TextEntry struct {
	Tone        string   `yaml:"tone"`
	Style       string   `yaml:"style"`
	Entity      []string `yaml:"entity"`
	Generic     []string `yaml:"generic"`
	Hashtags    []string `yaml:"hashtags"`
	Communities []string `yaml:"communities"`
}

// GIFTheme is one visual theme for animated content.
type GIFTheme struct {
	Category    string `yaml:"category"`
	Tone        string `yaml:"tone"`
	Style       string `yaml:"style"`
	Theme       string `yaml:"theme"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type document struct {
	Version int               `yaml:"version"`
	Tones   []string          `yaml:"tones"`
	Styles  []string          `yaml:"styles"`
	Openers map[string]string `yaml:"openers"`
	Text    []TextEntry       `yaml:"text"`
	GIF     struct {
		Fallback GIFTheme   `yaml:"fallback"`
		Themes   []GIFTheme `yaml:"themes"`
	} `yaml:"gif"`
}

type gifKey struct {
	category, tone, style string
}

// Catalog is an immutable, validated template catalog.
type Catalog struct {
	version     int
	tones       []string
	styles      []string
	openers     map[string]string
	text        map[Key]TextEntry
	gif         map[gifKey]GIFTheme
	gifFallback GIFTheme
}

// OtherCategory is the GIF theme bucket used when a category has no theme.
const OtherCategory = "other"

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

var knownPlaceholders = map[string]bool{
	"title":       true,
	"author":      true,
	"category":    true,
	"episode":     true,
	"description": true,
	"topic":       true,
}

// Default returns the embedded catalog. It panics if the embedded document is
// invalid; a unit test keeps that from shipping.
func Default() *Catalog {
	c, err := Load(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog.yaml: %v", err))
	}
	return c
}

// Load parses and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Tones) == 0 || len(doc.Styles) == 0 {
		return nil, fmt.Errorf("catalog must declare at least one tone and one style")
	}

	c := &Catalog{
		version:     doc.Version,
		tones:       doc.Tones,
		styles:      doc.Styles,
		openers:     doc.Openers,
		text:        make(map[Key]TextEntry, len(doc.Text)),
		gif:         make(map[gifKey]GIFTheme, len(doc.GIF.Themes)),
		gifFallback: doc.GIF.Fallback,
	}

	for i, e := range doc.Text {
		k := Key{Tone: e.Tone, Style: e.Style}
		if !contains(c.tones, e.Tone) || !contains(c.styles, e.Style) {
			return nil, fmt.Errorf("text entry %d: unknown pair %s", i, k)
		}
		if _, dup := c.text[k]; dup {
			return nil, fmt.Errorf("text entry %d: duplicate pair %s", i, k)
		}
		if len(e.Entity) == 0 || len(e.Generic) == 0 {
			return nil, fmt.Errorf("text entry %s: needs entity and generic templates", k)
		}
		if len(e.Hashtags) == 0 || len(e.Communities) == 0 {
			return nil, fmt.Errorf("text entry %s: needs hashtags and communities", k)
		}
		for _, tmpl := range append(append([]string(nil), e.Entity...), e.Generic...) {
			if err := checkPlaceholders(tmpl); err != nil {
				return nil, fmt.Errorf("text entry %s: %w", k, err)
			}
		}
		c.text[k] = e
	}

	def := Key{Tone: c.tones[0], Style: c.styles[0]}
	if _, ok := c.text[def]; !ok {
		return nil, fmt.Errorf("default pair %s has no templates", def)
	}

	if c.gifFallback.Theme == "" || c.gifFallback.Title == "" || c.gifFallback.Description == "" {
		return nil, fmt.Errorf("gif fallback theme is incomplete")
	}
	for i, th := range doc.GIF.Themes {
		if th.Category == "" || th.Tone == "" || th.Style == "" || th.Theme == "" {
			return nil, fmt.Errorf("gif theme %d: category, tone, style and theme are required", i)
		}
		if err := checkPlaceholders(th.Description); err != nil {
			return nil, fmt.Errorf("gif theme %d: %w", i, err)
		}
		c.gif[gifKey{th.Category, th.Tone, th.Style}] = th
	}
	return c, nil
}

func checkPlaceholders(tmpl string) error {
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !knownPlaceholders[m[1]] {
			return fmt.Errorf("unknown placeholder {%s} in %q", m[1], tmpl)
		}
	}
	return nil
}

// Version returns the catalog document version.
func (c *Catalog) Version() int { return c.version }

// Tones returns the supported tones; the first is the default.
func (c *Catalog) Tones() []string { return append([]string(nil), c.tones...) }

// Styles returns the supported styles; the first is the default.
func (c *Catalog) Styles() []string { return append([]string(nil), c.styles...) }

// HasTone reports whether tone is declared by the catalog.
func (c *Catalog) HasTone(tone string) bool { return contains(c.tones, tone) }

// HasStyle reports whether style is declared by the catalog.
func (c *Catalog) HasStyle(style string) bool { return contains(c.styles, style) }

// Resolve maps a requested pair to one that has templates. The order is:
// the exact pair, the requested tone with the default style, the default
// tone with the requested style, and finally the default pair.
func (c *Catalog) Resolve(tone, style string) Key {
	candidates := []Key{
		{Tone: tone, Style: style},
		{Tone: tone, Style: c.styles[0]},
		{Tone: c.tones[0], Style: style},
	}
	for _, k := range candidates {
		if _, ok := c.text[k]; ok {
			return k
		}
	}
	return Key{Tone: c.tones[0], Style: c.styles[0]}
}

// Entry returns the text entry for the resolved pair.
func (c *Catalog) Entry(tone, style string) TextEntry {
	return c.text[c.Resolve(tone, style)]
}

// Lookup returns the candidate templates for a pair. The result is never empty.
func (c *Catalog) Lookup(tone, style string, hasEntity bool) []string {
	e := c.Entry(tone, style)
	if hasEntity {
		return e.Entity
	}
	return e.Generic
}

// Hashtags returns the hashtag table of the resolved pair, without '#'.
func (c *Catalog) Hashtags(tone, style string) []string {
	return append([]string(nil), c.Entry(tone, style).Hashtags...)
}

// Communities returns the community names of the resolved pair.
func (c *Catalog) Communities(tone, style string) []string {
	return c.Entry(tone, style).Communities
}

// Opener returns the title opener for a tone, or the default tone's opener.
func (c *Catalog) Opener(tone string) string {
	if o, ok := c.openers[tone]; ok && o != "" {
		return o
	}
	if o, ok := c.openers[c.tones[0]]; ok && o != "" {
		return o
	}
	return "Highlights from"
}

// GIFTheme resolves a theme by category, then tone, then style. A miss in the
// requested category retries the "other" category; a miss there returns the
// catalog's fallback theme.
func (c *Catalog) GIFTheme(category, tone, style string) GIFTheme {
	if th, ok := c.gif[gifKey{category, tone, style}]; ok {
		return th
	}
	if th, ok := c.gif[gifKey{OtherCategory, tone, style}]; ok {
		return th
	}
	return c.gifFallback
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Normalize lowercases and trims an enum value supplied by a caller.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
