package analysis

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed bundles.yaml
var defaultBundlesYAML []byte

// Bundle is the category-specific data a report is built from.
type Bundle struct {
	Category  string `yaml:"category"`
	Listeners struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"listeners"`
	Topics          []Topic          `yaml:"topics"`
	Insights        []string         `yaml:"insights"`
	Strengths       []string         `yaml:"strengths"`
	Improvements    []string         `yaml:"improvements"`
	Keywords        []string         `yaml:"keywords"`
	Segments        []segmentSpec    `yaml:"segments"`
	Recommendations []Recommendation `yaml:"recommendations"`
	Competitors     []competitorSpec `yaml:"competitors"`
}

type segmentSpec struct {
	Name        string `yaml:"name"`
	Weight      int    `yaml:"weight"`
	Description string `yaml:"description"`
}

type competitorSpec struct {
	Name     string `yaml:"name"`
	Strength string `yaml:"strength"`
}

// Bundles is a validated set of category bundles with a default.
type Bundles struct {
	def     string
	byName  map[string]*Bundle
	ordered []string
}

// DefaultBundles returns the embedded bundle set.
func DefaultBundles() *Bundles {
	b, err := LoadBundles(defaultBundlesYAML)
	if err != nil {
		panic(fmt.Sprintf("analysis: embedded bundles.yaml: %v", err))
	}
	return b
}

// LoadBundles parses and validates a bundle document.
func LoadBundles(data []byte) (*Bundles, error) {
	var doc struct {
		Default string   `yaml:"default"`
		Bundles []Bundle `yaml:"bundles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bundles: %w", err)
	}
	if len(doc.Bundles) == 0 {
		return nil, fmt.Errorf("bundles document is empty")
	}

	out := &Bundles{def: doc.Default, byName: make(map[string]*Bundle, len(doc.Bundles))}
	for i := range doc.Bundles {
		b := &doc.Bundles[i]
		if b.Category == "" {
			return nil, fmt.Errorf("bundle %d: missing category", i)
		}
		if _, dup := out.byName[b.Category]; dup {
			return nil, fmt.Errorf("bundle %q: duplicate category", b.Category)
		}
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("bundle %q: %w", b.Category, err)
		}
		out.byName[b.Category] = b
		out.ordered = append(out.ordered, b.Category)
	}
	if out.def == "" {
		out.def = out.ordered[0]
	}
	if _, ok := out.byName[out.def]; !ok {
		return nil, fmt.Errorf("default bundle %q is not defined", out.def)
	}
	return out, nil
}

func (b *Bundle) validate() error {
	switch {
	case b.Listeners.Min <= 0 || b.Listeners.Max < b.Listeners.Min:
		return fmt.Errorf("invalid listener range %d-%d", b.Listeners.Min, b.Listeners.Max)
	case len(b.Topics) == 0:
		return fmt.Errorf("needs topics")
	case len(b.Insights) == 0 || len(b.Strengths) == 0 || len(b.Improvements) == 0:
		return fmt.Errorf("needs insights, strengths and improvements")
	case len(b.Segments) == 0:
		return fmt.Errorf("needs audience segments")
	case len(b.Recommendations) == 0 || len(b.Competitors) == 0:
		return fmt.Errorf("needs recommendations and competitors")
	}
	for _, s := range b.Segments {
		if s.Weight <= 0 {
			return fmt.Errorf("segment %q: weight must be positive", s.Name)
		}
	}
	return nil
}

// Lookup returns the bundle for category, or the default bundle.
func (bs *Bundles) Lookup(category string) *Bundle {
	if b, ok := bs.byName[category]; ok {
		return b
	}
	return bs.byName[bs.def]
}

// Default is the name of the fallback bundle.
func (bs *Bundles) Default() string { return bs.def }

// Categories lists the categories that have a dedicated bundle, in file order.
func (bs *Bundles) Categories() []string {
	return append([]string(nil), bs.ordered...)
}
