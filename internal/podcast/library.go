package podcast

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed library.json
var libraryJSON []byte

// Library is the read-only set of sample podcasts the dashboard ships with.
type Library struct {
	byID  map[string]*Podcast
	order []string
}

// DefaultLibrary parses the embedded sample podcasts.
func DefaultLibrary() (*Library, error) {
	return ParseLibrary(libraryJSON)
}

// ParseLibrary builds a library from a JSON array of podcasts.
func ParseLibrary(data []byte) (*Library, error) {
	var items []Podcast
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse podcast library: %w", err)
	}
	lib := &Library{byID: make(map[string]*Podcast, len(items))}
	for i := range items {
		p := items[i]
		if p.ID == "" {
			return nil, fmt.Errorf("podcast %d (%q) has no id", i, p.Title)
		}
		if _, dup := lib.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate podcast id %q", p.ID)
		}
		if p.Category == "" {
			p.Category = CategoryOther
		}
		c, ok := ParseCategory(string(p.Category))
		if !ok {
			return nil, fmt.Errorf("podcast %q has unknown category %q", p.ID, p.Category)
		}
		p.Category = c
		lib.byID[p.ID] = &p
		lib.order = append(lib.order, p.ID)
	}
	return lib, nil
}

// Get returns the podcast with the given id.
func (l *Library) Get(id string) (*Podcast, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// List returns all podcasts in file order.
func (l *Library) List() []*Podcast {
	out := make([]*Podcast, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// IDs returns the sorted podcast ids.
func (l *Library) IDs() []string {
	ids := append([]string(nil), l.order...)
	sort.Strings(ids)
	return ids
}
