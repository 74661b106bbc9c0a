package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/compose"
)

// Memory is an in-process Store. It is the default for the CLI and for tests.
type Memory struct {
	mu       sync.RWMutex
	contents []compose.GeneratedContent // oldest first
	byID     map[string]int
	reports  map[string]analysis.Report // latest per podcast
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]int),
		reports: make(map[string]analysis.Report),
	}
}

func (m *Memory) SaveContent(_ context.Context, c compose.GeneratedContent) error {
	if c.ID == "" {
		return fmt.Errorf("save content: missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[c.ID]; dup {
		return fmt.Errorf("save content %s: already exists", c.ID)
	}
	m.byID[c.ID] = len(m.contents)
	m.contents = append(m.contents, c)
	return nil
}

func (m *Memory) GetContent(_ context.Context, id string) (*compose.GeneratedContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	c := m.contents[i]
	return &c, nil
}

// ListContent pages newest first. The cursor is the ID of the last record of
// the previous page.
func (m *Memory) ListContent(_ context.Context, limit int, cursor string) ([]compose.GeneratedContent, string, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := len(m.contents) - 1
	if cursor != "" {
		i, ok := m.byID[cursor]
		if !ok {
			return nil, "", fmt.Errorf("invalid cursor %q", cursor)
		}
		start = i - 1
	}

	var out []compose.GeneratedContent
	for i := start; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.contents[i])
	}
	var next string
	if n := len(out); n > 0 && m.byID[out[n-1].ID] > 0 {
		next = out[n-1].ID
	}
	return out, next, nil
}

func (m *Memory) SaveReport(_ context.Context, r analysis.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.reports[r.PodcastID]; ok && prev.CreatedAt.After(r.CreatedAt) {
		return nil
	}
	m.reports[r.PodcastID] = r
	return nil
}

func (m *Memory) LatestReport(_ context.Context, podcastID string) (*analysis.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[podcastID]
	if !ok {
		return nil, fmt.Errorf("report for %s: %w", podcastID, ErrNotFound)
	}
	return &r, nil
}
