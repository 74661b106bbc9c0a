// Package store persists generated content and analysis reports. The studio
// keeps its own bounded in-process history; a Store is the durable copy
// behind it.
package store

import (
	"context"
	"errors"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/compose"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit is used when a list call passes a non-positive limit.
const DefaultListLimit = 20

// Store is the persistence contract shared by the memory and DynamoDB
// implementations. List results are newest first; cursor is opaque and empty
// when there are no more pages.
type Store interface {
	SaveContent(ctx context.Context, c compose.GeneratedContent) error
	GetContent(ctx context.Context, id string) (*compose.GeneratedContent, error)
	ListContent(ctx context.Context, limit int, cursor string) ([]compose.GeneratedContent, string, error)
	SaveReport(ctx context.Context, r analysis.Report) error
	LatestReport(ctx context.Context, podcastID string) (*analysis.Report, error)
}
