// Package source implements the per-site content adapters. Each
// adapter turns unreliable, semi-structured markup into normalized
// ContentItems, failing soft: fetch or parse problems yield an empty
// result, and a malformed entry never aborts the rest of a page.
package source

import (
	"context"

	"github.com/sells-group/trendscout/internal/model"
)

// maxItemsPerPage bounds the number of items a single scrape returns.
const maxItemsPerPage = 20

// Fetcher is the HTTP helper adapters use to retrieve pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string, extraHeaders map[string]string) (string, bool)
}

// Source scrapes one provider. An empty url means keyword-search mode:
// the adapter synthesizes its own search URL from keywords and the
// timeWindow hint. Scrape never fails the caller; no items is an empty
// slice.
type Source interface {
	Name() model.SourceType
	Scrape(ctx context.Context, url string, keywords []string, timeWindow string) []model.ContentItem
}

// Registry dispatches scrape tasks to adapters by source tag.
type Registry struct {
	sources map[model.SourceType]Source
	generic Source
}

// NewRegistry builds a registry from the given adapters. The generic
// adapter doubles as the fallback for unknown tags.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{sources: make(map[model.SourceType]Source, len(sources))}
	for _, s := range sources {
		r.sources[s.Name()] = s
		if s.Name() == model.SourceGeneric {
			r.generic = s
		}
	}
	return r
}

// Lookup returns the adapter for the tag, falling back to generic.
func (r *Registry) Lookup(t model.SourceType) Source {
	if s, ok := r.sources[t]; ok {
		return s
	}
	return r.generic
}

// NewDefaultRegistry wires the three production adapters over f.
func NewDefaultRegistry(f Fetcher) *Registry {
	return NewRegistry(NewYouTube(f), NewReddit(f), NewGeneric(f))
}
