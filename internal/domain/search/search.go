// Package search performs on-demand linear substring search across blueprint
// category names, design documents and feature catalogs. There is no index:
// every query reads the sources again.
package search

import (
	"context"
	"strings"
)

// Result types.
const (
	TypeCategory  = "category"
	TypeBlueprint = "blueprint"
	TypeFeature   = "feature"
)

// DefaultMaxResults caps the result list when no limit is configured.
const DefaultMaxResults = 100

// Result is one search hit.
type Result struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Match    string `json:"match"`
}

// Source is the content a Searcher scans. blueprint.Store satisfies it.
type Source interface {
	Categories(ctx context.Context) ([]string, error)
	Design(id string) string
	CatalogSource(id string) string
}

// Searcher matches queries against a Source.
type Searcher struct {
	source     Source
	maxResults int
}

// NewSearcher creates a searcher returning at most maxResults hits
func NewSearcher(source Source, maxResults int) *Searcher {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Searcher{source: source, maxResults: maxResults}
}

// Search returns hits for query in category order. Matching is
// case-insensitive. Each category contributes at most one hit per type: its
// id, the first matching design line, and the first matching catalog line.
// A blank query yields an empty list.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	results := []Result{}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return results, nil
	}

	ids, err := s.source.Categories(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if strings.Contains(strings.ToLower(id), needle) {
			results = append(results, Result{Category: id, Type: TypeCategory, Match: id})
		}
		if line, ok := firstMatch(s.source.Design(id), needle); ok {
			results = append(results, Result{Category: id, Type: TypeBlueprint, Match: line})
		}
		if line, ok := firstMatch(s.source.CatalogSource(id), needle); ok {
			results = append(results, Result{Category: id, Type: TypeFeature, Match: line})
		}

		if len(results) >= s.maxResults {
			return results[:s.maxResults], nil
		}
	}

	return results, nil
}

// firstMatch returns the first line of text containing needle, trimmed.
func firstMatch(text, needle string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}
