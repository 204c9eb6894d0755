package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query

	// Pagination
	Limit  int
	Offset int
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single matching resource, ordered by relevance.
type SearchHit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Search executes a search query and returns matching resource IDs
// ordered by descending relevance.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params.Query)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.SortBy([]string{"-_score"})

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		result.Hits = append(result.Hits, SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		})
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query for a user query string.
//
// Each searchable field gets a match query, with title boosted above
// description and tags. A fuzzy query on title tolerates single typos,
// and a prefix query supports search-as-you-type. Everything is combined
// with OR so a hit in any field qualifies.
func buildSearchQuery(q string) query.Query {
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	var textQueries []query.Query

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	textQueries = append(textQueries, titleMatch)

	descMatch := bleve.NewMatchQuery(q)
	descMatch.SetField("description")
	descMatch.SetBoost(1.5)
	textQueries = append(textQueries, descMatch)

	tagsMatch := bleve.NewMatchQuery(q)
	tagsMatch.SetField("tags")
	tagsMatch.SetBoost(2.0)
	textQueries = append(textQueries, tagsMatch)

	fuzzyQuery := bleve.NewFuzzyQuery(q)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)
	textQueries = append(textQueries, fuzzyQuery)

	// Prefix query for autocomplete (minimum 2 chars).
	if len(q) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(0.5)
		textQueries = append(textQueries, prefixQuery)
	}

	return bleve.NewDisjunctionQuery(textQueries...)
}
