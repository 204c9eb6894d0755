package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// analyzerName maps a configured analyzer choice to the Bleve analyzer.
// "en" stems and strips stop words, "standard" tokenizes without
// stemming, and "keyword" matches whole values only.
func analyzerName(analyzer string) (string, error) {
	switch analyzer {
	case "", "en":
		return en.AnalyzerName, nil
	case "standard":
		return standard.Name, nil
	case "keyword":
		return keyword.Name, nil
	default:
		return "", fmt.Errorf("unknown analyzer %q", analyzer)
	}
}

// buildIndexMapping creates the Bleve index mapping for resource documents.
//
// Title and description use the configured text analyzer. Tags always use
// the keyword analyzer so compound slugs like "slow-burn" stay intact.
func buildIndexMapping(analyzer string) (mapping.IndexMapping, error) {
	textAnalyzer, err := analyzerName(analyzer)
	if err != nil {
		return nil, err
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = textAnalyzer

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target, stored for debugging.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = textAnalyzer
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Description - searchable but not stored (can be large).
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = textAnalyzer
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Tags - exact match on whole slugs.
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// ID - stored but not analyzed.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Timestamps for sorting by recency.
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping, nil
}
