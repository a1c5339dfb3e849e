package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/char/asciifolding"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

// foldedAnalyzer lowercases and strips diacritics, so "garcia" finds
// "García". Catalog data is Spanish; no stemming or stop words.
const foldedAnalyzer = "folded"

// buildIndexMapping creates the Bleve mapping for book documents.
//
// Title and author are full text with term vectors for highlighting.
// Category is indexed twice: folded text for the query and a keyword
// field ("category_exact") for filtering and faceting.
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(foldedAnalyzer, map[string]any{
		"type":          custom.Name,
		"char_filters":  []string{asciifolding.Name},
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}
	indexMapping.DefaultAnalyzer = foldedAnalyzer

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = foldedAnalyzer
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = foldedAnalyzer
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = foldedAnalyzer
	categoryFieldMapping.Store = true
	categoryExactMapping := bleve.NewTextFieldMapping()
	categoryExactMapping.Name = "category_exact"
	categoryExactMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping, categoryExactMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	fictionFieldMapping := bleve.NewBooleanFieldMapping()
	fictionFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("fiction", fictionFieldMapping)

	coverFieldMapping := bleve.NewBooleanFieldMapping()
	docMapping.AddFieldMappingsAt("has_cover", coverFieldMapping)

	ratingFieldMapping := bleve.NewNumericFieldMapping()
	ratingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("rating", ratingFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping, nil
}
