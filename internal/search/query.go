package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search.
type Params struct {
	Query     string  // Free text over title, author and category
	Category  string  // Exact category name filter
	Fiction   *bool   // Fiction filter, nil for both
	MinRating float64 // Inclusive lower bound, 0 for none

	Limit  int
	Offset int
}

// DefaultParams returns the defaults used by the API.
func DefaultParams() Params {
	return Params{Limit: 20}
}

// Result is a page of hits.
type Result struct {
	Query      string       `json:"query"`
	Total      uint64       `json:"total"`
	TookMs     int64        `json:"took_ms"`
	Hits       []Hit        `json:"hits"`
	Categories []FacetCount `json:"categories,omitempty"`
}

// Hit is one matching book.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author"`
	Category   string            `json:"category"`
	Rating     float64           `json:"rating"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a category and how many hits it holds.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search runs params against the index, best matches first.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", "title"})
	req.AddFacet("category", bleve.NewFacetRequest("category_exact", 20))
	req.Fields = []string{"title", "author", "category", "rating"}
	if params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("author")
	}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["author"].(string); ok {
			hit.Author = v
		}
		if v, ok := h.Fields["category"].(string); ok {
			hit.Category = v
		}
		if v, ok := h.Fields["rating"].(float64); ok {
			hit.Rating = v
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	if facet, ok := res.Facets["category"]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			result.Categories = append(result.Categories, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return result, nil
}

// buildQuery combines the text query and the filters with AND.
func (s *Index) buildQuery(params Params) query.Query {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(text)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)

		categoryMatch := bleve.NewMatchQuery(text)
		categoryMatch.SetField("category")

		textQueries := []query.Query{titleMatch, authorMatch, categoryMatch}

		// Prefix on the last word for type-ahead.
		words := strings.Fields(text)
		if last := s.foldTerm(words[len(words)-1]); len([]rune(last)) >= 2 {
			for _, field := range []string{"title", "author"} {
				prefix := bleve.NewPrefixQuery(last)
				prefix.SetField(field)
				prefix.SetBoost(0.5)
				textQueries = append(textQueries, prefix)
			}
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Category != "" {
		tq := bleve.NewTermQuery(params.Category)
		tq.SetField("category_exact")
		queries = append(queries, tq)
	}

	if params.Fiction != nil {
		bq := bleve.NewBoolFieldQuery(*params.Fiction)
		bq.SetField("fiction")
		queries = append(queries, bq)
	}

	if params.MinRating > 0 {
		minRating := params.MinRating
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(&minRating, nil, &inclusive, nil)
		rq.SetField("rating")
		queries = append(queries, rq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// foldTerm runs word through the folded analyzer so a prefix compares with
// indexed terms: "Gárc" becomes "garc". A word the tokenizer splits yields
// its last token.
func (s *Index) foldTerm(word string) string {
	analyzer := s.mapping.AnalyzerNamed(foldedAnalyzer)
	if analyzer == nil {
		return strings.ToLower(word)
	}
	tokens := analyzer.Analyze([]byte(word))
	if len(tokens) == 0 {
		return ""
	}
	return string(tokens[len(tokens)-1].Term)
}
