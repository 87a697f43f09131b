// Package search executes built queries through a read-only searcher and
// projects result documents, including highlighted snippets, back into the
// caller's loosely-typed representation.
package search

import (
	"context"

	"github.com/blevesearch/bleve/v2"

	muninnerrors "github.com/nyo16/muninn/errors"
	"github.com/nyo16/muninn/internal/index"
	"github.com/nyo16/muninn/internal/query"
	"github.com/nyo16/muninn/internal/schema"
)

// Hit is one ranked search result.
type Hit struct {
	// ID is the engine document ID.
	ID string
	// Score is the engine's relevance score.
	Score float32
	// Document maps stored catalogue fields to their first value. Fields
	// with no stored value are absent, not null-filled.
	Document map[string]any
	// Snippets maps snippet fields to a highlighted fragment. Nil unless
	// snippets were requested.
	Snippets map[string]string
}

// Result is the outcome of one search call.
type Result struct {
	// TotalHits counts the hits actually returned, bounded by the limit
	// the caller passed. Callers needing the unbounded match count must
	// page or re-query.
	TotalHits int
	// Hits are ordered by descending relevance score.
	Hits []Hit
}

// Searcher executes queries against a reader snapshot. Safe for concurrent
// read-only use by multiple callers; no lock is held during execution.
type Searcher struct {
	r   *index.Reader
	cat *schema.Catalogue
}

// New creates a searcher from a reader.
func New(r *index.Reader) *Searcher {
	return &Searcher{r: r, cat: r.Handle().Catalogue()}
}

// Catalogue returns the catalogue the searcher projects against.
func (s *Searcher) Catalogue() *schema.Catalogue {
	return s.cat
}

// Search runs the query bounded by limit and projects the ranked hits.
func (s *Searcher) Search(ctx context.Context, q *query.Query, limit int) (*Result, error) {
	req := bleve.NewSearchRequestOptions(q.Engine(), limit, 0, false)
	req.Fields = []string{"*"}
	return s.execute(ctx, req, nil)
}

// SearchWithSnippets additionally generates one highlighted fragment per
// requested snippet field, scoped to the query and capped to maxSnippetChars
// (excluding markup). Snippet fields must resolve in the catalogue; fields
// that resolve but are not text are silently excluded from the snippet set.
func (s *Searcher) SearchWithSnippets(ctx context.Context, q *query.Query, limit int, snippetFields []string, maxSnippetChars int) (*Result, error) {
	textFields := make([]string, 0, len(snippetFields))
	for _, f := range snippetFields {
		def, ok := s.cat.Field(f)
		if !ok {
			return nil, muninnerrors.Newf(muninnerrors.ErrCodeFieldNotFound,
				"snippet field %q not found in schema", f)
		}
		if def.Kind != schema.KindText {
			continue
		}
		textFields = append(textFields, f)
	}

	req := bleve.NewSearchRequestOptions(q.Engine(), limit, 0, false)
	req.Fields = []string{"*"}
	if len(textFields) > 0 {
		req.Highlight = bleve.NewHighlightWithStyle(highlighterFor(maxSnippetChars))
		for _, f := range textFields {
			req.Highlight.AddField(f)
		}
	}
	return s.execute(ctx, req, textFields)
}

func (s *Searcher) execute(ctx context.Context, req *bleve.SearchRequest, snippetFields []string) (*Result, error) {
	res, err := s.r.Handle().Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, match := range res.Hits {
		hit := Hit{
			ID:       match.ID,
			Score:    float32(match.Score),
			Document: projectDocument(s.cat, match.Fields),
		}
		if len(snippetFields) > 0 {
			hit.Snippets = make(map[string]string, len(snippetFields))
			for _, f := range snippetFields {
				if frags := match.Fragments[f]; len(frags) > 0 {
					hit.Snippets[f] = frags[0]
				}
			}
		}
		hits = append(hits, hit)
	}

	return &Result{TotalHits: len(hits), Hits: hits}, nil
}
