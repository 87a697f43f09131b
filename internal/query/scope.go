package query

import (
	"github.com/blevesearch/bleve/v2/search/query"
)

// scopeToFields rewrites the parsed query tree so that every bare
// (unfielded) leaf searches the default fields instead of the engine's
// global default. Explicitly fielded leaves are left alone.
func scopeToFields(q query.Query, fields []string) query.Query {
	switch t := q.(type) {
	case *query.BooleanQuery:
		if t.Must != nil {
			t.Must = scopeToFields(t.Must, fields)
		}
		if t.Should != nil {
			t.Should = scopeToFields(t.Should, fields)
		}
		if t.MustNot != nil {
			t.MustNot = scopeToFields(t.MustNot, fields)
		}
		return t
	case *query.ConjunctionQuery:
		for i := range t.Conjuncts {
			t.Conjuncts[i] = scopeToFields(t.Conjuncts[i], fields)
		}
		return t
	case *query.DisjunctionQuery:
		for i := range t.Disjuncts {
			t.Disjuncts[i] = scopeToFields(t.Disjuncts[i], fields)
		}
		return t
	}

	fq, ok := q.(query.FieldableQuery)
	if !ok || fq.Field() != "" {
		return q
	}
	if len(fields) == 1 {
		fq.SetField(fields[0])
		return q
	}

	disjuncts := make([]query.Query, 0, len(fields))
	for _, f := range fields {
		c := cloneFieldable(fq)
		c.SetField(f)
		disjuncts = append(disjuncts, c)
	}
	return query.NewDisjunctionQuery(disjuncts)
}

// cloneFieldable shallow-copies the leaf shapes the query-string parser can
// emit, so one bare term can fan out across several default fields without
// the copies sharing state.
func cloneFieldable(q query.FieldableQuery) query.FieldableQuery {
	switch t := q.(type) {
	case *query.MatchQuery:
		c := *t
		return &c
	case *query.MatchPhraseQuery:
		c := *t
		return &c
	case *query.TermQuery:
		c := *t
		return &c
	case *query.PrefixQuery:
		c := *t
		return &c
	case *query.RegexpQuery:
		c := *t
		return &c
	case *query.WildcardQuery:
		c := *t
		return &c
	case *query.FuzzyQuery:
		c := *t
		return &c
	case *query.NumericRangeQuery:
		c := *t
		return &c
	case *query.TermRangeQuery:
		c := *t
		return &c
	default:
		// Unknown leaf shape: leave it on the engine's default field.
		return q
	}
}
