// Package query constructs the six query shapes muninn supports. Builders
// operate purely against the field catalogue: every field name and kind is
// validated when the query value is constructed, and nothing here ever
// touches the index or a searcher.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"
	lru "github.com/hashicorp/golang-lru/v2"

	muninnerrors "github.com/nyo16/muninn/errors"
	"github.com/nyo16/muninn/internal/schema"
)

// Shape identifies which of the six query shapes a Query carries.
type Shape string

const (
	ShapeTerm        Shape = "term"
	ShapeParsed      Shape = "parsed"
	ShapePrefix      Shape = "prefix"
	ShapeRange       Shape = "range"
	ShapeFuzzy       Shape = "fuzzy"
	ShapeFuzzyPrefix Shape = "fuzzy_prefix"
)

// MaxFuzzyDistance is the largest edit distance the engine's automaton
// supports.
const MaxFuzzyDistance = 2

// parseCacheSize bounds the LRU of parsed query strings.
const parseCacheSize = 256

// Query is one built query, immutable once returned by a builder.
type Query struct {
	shape Shape
	eq    query.Query
}

// Shape returns the query's shape.
func (q *Query) Shape() Shape {
	return q.shape
}

// Engine returns the underlying engine query.
func (q *Query) Engine() query.Query {
	return q.eq
}

// Builder constructs queries against one catalogue. Parsed query strings are
// cached in an LRU keyed by the string and its default-field scope, since
// hosts tend to re-issue the same query while paging.
type Builder struct {
	cat    *schema.Catalogue
	parsed *lru.Cache[string, query.Query]
}

// NewBuilder creates a builder bound to the catalogue.
func NewBuilder(cat *schema.Catalogue) *Builder {
	cache, _ := lru.New[string, query.Query](parseCacheSize)
	return &Builder{cat: cat, parsed: cache}
}

// Term builds an exact-match query over the unanalyzed term text.
// The field must exist and be of text kind.
func (b *Builder) Term(field, value string) (*Query, error) {
	if err := b.requireText(field); err != nil {
		return nil, err
	}
	tq := query.NewTermQuery(value)
	tq.SetField(field)
	return &Query{shape: ShapeTerm, eq: tq}, nil
}

// Parsed delegates to the engine's query-string grammar (field:value syntax,
// required/excluded terms, quoted phrases). Bare terms are scoped to the
// default fields, of which at least one is required. Parse failures surface
// at build time, carrying the original string and the engine diagnostic.
func (b *Builder) Parsed(queryString string, defaultFields []string) (*Query, error) {
	if len(defaultFields) == 0 {
		return nil, muninnerrors.Newf(muninnerrors.ErrCodeEmptyFieldList,
			"at least one default field is required for query %q", queryString)
	}
	for _, f := range defaultFields {
		if _, ok := b.cat.Field(f); !ok {
			return nil, fieldNotFound(f)
		}
	}

	key := queryString + "\x00" + strings.Join(defaultFields, "\x1f")
	if eq, ok := b.parsed.Get(key); ok {
		return &Query{shape: ShapeParsed, eq: eq}, nil
	}

	eq, err := query.NewQueryStringQuery(queryString).Parse()
	if err != nil {
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeQueryParse,
			fmt.Sprintf("parse query %q", queryString), err)
	}
	eq = scopeToFields(eq, defaultFields)
	b.parsed.Add(key, eq)
	return &Query{shape: ShapeParsed, eq: eq}, nil
}

// Prefix anchors a prefix match on a text field. The prefix is lower-cased
// and regex-escaped, then compiled as "prefix followed by zero or more
// alphanumerics". This rides the case normalization of the default
// tokenizer; it is an approximation of a term-dictionary prefix walk, not a
// replacement for one.
func (b *Builder) Prefix(field, prefix string) (*Query, error) {
	if err := b.requireText(field); err != nil {
		return nil, err
	}
	if prefix == "" {
		return nil, muninnerrors.Newf(muninnerrors.ErrCodeEmptyPrefix,
			"prefix for field %q must not be empty", field)
	}
	pattern := regexp.QuoteMeta(strings.ToLower(prefix)) + "[a-z0-9]*"
	rq := query.NewRegexpQuery(pattern)
	rq.SetField(field)
	return &Query{shape: ShapePrefix, eq: rq}, nil
}

// RangeU64 builds an interval query over an unsigned-integer field.
// The field kind must match exactly; there is no numeric coercion at query
// time.
func (b *Builder) RangeU64(field string, lower, upper uint64, lowerInc, upperInc bool) (*Query, error) {
	if err := b.requireKind(field, schema.KindUnsignedInt); err != nil {
		return nil, err
	}
	return b.numericRange(field, float64(lower), float64(upper), lowerInc, upperInc), nil
}

// RangeI64 builds an interval query over a signed-integer field.
func (b *Builder) RangeI64(field string, lower, upper int64, lowerInc, upperInc bool) (*Query, error) {
	if err := b.requireKind(field, schema.KindSignedInt); err != nil {
		return nil, err
	}
	return b.numericRange(field, float64(lower), float64(upper), lowerInc, upperInc), nil
}

// RangeF64 builds an interval query over a float field.
func (b *Builder) RangeF64(field string, lower, upper float64, lowerInc, upperInc bool) (*Query, error) {
	if err := b.requireKind(field, schema.KindFloat); err != nil {
		return nil, err
	}
	return b.numericRange(field, lower, upper, lowerInc, upperInc), nil
}

func (b *Builder) numericRange(field string, lower, upper float64, lowerInc, upperInc bool) *Query {
	nq := query.NewNumericRangeInclusiveQuery(&lower, &upper, &lowerInc, &upperInc)
	nq.SetField(field)
	return &Query{shape: ShapeRange, eq: nq}
}

// Fuzzy builds an edit-distance query over the term, lower-cased to match
// the analyzer's tokens. The engine's automaton counts a transposition as a
// single edit; transpositionCostOne is accepted for callers of the original
// interface but a false value cannot make the engine charge two edits.
func (b *Builder) Fuzzy(field, term string, distance uint8, transpositionCostOne bool) (*Query, error) {
	fq, err := b.fuzzyQuery(field, term, distance)
	if err != nil {
		return nil, err
	}
	return &Query{shape: ShapeFuzzy, eq: fq}, nil
}

// FuzzyPrefix anchors typo-tolerant matching to a prefix, for typeahead.
// Built as the disjunction of an exact prefix match and a fuzzy term match.
func (b *Builder) FuzzyPrefix(field, prefix string, distance uint8, transpositionCostOne bool) (*Query, error) {
	fq, err := b.fuzzyQuery(field, prefix, distance)
	if err != nil {
		return nil, err
	}
	pq := query.NewPrefixQuery(strings.ToLower(prefix))
	pq.SetField(field)
	dq := query.NewDisjunctionQuery([]query.Query{pq, fq})
	return &Query{shape: ShapeFuzzyPrefix, eq: dq}, nil
}

func (b *Builder) fuzzyQuery(field, term string, distance uint8) (*query.FuzzyQuery, error) {
	if err := b.requireText(field); err != nil {
		return nil, err
	}
	if distance > MaxFuzzyDistance {
		return nil, muninnerrors.Newf(muninnerrors.ErrCodeFuzzyDistance,
			"edit distance %d exceeds maximum %d", distance, MaxFuzzyDistance)
	}
	// The index holds the analyzer's lower-cased tokens; normalizing here
	// keeps a capital letter from costing an edit.
	fq := query.NewFuzzyQuery(strings.ToLower(term))
	fq.SetFuzziness(int(distance))
	fq.SetField(field)
	return fq, nil
}

func (b *Builder) requireText(field string) error {
	return b.requireKind(field, schema.KindText)
}

func (b *Builder) requireKind(field string, kind schema.FieldKind) error {
	def, ok := b.cat.Field(field)
	if !ok {
		return fieldNotFound(field)
	}
	if def.Kind != kind {
		return muninnerrors.Newf(muninnerrors.ErrCodeFieldKind,
			"field %q is %s, not %s", field, def.Kind, kind)
	}
	return nil
}

func fieldNotFound(field string) error {
	return muninnerrors.Newf(muninnerrors.ErrCodeFieldNotFound,
		"field %q not found in schema", field)
}
