// Package muninn is an embedded full-text search index for loosely-typed
// documents. It sits between a dynamically-typed caller and the
// schema-driven bleve engine: field catalogues are built from runtime
// specifications, documents are marshalled field by field into the
// catalogue's typed representation, and six structured query shapes (term,
// parsed, prefix, numeric range, fuzzy, fuzzy-prefix) execute against
// read-only searchers that project results, and optionally highlighted
// snippets, back into plain maps.
//
// Typical flow:
//
//	idx, err := muninn.Create("/tmp/posts", []muninn.FieldSpec{
//		{Name: "title", Kind: muninn.KindText, Stored: true, Indexed: true},
//		{Name: "views", Kind: muninn.KindUnsignedInt, Stored: true, Indexed: true},
//	}, muninn.Options{})
//	...
//	_ = idx.Add(muninn.Document{"title": "Hello World", "views": 42})
//	_ = idx.Commit()
//
//	reader, _ := idx.NewReader(muninn.ReaderOptions{})
//	searcher := muninn.NewSearcher(reader)
//	qb := muninn.NewQueryBuilder(idx.Catalogue())
//	q, _ := qb.Term("title", "hello")
//	res, _ := searcher.Search(ctx, q, 10)
package muninn

import (
	"github.com/nyo16/muninn/internal/document"
	"github.com/nyo16/muninn/internal/index"
	"github.com/nyo16/muninn/internal/query"
	"github.com/nyo16/muninn/internal/schema"
	"github.com/nyo16/muninn/internal/search"
)

// Field catalogue types.
type (
	// FieldKind is one of the five supported primitive kinds.
	FieldKind = schema.FieldKind
	// FieldSpec describes one field of an index schema.
	FieldSpec = schema.FieldSpec
	// Catalogue is the immutable, name-keyed map of field definitions.
	Catalogue = schema.Catalogue
)

// The five supported field kinds.
const (
	KindText        = schema.KindText
	KindUnsignedInt = schema.KindUnsignedInt
	KindSignedInt   = schema.KindSignedInt
	KindFloat       = schema.KindFloat
	KindBoolean     = schema.KindBoolean
)

// ParseKind converts a kind string ("text", "u64", "i64", "f64", "bool") to
// a FieldKind.
func ParseKind(s string) (FieldKind, error) {
	return schema.ParseKind(s)
}

// BuildCatalogue validates the ordered field specifications and returns the
// typed catalogue.
func BuildCatalogue(specs []FieldSpec) (*Catalogue, error) {
	return schema.Build(specs)
}

// Index lifecycle.
type (
	// Index owns an opened index and its single lazily-created writer.
	Index = index.Handle
	// Options configures index creation and opening.
	Options = index.Options
	// Reader is a read-only view over an opened index.
	Reader = index.Reader
	// ReaderOptions configures snapshot readers.
	ReaderOptions = index.ReaderOptions
)

// Create builds the catalogue and creates a new index at path, creating
// parent directories as needed.
func Create(path string, specs []FieldSpec, opts Options) (*Index, error) {
	return index.Create(path, specs, opts)
}

// Open opens an existing index at path, restoring its catalogue.
func Open(path string, opts Options) (*Index, error) {
	return index.Open(path, opts)
}

// Document is the loosely-typed field-name to value mapping callers supply.
type Document = document.Pending

// IDField is the reserved document key that picks the engine document ID.
const IDField = document.IDField

// Querying.
type (
	// Query is one built query, immutable once constructed.
	Query = query.Query
	// QueryBuilder validates and constructs the six query shapes against
	// a catalogue.
	QueryBuilder = query.Builder
)

// NewQueryBuilder creates a query builder bound to the catalogue.
func NewQueryBuilder(cat *Catalogue) *QueryBuilder {
	return query.NewBuilder(cat)
}

// Search results.
type (
	// Searcher executes queries against a reader snapshot.
	Searcher = search.Searcher
	// Result is the outcome of one search call.
	Result = search.Result
	// Hit is one ranked search result.
	Hit = search.Hit
)

// NewSearcher creates a searcher from a reader.
func NewSearcher(r *Reader) *Searcher {
	return search.New(r)
}
