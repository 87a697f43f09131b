// Package schema builds the typed field catalogue that every other muninn
// component uses to interpret field names. A catalogue is built once, at
// schema-build or index-creation time, and is read-only afterwards.
package schema

import (
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	muninnerrors "github.com/nyo16/muninn/errors"
)

// FieldKind is one of the five primitive kinds the engine supports.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindUnsignedInt FieldKind = "u64"
	KindSignedInt   FieldKind = "i64"
	KindFloat       FieldKind = "f64"
	KindBoolean     FieldKind = "bool"
)

// ParseKind converts a kind string to a FieldKind.
// Anything outside the five supported kinds is an error carrying the
// offending string.
func ParseKind(s string) (FieldKind, error) {
	switch FieldKind(s) {
	case KindText, KindUnsignedInt, KindSignedInt, KindFloat, KindBoolean:
		return FieldKind(s), nil
	default:
		return "", muninnerrors.Newf(muninnerrors.ErrCodeInvalidFieldKind,
			"unsupported field kind %q", s)
	}
}

// IsNumeric reports whether the kind is stored as a number by the engine.
// Boolean counts: the engine represents it as a numeric-like field.
func (k FieldKind) IsNumeric() bool {
	switch k {
	case KindUnsignedInt, KindSignedInt, KindFloat:
		return true
	default:
		return false
	}
}

// FieldSpec describes one field of an index schema.
type FieldSpec struct {
	Name    string    `yaml:"name"`
	Kind    FieldKind `yaml:"kind"`
	Stored  bool      `yaml:"stored"`
	Indexed bool      `yaml:"indexed"`
}

// FieldDef is a resolved catalogue entry.
type FieldDef struct {
	Name    string
	Kind    FieldKind
	Stored  bool
	Indexed bool
}

// Catalogue is the ordered, immutable mapping from field name to definition,
// together with the engine mapping derived from it. Registration order
// determines document projection order and nothing else.
type Catalogue struct {
	fields []FieldDef
	byName map[string]int
	m      *mapping.IndexMappingImpl
}

// Build validates the ordered field specifications and returns the catalogue.
// Duplicate names and unknown kinds fail; no partial catalogue is returned.
func Build(specs []FieldSpec) (*Catalogue, error) {
	cat := &Catalogue{
		fields: make([]FieldDef, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if _, err := ParseKind(string(spec.Kind)); err != nil {
			return nil, err
		}
		if _, dup := cat.byName[spec.Name]; dup {
			return nil, muninnerrors.Newf(muninnerrors.ErrCodeDuplicateField,
				"duplicate field name %q", spec.Name)
		}
		cat.byName[spec.Name] = len(cat.fields)
		cat.fields = append(cat.fields, FieldDef(spec))
	}

	cat.m = buildIndexMapping(cat.fields)
	return cat, nil
}

// Field resolves a field name against the catalogue.
func (c *Catalogue) Field(name string) (FieldDef, bool) {
	i, ok := c.byName[name]
	if !ok {
		return FieldDef{}, false
	}
	return c.fields[i], true
}

// Fields returns the definitions in registration order.
// Callers must not mutate the returned slice.
func (c *Catalogue) Fields() []FieldDef {
	return c.fields
}

// Len returns the number of fields in the catalogue.
func (c *Catalogue) Len() int {
	return len(c.fields)
}

// Specs returns a copy of the field specifications, suitable for
// persistence.
func (c *Catalogue) Specs() []FieldSpec {
	specs := make([]FieldSpec, len(c.fields))
	for i, f := range c.fields {
		specs[i] = FieldSpec(f)
	}
	return specs
}

// IndexMapping returns the engine mapping derived from the catalogue.
func (c *Catalogue) IndexMapping() *mapping.IndexMappingImpl {
	return c.m
}

// buildIndexMapping translates the catalogue into a bleve index mapping.
// Dynamic mapping is disabled: only catalogue fields are indexed or stored,
// so a stray key in a document can never leak into the engine.
func buildIndexMapping(fields []FieldDef) *mapping.IndexMappingImpl {
	im := mapping.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name
	im.DefaultMapping.Dynamic = false
	im.StoreDynamic = false
	im.IndexDynamic = false

	for _, f := range fields {
		im.DefaultMapping.AddFieldMappingsAt(f.Name, fieldMappingFor(f))
	}
	return im
}

func fieldMappingFor(f FieldDef) *mapping.FieldMapping {
	var fm *mapping.FieldMapping
	switch f.Kind {
	case KindText:
		fm = mapping.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		// Positions and frequencies are needed for phrase queries and
		// snippet highlighting.
		fm.IncludeTermVectors = f.Indexed
	case KindBoolean:
		fm = mapping.NewBooleanFieldMapping()
	default:
		fm = mapping.NewNumericFieldMapping()
	}
	fm.Store = f.Stored
	fm.Index = f.Indexed
	fm.IncludeInAll = false
	return fm
}
