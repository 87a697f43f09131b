package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyo16/muninn/internal/schema"
)

func testCatalogue(t *testing.T) *schema.Catalogue {
	t.Helper()
	cat, err := schema.Build([]schema.FieldSpec{
		{Name: "title", Kind: schema.KindText, Stored: true, Indexed: true},
		{Name: "views", Kind: schema.KindUnsignedInt, Stored: true, Indexed: true},
		{Name: "delta", Kind: schema.KindSignedInt, Stored: true, Indexed: true},
		{Name: "score", Kind: schema.KindFloat, Stored: true, Indexed: true},
		{Name: "draft", Kind: schema.KindBoolean, Stored: true, Indexed: true},
	})
	require.NoError(t, err)
	return cat
}

func TestMarshal_AcceptableValues(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{
		"title": "Hello World",
		"views": 42,
		"delta": -7,
		"score": 3.5,
		"draft": true,
	})

	assert.Equal(t, map[string]any{
		"title": "Hello World",
		"views": float64(42),
		"delta": float64(-7),
		"score": 3.5,
		"draft": true,
	}, typed)
}

func TestMarshal_UnknownFieldSkipped(t *testing.T) {
	// Given: a document with a field absent from the catalogue
	cat := testCatalogue(t)

	// When: marshalling
	typed := Marshal(cat, Pending{"title": "ok", "author": "nobody"})

	// Then: the unknown field is silently dropped, not an error
	assert.Equal(t, map[string]any{"title": "ok"}, typed)
}

func TestMarshal_TextRejectsNonString(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{"title": 12345})

	// The field is omitted; the document proceeds without it
	_, present := typed["title"]
	assert.False(t, present)
}

func TestMarshal_UnsignedRefusesNegative(t *testing.T) {
	// Given: a negative signed value for an unsigned field
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{"views": -1})

	// Then: the field is omitted; it must never wrap to a huge unsigned
	_, present := typed["views"]
	assert.False(t, present)
}

func TestMarshal_UnsignedAcceptsNonNegativeSigned(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{"views": int64(9)})

	assert.Equal(t, float64(9), typed["views"])
}

func TestMarshal_SignedAcceptsUnsigned(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{"delta": uint32(8)})

	assert.Equal(t, float64(8), typed["delta"])
}

func TestMarshal_FloatCoercesIntegers(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{"score": 2})
	assert.Equal(t, float64(2), typed["score"])

	typed = Marshal(cat, Pending{"score": uint64(3)})
	assert.Equal(t, float64(3), typed["score"])

	typed = Marshal(cat, Pending{"score": float32(1.5)})
	assert.Equal(t, float64(1.5), typed["score"])
}

func TestMarshal_BooleanIsStrict(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{"draft": "true"})

	_, present := typed["draft"]
	assert.False(t, present)
}

func TestMarshal_ReservedIDNotAField(t *testing.T) {
	cat := testCatalogue(t)

	typed := Marshal(cat, Pending{IDField: "doc-1", "title": "ok"})

	_, present := typed[IDField]
	assert.False(t, present)
	assert.Equal(t, "ok", typed["title"])
}

func TestExtractID(t *testing.T) {
	id, ok := ExtractID(Pending{IDField: "doc-1"})
	assert.True(t, ok)
	assert.Equal(t, "doc-1", id)

	_, ok = ExtractID(Pending{IDField: ""})
	assert.False(t, ok)

	_, ok = ExtractID(Pending{IDField: 7})
	assert.False(t, ok)

	_, ok = ExtractID(Pending{"title": "x"})
	assert.False(t, ok)
}
