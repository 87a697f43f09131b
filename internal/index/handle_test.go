package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	muninnerrors "github.com/nyo16/muninn/errors"
	"github.com/nyo16/muninn/internal/schema"
)

func testSpecs() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "title", Kind: schema.KindText, Stored: true, Indexed: true},
		{Name: "views", Kind: schema.KindUnsignedInt, Stored: true, Indexed: true},
	}
}

func TestCreate_InMemory(t *testing.T) {
	h, err := Create("", testSpecs(), Options{InMemory: true})
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	assert.Equal(t, 2, h.Catalogue().Len())
	n, err := h.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestCreate_InvalidSchemaFailsAtomically(t *testing.T) {
	// Given: a spec with an unsupported kind
	specs := []schema.FieldSpec{{Name: "when", Kind: schema.FieldKind("datetime")}}
	path := filepath.Join(t.TempDir(), "idx")

	// When: creating the index
	h, err := Create(path, specs, Options{})

	// Then: no handle and no index directory
	require.Error(t, err)
	assert.Nil(t, h)
	assert.NoDirExists(t, path)
}

func TestCreateOpen_RoundTripKeepsKinds(t *testing.T) {
	// Given: an on-disk index with an unsigned-integer field
	path := filepath.Join(t.TempDir(), "idx")
	h, err := Create(path, testSpecs(), Options{})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	// When: reopening it
	h, err = Open(path, Options{})
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	// Then: the sidecar restored the exact integer width
	def, ok := h.Catalogue().Field("views")
	require.True(t, ok)
	assert.Equal(t, schema.KindUnsignedInt, def.Kind)
}

func TestOpen_MissingPathFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
	assert.Equal(t, muninnerrors.ErrCodeIndexPath, muninnerrors.GetCode(err))
}

func TestCreate_SecondHandleIsLockedOut(t *testing.T) {
	// Given: an open handle on a directory
	path := filepath.Join(t.TempDir(), "idx")
	h, err := Create(path, testSpecs(), Options{})
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	// When: another handle tries to open the same directory
	_, err = Open(path, Options{})

	// Then: the directory lock rejects it
	require.Error(t, err)
	assert.Equal(t, muninnerrors.ErrCodeLockHeld, muninnerrors.GetCode(err))
}

func TestClose_IsIdempotent(t *testing.T) {
	h, err := Create("", testSpecs(), Options{InMemory: true})
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	// And: operations on the closed handle report it as closed
	_, err = h.DocCount()
	require.Error(t, err)
	assert.Equal(t, muninnerrors.ErrCodeIndexClosed, muninnerrors.GetCode(err))

	err = h.Add(map[string]any{"title": "late"})
	require.Error(t, err)
	assert.Equal(t, muninnerrors.ErrCodeIndexClosed, muninnerrors.GetCode(err))
}

func TestClose_ReleasesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx")
	h, err := Create(path, testSpecs(), Options{})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	// A closed handle no longer holds the directory lock
	h2, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, h2.Close())
}
