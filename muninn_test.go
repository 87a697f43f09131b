package muninn_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyo16/muninn"
)

func TestDiskRoundTrip(t *testing.T) {
	// Given: an on-disk index populated and closed
	path := filepath.Join(t.TempDir(), "posts")
	specs := []muninn.FieldSpec{
		{Name: "title", Kind: muninn.KindText, Stored: true, Indexed: true},
		{Name: "views", Kind: muninn.KindUnsignedInt, Stored: true, Indexed: true},
	}

	idx, err := muninn.Create(path, specs, muninn.Options{})
	require.NoError(t, err)
	require.NoError(t, idx.Add(muninn.Document{"title": "Hello World", "views": uint64(42)}))
	require.NoError(t, idx.Commit())
	require.NoError(t, idx.Close())

	// When: reopening and searching
	idx, err = muninn.Open(path, muninn.Options{})
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	reader, err := idx.NewReader(muninn.ReaderOptions{})
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	qb := muninn.NewQueryBuilder(idx.Catalogue())
	q, err := qb.Term("title", "hello")
	require.NoError(t, err)
	res, err := muninn.NewSearcher(reader).Search(context.Background(), q, 10)
	require.NoError(t, err)

	// Then: the document survives the close/open cycle with its kinds intact
	require.Equal(t, 1, res.TotalHits)
	assert.Equal(t, "Hello World", res.Hits[0].Document["title"])
	assert.Equal(t, uint64(42), res.Hits[0].Document["views"])
}

func TestReaderGenerationAdvancesOnCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts")
	specs := []muninn.FieldSpec{
		{Name: "title", Kind: muninn.KindText, Stored: true, Indexed: true},
	}

	idx, err := muninn.Create(path, specs, muninn.Options{})
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	reader, err := idx.NewReader(muninn.ReaderOptions{ReloadOnCommit: true})
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	before := reader.Generation()
	require.NoError(t, idx.Add(muninn.Document{"title": "fresh"}))
	require.NoError(t, idx.Commit())

	require.Eventually(t, func() bool {
		return reader.Generation() > before
	}, 2*time.Second, 10*time.Millisecond)
}
