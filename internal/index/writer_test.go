package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	muninnerrors "github.com/nyo16/muninn/errors"
	"github.com/nyo16/muninn/internal/document"
)

func newMemHandle(t *testing.T, opts Options) *Handle {
	t.Helper()
	opts.InMemory = true
	h, err := Create("", testSpecs(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestAdd_BuffersUntilCommit(t *testing.T) {
	// Given: a handle with two buffered documents
	h := newMemHandle(t, Options{})
	require.NoError(t, h.Add(document.Pending{"title": "one"}))
	require.NoError(t, h.Add(document.Pending{"title": "two"}))
	assert.Equal(t, 2, h.Buffered())

	// Then: nothing is visible before commit
	n, err := h.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	// When: committing
	require.NoError(t, h.Commit())

	// Then: both documents land and the buffer drains
	n, err = h.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, 0, h.Buffered())
}

func TestCommit_WithoutWriterIsNoOp(t *testing.T) {
	h := newMemHandle(t, Options{})

	// Commit before any Add must succeed without creating a writer
	require.NoError(t, h.Commit())
	require.NoError(t, h.Commit())
}

func TestRollback_DiscardsBufferedDocuments(t *testing.T) {
	// Given: a buffered document
	h := newMemHandle(t, Options{})
	require.NoError(t, h.Add(document.Pending{"title": "discard me"}))

	// When: rolling back, then committing
	require.NoError(t, h.Rollback())
	require.NoError(t, h.Commit())

	// Then: the document never lands
	n, err := h.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	assert.Equal(t, 0, h.Buffered())
}

func TestRollback_WithoutWriterIsNoOp(t *testing.T) {
	h := newMemHandle(t, Options{})
	require.NoError(t, h.Rollback())
}

func TestAdd_RespectsCallerID(t *testing.T) {
	h := newMemHandle(t, Options{})
	require.NoError(t, h.Add(document.Pending{document.IDField: "doc-7", "title": "pinned"}))
	require.NoError(t, h.Commit())

	n, err := h.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	// Re-adding under the same id replaces rather than duplicates
	require.NoError(t, h.Add(document.Pending{document.IDField: "doc-7", "title": "pinned again"}))
	require.NoError(t, h.Commit())

	n, err = h.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestCommitDuringClose_NoDeadlock(t *testing.T) {
	// Given: a buffered document and a long-running reader holding mu
	h := newMemHandle(t, Options{})
	require.NoError(t, h.Add(document.Pending{"title": "in flight"}))

	h.mu.RLock()

	// When: Close queues behind the reader while a Commit starts
	closeDone := make(chan struct{})
	go func() {
		defer close(closeDone)
		_ = h.Close()
	}()

	commitDone := make(chan struct{})
	go func() {
		defer close(commitDone)
		_ = h.Commit()
	}()

	// Let both goroutines reach their first lock before releasing the reader
	time.Sleep(50 * time.Millisecond)
	h.mu.RUnlock()

	// Then: both finish; neither holds its lock while waiting for the other's
	for name, done := range map[string]chan struct{}{"close": closeDone, "commit": commitDone} {
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatalf("%s did not finish, commit and close are deadlocked", name)
		}
	}
}

func TestAdd_BudgetExhaustedFails(t *testing.T) {
	// Given: a writer with a tiny byte budget
	h := newMemHandle(t, Options{WriterBudgetBytes: 1})
	require.NoError(t, h.Add(document.Pending{"title": "first fits, fills the budget"}))

	// When: adding past the budget
	err := h.Add(document.Pending{"title": "second"})

	// Then: the writer refuses until commit or rollback
	require.Error(t, err)
	assert.Equal(t, muninnerrors.ErrCodeWriterBudget, muninnerrors.GetCode(err))

	// And: a commit frees the budget again
	require.NoError(t, h.Commit())
	require.NoError(t, h.Add(document.Pending{"title": "second"}))
}
