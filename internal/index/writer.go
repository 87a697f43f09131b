package index

import (
	"github.com/google/uuid"

	muninnerrors "github.com/nyo16/muninn/errors"
	"github.com/nyo16/muninn/internal/document"
)

// Add marshals a loosely-typed document and buffers it in the writer. The
// writer is created on first use and retained for the handle's remaining
// lifetime. A document may pick its engine ID through the reserved "_id"
// key; otherwise one is generated.
//
// Documents buffered here are invisible to searches until Commit.
func (h *Handle) Add(doc document.Pending) error {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return errClosed(h.path)
	}
	idx := h.idx
	h.mu.RUnlock()

	id, ok := document.ExtractID(doc)
	if !ok {
		id = uuid.NewString()
	}
	typed := document.Marshal(h.cat, doc)

	h.writerMu.Lock()
	defer h.writerMu.Unlock()

	if h.batch == nil {
		h.batch = idx.NewBatch()
	}
	if h.batch.TotalDocsSize() >= h.budget {
		return muninnerrors.Newf(muninnerrors.ErrCodeWriterBudget,
			"writer buffer exceeds %d bytes, commit or rollback first", h.budget)
	}
	if err := h.batch.Index(id, typed); err != nil {
		return muninnerrors.Wrap(muninnerrors.ErrCodeWriterInit,
			"buffer document "+id, err)
	}
	return nil
}

// Commit flushes all buffered documents durably, making them visible to new
// searches. If no writer exists yet, or nothing was buffered, this is a
// no-op success, so lifecycle calls stay safe to invoke speculatively.
func (h *Handle) Commit() error {
	h.writerMu.Lock()
	defer h.writerMu.Unlock()

	if h.batch == nil || h.batch.Size() == 0 {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return errClosed(h.path)
	}
	if err := h.idx.Batch(h.batch); err != nil {
		return muninnerrors.Wrap(muninnerrors.ErrCodeCommit, "commit failed", err)
	}
	// The writer persists across commits; only its buffer is reset.
	h.batch.Reset()
	return nil
}

// Rollback discards all buffered, uncommitted documents. No-op success when
// no writer exists.
func (h *Handle) Rollback() error {
	h.writerMu.Lock()
	defer h.writerMu.Unlock()

	if h.batch == nil {
		return nil
	}
	h.batch.Reset()
	return nil
}

// Buffered returns the number of documents waiting for a commit.
func (h *Handle) Buffered() int {
	h.writerMu.Lock()
	defer h.writerMu.Unlock()
	if h.batch == nil {
		return 0
	}
	return h.batch.Size()
}
