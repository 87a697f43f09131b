// Package index owns the engine index handle: create/open lifecycle, the
// lazily-created writer slot, and reader snapshots. The engine itself
// (storage, segments, scoring) is bleve; this package never reaches below
// its public API.
package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/gofrs/flock"

	muninnerrors "github.com/nyo16/muninn/errors"
	"github.com/nyo16/muninn/internal/schema"
)

// DefaultWriterBudgetBytes is the ingestion memory budget for the lazy
// writer, matching the engine's customary 50MB heap.
const DefaultWriterBudgetBytes = 50_000_000

// Options configures index creation and opening.
type Options struct {
	// WriterBudgetBytes caps the bytes buffered by the writer between
	// commits. Zero means DefaultWriterBudgetBytes.
	WriterBudgetBytes uint64

	// InMemory builds the index in memory instead of on disk. Used by
	// tests; no lock file or schema sidecar is involved.
	InMemory bool
}

func (o Options) budget() uint64 {
	if o.WriterBudgetBytes == 0 {
		return DefaultWriterBudgetBytes
	}
	return o.WriterBudgetBytes
}

// Handle owns a shared reference to an opened index and the single writer
// slot for it. The index reference is guarded by mu (concurrent readers,
// serialized structural access); the writer slot by writerMu. Lock order:
// writerMu before mu when both are needed (Commit); nothing acquires
// writerMu while holding mu.
type Handle struct {
	mu     sync.RWMutex
	idx    bleve.Index
	closed bool

	writerMu sync.Mutex
	batch    *bleve.Batch
	budget   uint64

	cat  *schema.Catalogue
	path string
	lock *flock.Flock
}

// Create builds the catalogue, ensures the target directory's parent exists,
// creates a new engine index at path and wraps it with an empty writer slot.
// It fails atomically: on error no handle is returned and the directory lock
// is released.
func Create(path string, specs []schema.FieldSpec, opts Options) (*Handle, error) {
	cat, err := schema.Build(specs)
	if err != nil {
		return nil, err
	}

	if opts.InMemory {
		idx, err := bleve.NewMemOnly(cat.IndexMapping())
		if err != nil {
			return nil, muninnerrors.Wrap(muninnerrors.ErrCodeIndexCreate,
				"create in-memory index", err)
		}
		return &Handle{idx: idx, cat: cat, budget: opts.budget()}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeCreateDir,
			"create index directory "+filepath.Dir(path), err)
	}

	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	idx, err := bleve.New(path, cat.IndexMapping())
	if err != nil {
		_ = lock.Unlock()
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeIndexCreate,
			"create index at "+path, err)
	}

	if err := cat.Save(path); err != nil {
		_ = idx.Close()
		_ = lock.Unlock()
		return nil, err
	}

	slog.Debug("index_created",
		slog.String("path", path),
		slog.Int("fields", cat.Len()))

	return &Handle{idx: idx, cat: cat, budget: opts.budget(), path: path, lock: lock}, nil
}

// Open opens an existing index at path, restoring its catalogue from the
// schema sidecar (or, degraded, from the engine mapping).
func Open(path string, opts Options) (*Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeIndexPath,
			"index path "+path, err)
	}

	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	idx, err := bleve.Open(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeIndexOpen,
			"open index at "+path, err)
	}

	cat, err := schema.LoadSidecar(path)
	if err != nil {
		if !os.IsNotExist(err) {
			_ = idx.Close()
			_ = lock.Unlock()
			return nil, err
		}
		// No sidecar: this index was created by other tooling. The engine
		// mapping still describes the fields, but integer widths are lost.
		slog.Warn("schema_sidecar_missing",
			slog.String("path", path),
			slog.String("fallback", "engine mapping, numerics as f64"))
		cat, err = schema.FromMapping(idx.Mapping())
		if err != nil {
			_ = idx.Close()
			_ = lock.Unlock()
			return nil, err
		}
	}

	return &Handle{idx: idx, cat: cat, budget: opts.budget(), path: path, lock: lock}, nil
}

// acquireLock takes the cross-process writer lock. The lock file sits next
// to the index directory so it can be taken before the engine creates it.
func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeLockHeld,
			"acquire index lock "+lock.Path(), err)
	}
	if !ok {
		return nil, muninnerrors.Newf(muninnerrors.ErrCodeLockHeld,
			"index at %s is locked by another process", path)
	}
	return lock, nil
}

// Catalogue returns the immutable field catalogue for this index.
func (h *Handle) Catalogue() *schema.Catalogue {
	return h.cat
}

// Path returns the index directory, empty for in-memory indexes.
func (h *Handle) Path() string {
	return h.path
}

// DocCount returns the number of committed documents.
func (h *Handle) DocCount() (uint64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return 0, errClosed(h.path)
	}
	n, err := h.idx.DocCount()
	if err != nil {
		return 0, muninnerrors.Wrap(muninnerrors.ErrCodeInternal, "document count", err)
	}
	return n, nil
}

// Execute runs a prepared search request against the index. Safe for
// concurrent use; the request itself must not be shared across calls.
func (h *Handle) Execute(ctx context.Context, req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, errClosed(h.path)
	}
	res, err := h.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeSearch, "search failed", err)
	}
	return res, nil
}

// Close releases the engine index and the directory lock. Idempotent.
func (h *Handle) Close() error {
	// The writer slot is cleared before mu is taken, keeping the lock order
	// consistent with Commit (writerMu before mu). An in-flight Commit
	// either drains the batch first or finds it already gone.
	h.writerMu.Lock()
	h.batch = nil
	h.writerMu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	err := h.idx.Close()
	if h.lock != nil {
		if uerr := h.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}
	if err != nil {
		return muninnerrors.Wrap(muninnerrors.ErrCodeInternal, "close index", err)
	}
	return nil
}

func errClosed(path string) error {
	if path == "" {
		path = "(in-memory)"
	}
	return muninnerrors.Newf(muninnerrors.ErrCodeIndexClosed, "index %s is closed", path)
}
