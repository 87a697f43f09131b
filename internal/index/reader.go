package index

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	muninnerrors "github.com/nyo16/muninn/errors"
)

// ReaderOptions configures snapshot readers.
type ReaderOptions struct {
	// ReloadOnCommit watches the index directory and advances the reader's
	// generation whenever the engine persists a commit, so callers can tell
	// when a fresh snapshot is worth taking. Ignored for in-memory indexes.
	ReloadOnCommit bool
}

// Reader is a read-only view over an opened index. Multiple readers may
// coexist; searches issued through a reader never block writers.
type Reader struct {
	h   *Handle
	gen atomic.Uint64

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewReader creates a reader for the handle.
func (h *Handle) NewReader(opts ReaderOptions) (*Reader, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, errClosed(h.path)
	}

	r := &Reader{h: h}
	if opts.ReloadOnCommit && h.path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, muninnerrors.Wrap(muninnerrors.ErrCodeInternal,
				"create commit watcher", err)
		}
		if err := w.Add(h.path); err != nil {
			_ = w.Close()
			return nil, muninnerrors.Wrap(muninnerrors.ErrCodeInternal,
				"watch index directory "+h.path, err)
		}
		r.watcher = w
		r.done = make(chan struct{})
		go r.watch()
	}
	return r, nil
}

// watch advances the generation counter on index directory writes. The
// engine only touches its directory when a commit persists, so every bump
// corresponds to newly visible documents.
func (r *Reader) watch() {
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				r.gen.Add(1)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("commit_watcher_error",
				slog.String("path", r.h.path),
				slog.String("error", err.Error()))
		case <-r.done:
			return
		}
	}
}

// Generation returns the commit generation observed so far. Zero until the
// first commit lands (or always, without ReloadOnCommit).
func (r *Reader) Generation() uint64 {
	return r.gen.Load()
}

// Handle returns the underlying index handle.
func (r *Reader) Handle() *Handle {
	return r.h
}

// Close stops the commit watcher, if any. Idempotent. The underlying index
// stays open; it belongs to the handle.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		if r.watcher != nil {
			close(r.done)
			err = r.watcher.Close()
		}
	})
	return err
}
