// Package dropzone watches the ingestion directory and emits file events
// once new files have settled.
package dropzone

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

var _ driven.FileSource = (*Watcher)(nil)

var log = logger.Named("dropzone")

// Watcher is an fsnotify-backed file source over a single directory.
type Watcher struct {
	dir         string
	settleDelay time.Duration
	watcher     *fsnotify.Watcher
}

// New creates a watcher over dir. The directory must exist.
func New(dir string, settleDelay time.Duration) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dropzone %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dropzone %s: %w: not a directory", dir, domain.ErrInvalidInput)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{dir: dir, settleDelay: settleDelay, watcher: fw}, nil
}

// Watch emits events for existing files, then for files created or written
// in the dropzone. The channel closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.FileEvent, error) {
	out := make(chan domain.FileEvent)

	go func() {
		defer close(out)

		w.emitExisting(ctx, out)

		// Files seen recently; drop repeated write events while a file
		// is still being copied in.
		pending := make(map[string]time.Time)
		ticker := time.NewTicker(w.tick())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if Skip(ev.Name) {
					continue
				}
				pending[ev.Name] = time.Now()

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watch error: %v", err)

			case now := <-ticker.C:
				for path, last := range pending {
					if now.Sub(last) < w.settleDelay {
						continue
					}
					delete(pending, path)
					if w.emit(ctx, out, path) {
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) tick() time.Duration {
	t := w.settleDelay / 2
	if t < 50*time.Millisecond {
		t = 50 * time.Millisecond
	}
	return t
}

// emitExisting scans the dropzone once at startup so files dropped while
// the daemon was down still get processed.
func (w *Watcher) emitExisting(ctx context.Context, out chan<- domain.FileEvent) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Warn("startup scan: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if Skip(path) {
			continue
		}
		if w.emit(ctx, out, path) {
			return
		}
	}
}

// emit sends one event; returns true if the context ended.
func (w *Watcher) emit(ctx context.Context, out chan<- domain.FileEvent, path string) bool {
	if _, err := os.Stat(path); err != nil {
		// Deleted between detection and settle.
		return false
	}
	select {
	case out <- domain.FileEvent{Path: path, DetectedAt: time.Now()}:
		log.Debug("file settled: %s", path)
		return false
	case <-ctx.Done():
		return true
	}
}

// Skip reports whether a path must never be ingested: hidden files,
// in-progress downloads, and the sidecar notes the daemon writes itself.
func Skip(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if strings.HasPrefix(name, "Unconfirmed") {
		return true
	}
	if strings.HasSuffix(name, ".float_dis.md") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmp", ".part", ".crdownload", ".download":
		return true
	}
	return false
}
