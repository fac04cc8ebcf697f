package mirror

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"minotes/internal/note"
)

// Watcher resyncs the mirror when note files change outside the API, for
// example from an editor writing straight into the content directory.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	mirror   *Mirror
	log      *slog.Logger
	debounce time.Duration
	pending  map[string]*time.Timer
	running  bool
	done     chan struct{}
}

func NewWatcher(dir string, m *Mirror, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		mirror:   m,
		log:      log,
		debounce: 500 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the content directory in a goroutine until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.log.Info("watching content dir", "dir", w.dir)
	go w.run(ctx)
	return nil
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func noteFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".mdx" || ext == ".md"
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !noteFile(event.Name) {
		return
	}
	slug := strings.TrimSuffix(filepath.Base(event.Name), filepath.Ext(event.Name))

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// A save migrating a legacy .md to .mdx fires a Remove for the old
		// file; only drop the mirror entry when no extension is left.
		if path, ok := w.existing(slug); ok {
			w.sync(ctx, slug, path)
			return
		}
		if err := w.mirror.Delete(ctx, slug); err != nil {
			w.log.Warn("mirror sync delete failed", "slug", slug, "err", err)
		}
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		// Editors fire bursts of writes per save; coalesce them.
		w.mu.Lock()
		if t, ok := w.pending[slug]; ok {
			t.Stop()
		}
		path := event.Name
		w.pending[slug] = time.AfterFunc(w.debounce, func() {
			w.mu.Lock()
			delete(w.pending, slug)
			w.mu.Unlock()
			w.sync(ctx, slug, path)
		})
		w.mu.Unlock()
	}
}

func (w *Watcher) existing(slug string) (string, bool) {
	for _, ext := range []string{".mdx", ".md"} {
		path := filepath.Join(w.dir, slug+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func (w *Watcher) sync(ctx context.Context, slug, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		w.log.Warn("mirror sync read failed", "slug", slug, "err", err)
		return
	}
	n, err := note.Decode(slug, data)
	if err != nil {
		w.log.Warn("mirror sync parse failed", "slug", slug, "err", err)
		return
	}
	if err := w.mirror.Upsert(ctx, n); err != nil {
		w.log.Warn("mirror sync upsert failed", "slug", slug, "err", err)
	}
}
