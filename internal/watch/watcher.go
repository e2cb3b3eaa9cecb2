package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// DefaultSettle is how long a path must stay quiet before it is ingested.
// Editors fire several events per save; settling collapses them into one.
const DefaultSettle = 500 * time.Millisecond

// watchedExtensions lists the file types worth ingesting.
var watchedExtensions = []string{".csv", ".json", ".txt", ".md", ".xlsx", ".docx"}

// Stats counts watcher activity.
type Stats struct {
	Created   int
	Modified  int
	Removed   int
	Ingested  int
	Errors    int
	LastPath  string
	LastEvent string
}

// Watcher ingests data files from one directory into a session as they
// appear or change. While it runs, its goroutine is the only session writer;
// hosts that need to read during a watch do so from the OnIngest callback,
// which runs on that goroutine.
type Watcher struct {
	mu       sync.RWMutex
	fw       *fsnotify.Watcher
	sess     *session.Session
	log      *zap.Logger
	dir      string
	settle   time.Duration
	pending  map[string]time.Time
	onIngest func(id, path string)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// Option configures a Watcher at construction.
type Option func(*Watcher)

// WithLogger routes watcher diagnostics to the given logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// WithSettle overrides the quiet window; d must be positive.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithOnIngest registers a callback invoked after each successful ingest.
func WithOnIngest(fn func(id, path string)) Option {
	return func(w *Watcher) { w.onIngest = fn }
}

// New builds a watcher over dir feeding sess. The directory is not created
// and is not watched until Start.
func New(dir string, sess *session.Session, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:      fw,
		sess:    sess,
		log:     zap.NewNop(),
		dir:     dir,
		settle:  DefaultSettle,
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the directory and launches the event loop. Calling Start
// on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fw.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching directory", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop shuts the loop down and waits for it to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fw.Close(); err != nil {
		w.log.Error("close watcher", zap.Error(err))
	}
	w.log.Info("watcher stopped")
}

// Watching reports whether the event loop is live.
func (w *Watcher) Watching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IngestExisting sweeps the directory once, ingesting every watchable file
// already present. It returns how many files were ingested.
func (w *Watcher) IngestExisting() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, entry := range entries {
		if entry.IsDir() || !watchable(entry.Name()) {
			continue
		}
		if w.ingest(filepath.Join(w.dir, entry.Name())) {
			n++
		}
	}
	return n, nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.settle / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watch context canceled")
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.processSettled()
		}
	}
}

// handleEvent filters and debounces one filesystem event. Creates and writes
// queue the path for ingestion once it settles; removals and renames only
// update the counters.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !watchable(event.Name) {
		return
	}

	var kind string
	switch {
	case event.Op&fsnotify.Create != 0:
		kind = "create"
	case event.Op&fsnotify.Write != 0:
		kind = "write"
	case event.Op&fsnotify.Remove != 0:
		kind = "remove"
	case event.Op&fsnotify.Rename != 0:
		kind = "rename"
	default:
		return
	}
	w.log.Debug("fs event", zap.String("kind", kind), zap.String("path", event.Name))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.LastPath = event.Name
	w.stats.LastEvent = kind
	switch kind {
	case "create":
		w.stats.Created++
		w.pending[event.Name] = time.Now()
	case "write":
		w.stats.Modified++
		w.pending[event.Name] = time.Now()
	case "remove", "rename":
		w.stats.Removed++
		delete(w.pending, event.Name)
	}
}

// processSettled ingests every queued path whose last event is older than
// the settle window.
func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.ingest(path)
	}
}

// ingest reads one file and adds it to the session. The item name is the
// base name, so classification rides on the extension.
func (w *Watcher) ingest(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.log.Debug("file vanished before ingest", zap.String("path", path))
			return false
		}
		w.log.Error("read file", zap.String("path", path), zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return false
	}

	id := w.sess.Ingest(filepath.Base(path), dataset.BytesContent(data))
	w.mu.Lock()
	w.stats.Ingested++
	w.mu.Unlock()
	w.log.Info("ingested", zap.String("path", path), zap.String("id", id))

	if w.onIngest != nil {
		w.onIngest(id, path)
	}
	return true
}

// watchable reports whether the path has one of the ingestible extensions.
func watchable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range watchedExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
