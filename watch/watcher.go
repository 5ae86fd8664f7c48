// Package watch feeds newly dropped artifact feature files to a handler.
//
// The mesh feature extractor writes one JSON or YAML document per scanned
// artifact into a drop directory; a Watcher picks each file up as it
// appears and hands the decoded artifact to the caller, typically for
// classification against a registry.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/errors"
)

// DefaultDebounce is how long a file must stay quiet before it is read.
// Extractors write large documents in several chunks; reading on the
// first event would see a truncated file.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives each decoded artifact along with its source path.
type Handler func(a artifact.Artifact, path string)

// Watcher monitors one directory for artifact feature files.
type Watcher struct {
	dir      string
	handler  Handler
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher for dir. A nil logger disables logging.
// Call Start to begin receiving events and Stop to shut down.
func NewWatcher(dir string, handler Handler, log *zap.SugaredLogger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: handler must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watching directory %s", dir)
	}

	return &Watcher{
		dir:      dir,
		handler:  handler,
		debounce: DefaultDebounce,
		watcher:  fsw,
		log:      log,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// SetDebounce overrides the quiet period. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isArtifactFile(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("artifact watcher error", "error", err)
		}
	}
}

// schedule debounces rapid events per path: each new event resets the
// path's timer, so the file is read once it has been quiet for the
// debounce period.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(path)
	})
}

func (w *Watcher) process(path string) {
	a, err := artifact.LoadFile(path)
	if err != nil {
		w.log.Warnw("skipping unreadable artifact file",
			"path", path, "error", err)
		return
	}
	w.log.Infow("artifact file picked up", "path", path, "artifact_id", a.ID)
	w.handler(a, path)
}

// Stop stops watching and cancels any pending reads.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func isArtifactFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
