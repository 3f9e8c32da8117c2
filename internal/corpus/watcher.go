package corpus

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before the callback runs.
const DefaultDebounce = 2 * time.Second

// Watcher monitors the documentation root and invokes a callback once changes settle.
type Watcher struct {
	scanner  *Scanner
	debounce time.Duration
	onChange func(ctx context.Context)
	fsw      *fsnotify.Watcher
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger

	// debounce state
	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool
	ctx     context.Context

	// serializes callback runs
	runMu sync.Mutex
}

// NewWatcher creates a watcher for the scanner's root. debounce <= 0 uses DefaultDebounce.
func NewWatcher(scanner *Scanner, debounce time.Duration, onChange func(ctx context.Context)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		scanner:  scanner,
		debounce: debounce,
		onChange: onChange,
		fsw:      fsw,
		logger:   slog.Default(),
	}, nil
}

// Start watches the root and every non-skipped directory below it.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.scanner.Check(); err != nil {
		return err
	}

	watched, err := w.addRecursive(w.scanner.Root())
	if err != nil {
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)

	w.logger.InfoContext(ctx, "corpus watcher started", "root", w.scanner.Root(), "watched", watched)
	return nil
}

// Stop shuts down the watcher and waits for the event loop and any
// running callback to finish. No callback starts after Stop returns.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}

	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
	_ = w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) (int, error) {
	watched := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.scanner.Root() && w.scanner.Skips(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("corpus watcher: cannot watch dir", "path", path, "error", err)
			return nil
		}
		watched++
		return nil
	})
	return watched, err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WarnContext(ctx, "corpus watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories are watched so files created inside them are seen.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.scanner.Skips(filepath.Base(path)) {
				_, _ = w.addRecursive(path)
				w.schedule()
			}
			return
		}
	}

	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	// Removed or renamed directories carry no extension; treat them as relevant.
	if !w.scanner.Matches(path) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("corpus change detected", "path", path, "op", event.Op.String())
	w.schedule()
}

// schedule debounces callback runs.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = true

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.stopped || !w.pending || w.ctx == nil || w.ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.pending = false
	ctx := w.ctx
	// Added under mu so Stop's Wait sees it.
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	w.runMu.Lock()
	defer w.runMu.Unlock()
	w.logger.InfoContext(ctx, "documentation changed, rebuilding index")
	w.onChange(ctx)
}
