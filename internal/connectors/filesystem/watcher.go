package filesystem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/yonerge/internal/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 2 * time.Second

// Watcher calls OnChange once per settled burst of document changes in a directory.
type Watcher struct {
	dir      string
	exts     []string
	debounce time.Duration
	onChange func(ctx context.Context)

	fsw  *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Dir is the directory to watch, not recursive.
	Dir string

	// Extensions filters events; empty means .pdf only.
	Extensions []string

	// Debounce is the quiet period before OnChange runs. Zero uses DefaultDebounce.
	Debounce time.Duration

	// OnChange runs on the watcher goroutine; bursts arriving while it runs
	// are coalesced into one further call.
	OnChange func(ctx context.Context)
}

// NewWatcher creates a watcher on cfg.Dir.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("watcher: OnChange is required")
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".pdf"}
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	dir := ResolvePath(cfg.Dir)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watcher: watching %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		exts:     exts,
		debounce: debounce,
		onChange: cfg.OnChange,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Run processes events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.done:
			timer.Stop()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("watcher: %s %s", event.Op, event.Name)
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true
		case <-timer.C:
			pending = false
			logger.Info("Document directory changed, rebuilding index")
			w.onChange(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// relevant reports content changes to watched, non-hidden files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if isHidden(event.Name) || !hasExtension(event.Name, w.exts) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
