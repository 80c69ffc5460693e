// Package watch reports changes to a single file, typically the config file.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts editors produce when saving.
const DefaultDebounce = 150 * time.Millisecond

// Event is delivered once per burst of changes to the watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Watcher monitors one file through its parent directory, so atomic
// rename-over saves are seen too.
type Watcher struct {
	path     string
	debounce time.Duration

	fsWatcher *fsnotify.Watcher
	events    chan Event
	stopChan  chan struct{}

	mu      sync.Mutex
	running bool
}

// New watches path. The parent directory must exist; the file need not.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:      abs,
		debounce:  debounce,
		fsWatcher: fsw,
		events:    make(chan Event, 1),
		stopChan:  make(chan struct{}),
	}, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Events delivers change notifications. It is closed by Stop.
func (w *Watcher) Events() <-chan Event { return w.events }

// Start runs the event loop in a goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	select {
	case <-w.stopChan:
		return fmt.Errorf("watcher stopped")
	default:
	}
	w.running = true
	go w.loop()
	slog.Debug("config watcher started", "path", w.path)
	return nil
}

func (w *Watcher) loop() {
	defer close(w.events)
	var (
		fire <-chan time.Time
		last Event
	)
	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
				continue
			}
			last = Event{Path: w.path, Op: ev.Op, At: time.Now()}
			fire = time.After(w.debounce)
		case <-fire:
			fire = nil
			select {
			case w.events <- last:
			default:
				// a reload is already queued
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "path", w.path, "err", err)
		case <-w.stopChan:
			return
		}
	}
}

// Stop halts the loop and closes Events. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.stopChan:
		return
	default:
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		slog.Error("close config watcher", "err", err)
	}
	if !w.running {
		close(w.events)
	}
	w.running = false
}
