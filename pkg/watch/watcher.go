// Package watch re-runs checks when grammar or tree files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/arbor/pkg/telemetry/metrics"
)

// Config configures a FileWatcher.
type Config struct {
	// Paths are the files and directories to watch. Directories are watched recursively.
	Paths []string

	// Debounce is the quiet period before changes are delivered.
	Debounce time.Duration

	// Extensions limits events to files with these extensions. Empty means all files.
	Extensions []string

	// SkipHidden ignores files and directories whose name starts with a dot.
	SkipHidden bool

	// Metrics counts handled events. May be nil.
	Metrics *metrics.Collector
}

// FileWatcher delivers debounced batches of changed files.
//
// Single files are watched through their parent directory, so editors that
// save by renaming a temporary file over the original are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	config  Config
	logger  *slog.Logger

	files map[string]struct{} // explicitly watched files
	dirs  []string            // recursively watched directories

	mu        sync.Mutex
	running   bool
	closeOnce sync.Once
}

// NewFileWatcher creates a watcher for cfg.Paths. Every path must exist.
func NewFileWatcher(cfg Config, logger *slog.Logger) (*FileWatcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: w,
		config:  cfg,
		logger:  logger.With("component", "watch"),
		files:   make(map[string]struct{}),
	}

	for _, path := range cfg.Paths {
		if err := fw.addPath(path); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	return fw, nil
}

// Watch blocks until ctx is cancelled, calling onChange with each debounced
// batch of changed files. Errors from onChange are logged and watching continues.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(changed []string) error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
	}()

	debouncer := NewDebouncer(fw.config.Debounce, func(changed []string) {
		fw.logger.Info("files changed", "count", len(changed), "paths", changed)
		if err := onChange(changed); err != nil {
			fw.logger.Error("change handler failed", "error", err)
		}
	})
	defer debouncer.Stop()

	fw.logger.Info("file watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				fw.watchNewDirectory(event.Name)
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())
			fw.config.Metrics.RecordWatchEvent(opName(event.Op))
			debouncer.Trigger(filepath.Clean(event.Name))

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Close releases the underlying fsnotify watcher. It is safe to call more than once.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		err = fw.watcher.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) addPath(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		fw.dirs = append(fw.dirs, path)
		return fw.addDirectory(path)
	}

	fw.files[path] = struct{}{}
	return fw.watcher.Add(filepath.Dir(path))
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && fw.hidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// watchNewDirectory starts watching a directory created under a watched tree.
func (fw *FileWatcher) watchNewDirectory(path string) {
	if !fw.underWatchedDir(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || fw.hidden(path) {
		return
	}
	if err := fw.addDirectory(path); err != nil {
		fw.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}

func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	path := filepath.Clean(event.Name)
	if _, ok := fw.files[path]; ok {
		return true
	}
	if !fw.underWatchedDir(path) {
		return false
	}
	if fw.hidden(path) {
		return false
	}
	return fw.hasValidExtension(path)
}

func (fw *FileWatcher) underWatchedDir(path string) bool {
	for _, dir := range fw.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) hidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

func (fw *FileWatcher) hasValidExtension(path string) bool {
	if len(fw.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range fw.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// opName returns a stable label for the event's primary operation.
func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return "other"
	}
}
