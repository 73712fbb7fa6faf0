package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T, cfg Config) *FileWatcher {
	t.Helper()
	if cfg.Debounce == 0 {
		cfg.Debounce = 30 * time.Millisecond
	}
	fw, err := NewFileWatcher(cfg, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = fw.Close() })
	return fw
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// watchChanges runs fw in the background and returns the channel of batches.
func watchChanges(t *testing.T, fw *FileWatcher) <-chan []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := make(chan []string, 10)
	go func() {
		_ = fw.Watch(ctx, func(changed []string) error {
			changes <- changed
			return nil
		})
	}()
	time.Sleep(50 * time.Millisecond)
	return changes
}

func expectChange(t *testing.T, changes <-chan []string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case batch := <-changes:
			for _, path := range batch {
				if path == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("no change reported for %s", want)
		}
	}
}

func TestNewFileWatcher_Errors(t *testing.T) {
	if _, err := NewFileWatcher(Config{}, nil); err == nil {
		t.Error("NewFileWatcher() with no paths should fail")
	}
	if _, err := NewFileWatcher(Config{Paths: []string{filepath.Join(t.TempDir(), "missing.yaml")}}, nil); err == nil {
		t.Error("NewFileWatcher() with a missing path should fail")
	}
}

func TestFileWatcher_SingleFile(t *testing.T) {
	dir := t.TempDir()
	grammarFile := filepath.Join(dir, "lang.yaml")
	writeFile(t, grammarFile, "name: lang\n")

	fw := newWatcher(t, Config{Paths: []string{grammarFile}})
	changes := watchChanges(t, fw)

	writeFile(t, filepath.Join(dir, "unrelated.yaml"), "x: 1\n")
	writeFile(t, grammarFile, "name: lang2\n")

	expectChange(t, changes, grammarFile)
}

func TestFileWatcher_Directory(t *testing.T) {
	dir := t.TempDir()
	fw := newWatcher(t, Config{
		Paths:      []string{dir},
		Extensions: []string{".yaml"},
		SkipHidden: true,
	})
	changes := watchChanges(t, fw)

	tree := filepath.Join(dir, "tree.yaml")
	writeFile(t, tree, "type: primitive.Leaf\nleaf: {}\n")

	expectChange(t, changes, tree)
}

func TestFileWatcher_Run(t *testing.T) {
	fw := newWatcher(t, Config{Paths: []string{t.TempDir()}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx, func([]string) error { return nil }) }()

	time.Sleep(20 * time.Millisecond)
	if err := fw.Watch(ctx, func([]string) error { return nil }); err == nil {
		t.Error("second Watch() should fail while running")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestFileWatcher_ShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(t.TempDir(), "grammar.yml")
	writeFile(t, single, "name: g\n")

	fw := newWatcher(t, Config{
		Paths:      []string{dir, single},
		Extensions: []string{".yaml"},
		SkipHidden: true,
	})

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}, true},
		{"nested create", fsnotify.Event{Name: filepath.Join(dir, "sub", "b.YAML"), Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Chmod}, false},
		{"wrong extension", fsnotify.Event{Name: filepath.Join(dir, "a.txt"), Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: filepath.Join(dir, ".a.yaml"), Op: fsnotify.Write}, false},
		{"explicit file ignores extension", fsnotify.Event{Name: single, Op: fsnotify.Write}, true},
		{"sibling of explicit file", fsnotify.Event{Name: filepath.Join(filepath.Dir(single), "other.yaml"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestOpName(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Write, "write"},
		{fsnotify.Remove, "remove"},
		{fsnotify.Rename, "rename"},
		{fsnotify.Chmod, "other"},
		{fsnotify.Create | fsnotify.Write, "create"},
	}
	for _, tt := range tests {
		if got := opName(tt.op); got != tt.want {
			t.Errorf("opName(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
