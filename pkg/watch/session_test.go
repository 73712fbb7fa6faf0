package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"mercator-hq/arbor/pkg/engine"
	"mercator-hq/arbor/pkg/grammar"
)

func copyTestdata(t *testing.T, dir, name, as string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "grammar", "loader", "testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, as)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, string(data))
	return path
}

type collected struct {
	mu      sync.Mutex
	results []*engine.Result
}

func (c *collected) add(r *engine.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collected) subjects() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.results))
	for i, r := range c.results {
		out[i] = r.Subject
	}
	return out
}

func newSession(t *testing.T) (*Session, *collected, string) {
	t.Helper()
	dir := t.TempDir()
	grammarPath := copyTestdata(t, dir, "lang.yaml", "lang.yaml")
	copyTestdata(t, dir, "program.yaml", "trees/good.yaml")
	copyTestdata(t, dir, "invalid_program.yaml", "trees/bad.yaml")
	writeFile(t, filepath.Join(dir, "trees", "notes.txt"), "ignored")

	reg, err := grammar.LoadRegistry(grammarPath)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	out := &collected{}
	s := &Session{
		Engine:      engine.New(reg, nil),
		GrammarPath: grammarPath,
		TreePaths:   []string{filepath.Join(dir, "trees")},
		Extensions:  []string{".yaml"},
		Report:      out.add,
	}
	return s, out, dir
}

func TestSession_CheckAll(t *testing.T) {
	s, out, dir := newSession(t)

	failed, err := s.CheckAll(context.Background())
	if err != nil {
		t.Fatalf("CheckAll() error = %v", err)
	}
	if failed != 1 {
		t.Errorf("CheckAll() failed = %d, want 1", failed)
	}

	want := []string{
		filepath.Join(dir, "trees", "bad.yaml"),
		filepath.Join(dir, "trees", "good.yaml"),
	}
	got := out.subjects()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("checked %v, want %v", got, want)
	}
}

func TestSession_HandleTreeChange(t *testing.T) {
	s, out, dir := newSession(t)
	good := filepath.Join(dir, "trees", "good.yaml")
	removed := filepath.Join(dir, "trees", "gone.yaml")

	if err := s.HandleChange(context.Background(), []string{good, removed}); err != nil {
		t.Fatalf("HandleChange() error = %v", err)
	}

	got := out.subjects()
	if len(got) != 1 || got[0] != good {
		t.Errorf("checked %v, want only %s", got, good)
	}
}

func TestSession_HandleGrammarChange(t *testing.T) {
	s, out, _ := newSession(t)

	writeFile(t, s.GrammarPath, "name: other\ntypes:\n  Thing: primitive.Leaf\n")
	if err := s.HandleChange(context.Background(), []string{s.GrammarPath}); err != nil {
		t.Fatalf("HandleChange() error = %v", err)
	}

	if got := s.Engine.Registry().Name(); got != "other" {
		t.Errorf("registry name = %q, want %q", got, "other")
	}
	if len(out.subjects()) != 2 {
		t.Errorf("checked %d trees after grammar change, want 2", len(out.subjects()))
	}
	for _, r := range out.results {
		if r.OK {
			t.Errorf("%s passed against the replaced grammar", r.Subject)
		}
	}
}

func TestSession_BrokenGrammarKeepsRegistry(t *testing.T) {
	s, out, _ := newSession(t)

	writeFile(t, s.GrammarPath, "name: [broken\n")
	if err := s.HandleChange(context.Background(), []string{s.GrammarPath}); err == nil {
		t.Error("HandleChange() with a broken grammar should fail")
	}

	if got := s.Engine.Registry().Name(); got != "lang" {
		t.Errorf("registry name = %q, want %q", got, "lang")
	}
	if len(out.subjects()) != 0 {
		t.Errorf("checked %v after failed reload, want nothing", out.subjects())
	}
	if err := s.GrammarHealth(context.Background()); err == nil {
		t.Error("GrammarHealth() after a failed reload = nil, want error")
	}

	good, err := os.ReadFile("../grammar/loader/testdata/lang.yaml")
	if err != nil {
		t.Fatalf("read grammar: %v", err)
	}
	writeFile(t, s.GrammarPath, string(good))
	if err := s.HandleChange(context.Background(), []string{s.GrammarPath}); err != nil {
		t.Fatalf("HandleChange() after fixing the grammar error = %v", err)
	}
	if err := s.GrammarHealth(context.Background()); err != nil {
		t.Errorf("GrammarHealth() after a good reload = %v, want nil", err)
	}
}

func TestSession_Count(t *testing.T) {
	s, _, _ := newSession(t)

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	s.TreePaths = append(s.TreePaths, "does-not-exist")
	if _, err := s.Count(); err == nil {
		t.Error("Count() with a missing path should fail")
	}
}
