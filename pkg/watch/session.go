package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"mercator-hq/arbor/pkg/engine"
	"mercator-hq/arbor/pkg/grammar"
	"mercator-hq/arbor/pkg/grammar/loader"
	"mercator-hq/arbor/pkg/telemetry/metrics"
)

// Session re-checks a set of tree files against a grammar file.
//
// A change to the grammar rebuilds the registry and re-validates every tree.
// A change to a tree re-validates only that tree. If the new grammar fails to
// load, the previous registry stays in effect.
type Session struct {
	Engine      *engine.Engine
	Loader      *loader.Loader
	GrammarPath string

	// TreePaths are tree files or directories of tree files.
	TreePaths []string

	// Extensions selects tree files inside directories.
	Extensions []string

	Metrics *metrics.Collector
	Logger  *slog.Logger

	// Report receives every check result.
	Report func(*engine.Result)

	mu        sync.Mutex
	reloadErr error
}

// CheckAll validates every tree and returns how many did not pass.
func (s *Session) CheckAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkAll(ctx)
}

func (s *Session) checkAll(ctx context.Context) (int, error) {
	trees, err := s.trees()
	if err != nil {
		return 0, err
	}
	return s.validate(ctx, trees), nil
}

// Count returns how many tree files CheckAll would validate.
func (s *Session) Count() (int, error) {
	trees, err := s.trees()
	return len(trees), err
}

// HandleChange reacts to a batch of changed files.
func (s *Session) HandleChange(ctx context.Context, changed []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grammarPath := filepath.Clean(s.GrammarPath)
	for _, path := range changed {
		if path == grammarPath {
			if err := s.reloadGrammar(); err != nil {
				return err
			}
			_, err := s.checkAll(ctx)
			return err
		}
	}

	var trees []string
	for _, path := range changed {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		trees = append(trees, path)
	}
	s.validate(ctx, trees)
	return nil
}

// GrammarHealth returns the error of the last grammar reload, or nil when the
// grammar in effect matches the file. It has the health check signature.
func (s *Session) GrammarHealth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reloadErr != nil {
		return fmt.Errorf("grammar %s failed to reload: %w", s.GrammarPath, s.reloadErr)
	}
	return nil
}

func (s *Session) reloadGrammar() error {
	reg, err := grammar.LoadRegistryWith(s.loader(), s.GrammarPath)
	s.reloadErr = err
	if err != nil {
		s.Metrics.RecordGrammarLoad("", err, 0)
		s.logger().Error("grammar reload failed, keeping previous registry", "path", s.GrammarPath, "error", err)
		return err
	}
	s.Metrics.RecordGrammarLoad(reg.Name(), nil, len(reg.Names()))
	s.Engine.SetRegistry(reg)
	return nil
}

func (s *Session) validate(ctx context.Context, trees []string) int {
	failed := 0
	for _, path := range trees {
		result := s.Engine.ValidateTreeFile(ctx, s.loader(), path)
		if !result.OK {
			failed++
		}
		if s.Report != nil {
			s.Report(result)
		}
	}
	return failed
}

// trees expands TreePaths into a sorted list of tree files.
func (s *Session) trees() ([]string, error) {
	seen := make(map[string]struct{})
	for _, root := range s.TreePaths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			seen[filepath.Clean(root)] = struct{}{}
			continue
		}
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if s.matchesExtension(path) && !strings.HasPrefix(info.Name(), ".") {
				seen[filepath.Clean(path)] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	grammarPath := filepath.Clean(s.GrammarPath)
	trees := make([]string, 0, len(seen))
	for path := range seen {
		if path != grammarPath {
			trees = append(trees, path)
		}
	}
	sort.Strings(trees)
	return trees, nil
}

func (s *Session) matchesExtension(path string) bool {
	if len(s.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func (s *Session) loader() *loader.Loader {
	if s.Loader == nil {
		s.Loader = loader.New()
	}
	return s.Loader
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
