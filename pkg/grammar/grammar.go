// Package grammar ties the loader and the type registry together for callers
// that work with grammar and tree files on disk.
package grammar

import (
	"fmt"

	"mercator-hq/arbor/pkg/grammar/ast"
	"mercator-hq/arbor/pkg/grammar/loader"
	"mercator-hq/arbor/pkg/grammar/types"
)

// LoadRegistry loads a grammar file and builds its registry.
func LoadRegistry(path string) (*types.Registry, error) {
	return LoadRegistryWith(loader.New(), path)
}

// LoadRegistryWith is LoadRegistry with a configured loader.
func LoadRegistryWith(l *loader.Loader, path string) (*types.Registry, error) {
	g, err := l.LoadGrammar(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar %s: %w", path, err)
	}
	reg, err := types.New(g)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar %s: %w", path, err)
	}
	return reg, nil
}

// LoadRegistryBytes builds a registry from grammar YAML in memory.
func LoadRegistryBytes(data []byte, sourcePath string) (*types.Registry, error) {
	g, err := loader.New().ParseGrammar(data, sourcePath)
	if err != nil {
		return nil, err
	}
	return types.New(g)
}

// ValidateTreeFile loads a tree file and reports whether it conforms to reg.
// The loaded tree is returned for callers that need it after validation.
func ValidateTreeFile(reg *types.Registry, path string) (bool, *ast.Node, error) {
	return ValidateTreeFileWith(loader.New(), reg, path)
}

// ValidateTreeFileWith is ValidateTreeFile with a configured loader.
func ValidateTreeFileWith(l *loader.Loader, reg *types.Registry, path string) (bool, *ast.Node, error) {
	node, err := l.LoadTree(path)
	if err != nil {
		return false, nil, fmt.Errorf("failed to load tree %s: %w", path, err)
	}
	ok, err := reg.IsTypeValid(node)
	if err != nil {
		return false, node, fmt.Errorf("failed to validate tree %s: %w", path, err)
	}
	return ok, node, nil
}
