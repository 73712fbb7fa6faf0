package loader

import (
	"fmt"
	"os"

	"mercator-hq/arbor/pkg/grammar/ast"
	grammarErrors "mercator-hq/arbor/pkg/grammar/errors"
)

const (
	defaultMaxFileSize = 10 * 1024 * 1024 // 10MB
	defaultMaxDepth    = 256
)

// Loader parses grammar and tree files.
// A Loader holds only configuration and is safe for concurrent use.
type Loader struct {
	maxFileSize int64 // Maximum file size in bytes
	maxDepth    int   // Maximum nesting of tree nodes and type expressions
}

// New creates a loader with default limits.
func New() *Loader {
	return &Loader{
		maxFileSize: defaultMaxFileSize,
		maxDepth:    defaultMaxDepth,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (l *Loader) WithMaxFileSize(size int64) *Loader {
	l.maxFileSize = size
	return l
}

// WithMaxDepth sets the maximum nesting depth.
func (l *Loader) WithMaxDepth(depth int) *Loader {
	l.maxDepth = depth
	return l
}

// LoadGrammar parses the grammar file at path.
func (l *Loader) LoadGrammar(path string) (*ast.Grammar, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	return l.ParseGrammar(data, path)
}

// ParseGrammar parses grammar YAML from memory. sourcePath is used in locations only.
func (l *Loader) ParseGrammar(data []byte, sourcePath string) (*ast.Grammar, error) {
	root, err := l.parseDocument(data, sourcePath)
	if err != nil {
		return nil, err
	}
	return newBuilder(sourcePath, l.maxDepth).buildGrammar(root)
}

// LoadTree parses the tree file at path.
func (l *Loader) LoadTree(path string) (*ast.Node, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	return l.ParseTree(data, path)
}

// ParseTree parses tree YAML from memory.
func (l *Loader) ParseTree(data []byte, sourcePath string) (*ast.Node, error) {
	root, err := l.parseDocument(data, sourcePath)
	if err != nil {
		return nil, err
	}
	return newBuilder(sourcePath, l.maxDepth).buildTree(root)
}

// ParseType parses a single type expression, e.g. "lang.Statement" or
// "{type: primitive.List, parameters: [lang.Statement]}".
func (l *Loader) ParseType(data []byte, sourcePath string) (ast.Type, error) {
	root, err := l.parseDocument(data, sourcePath)
	if err != nil {
		return nil, err
	}
	return newBuilder(sourcePath, l.maxDepth).buildTypeExpr(root)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &grammarErrors.Error{
			Kind:     grammarErrors.KindIO,
			Message:  fmt.Sprintf("failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if fileInfo.Size() > l.maxFileSize {
		return nil, &grammarErrors.Error{
			Kind:     grammarErrors.KindIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), l.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &grammarErrors.Error{
			Kind:     grammarErrors.KindIO,
			Message:  fmt.Sprintf("failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}
	return data, nil
}

func (l *Loader) parseDocument(data []byte, sourcePath string) (*yamlNode, error) {
	if int64(len(data)) > l.maxFileSize {
		return nil, &grammarErrors.Error{
			Kind:     grammarErrors.KindIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), l.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	root, err := parseYAML(data)
	if err != nil {
		return nil, &grammarErrors.Error{
			Kind:       grammarErrors.KindSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   ast.Location{File: sourcePath, Line: 1, Column: 1},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}
	if root == nil {
		return nil, &grammarErrors.Error{
			Kind:     grammarErrors.KindStructural,
			Message:  "document is empty",
			Location: ast.Location{File: sourcePath, Line: 1, Column: 1},
		}
	}
	return root, nil
}
