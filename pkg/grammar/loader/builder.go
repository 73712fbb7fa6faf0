package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mercator-hq/arbor/pkg/grammar/ast"
	grammarErrors "mercator-hq/arbor/pkg/grammar/errors"
)

// builder constructs grammar values from YAML nodes.
// Structural problems are accumulated so a single load reports all of them.
type builder struct {
	sourcePath string
	maxDepth   int
	errors     *grammarErrors.ErrorList

	// Declared union and type keys in document order.
	unionKeys []*yaml.Node
	typeKeys  []*yaml.Node
}

func newBuilder(sourcePath string, maxDepth int) *builder {
	return &builder{
		sourcePath: sourcePath,
		maxDepth:   maxDepth,
		errors:     grammarErrors.NewErrorList(),
	}
}

func (b *builder) location(n *yaml.Node) ast.Location {
	if n == nil {
		return ast.Location{File: b.sourcePath}
	}
	return ast.Location{File: b.sourcePath, Line: n.Line, Column: n.Column}
}

func (b *builder) addError(n *yaml.Node, format string, args ...any) {
	b.errors.AddError(grammarErrors.KindStructural, fmt.Sprintf(format, args...), b.location(n))
}

// buildGrammar transforms a grammar document into an ast.Grammar.
func (b *builder) buildGrammar(root *yaml.Node) (*ast.Grammar, error) {
	g := &ast.Grammar{
		Unions:     make(map[string][]string),
		Types:      make(map[string]*ast.Structured),
		SourceFile: b.sourcePath,
	}

	if root.Kind != yaml.MappingNode {
		b.addError(root, "grammar must be a mapping, got %s", kindName(root))
		return nil, b.errors
	}

	for _, pair := range mappingPairs(root) {
		switch pair.key.Value {
		case "name":
			if !isString(pair.value) || pair.value.Value == "" {
				b.addError(pair.value, "grammar name must be a non-empty string")
				continue
			}
			g.Name = pair.value.Value
		case "unions":
			b.buildUnions(g, pair.value)
		case "types":
			b.buildTypes(g, pair.value)
		default:
			b.addError(pair.key, "unknown grammar key %q", pair.key.Value)
		}
	}

	if g.Name != "" {
		b.checkQualifiedKeys(g.Name, "union", b.unionKeys)
		b.checkQualifiedKeys(g.Name, "type", b.typeKeys)
	}

	if g.Name == "" && !b.errors.HasErrors() {
		b.errors.Add(&grammarErrors.Error{
			Kind:       grammarErrors.KindStructural,
			Message:    "grammar has no name",
			Location:   b.location(root),
			Suggestion: "Add a top-level 'name' key; it becomes the namespace of bare type names",
		})
	}

	if b.errors.HasErrors() {
		return nil, b.errors
	}
	return g, nil
}

func (b *builder) buildUnions(g *ast.Grammar, n *yaml.Node) {
	if isNull(n) {
		return
	}
	if n.Kind != yaml.MappingNode {
		b.addError(n, "unions must be a mapping, got %s", kindName(n))
		return
	}

	for _, pair := range mappingPairs(n) {
		union := pair.key.Value
		if _, dup := g.Unions[union]; dup {
			b.addError(pair.key, "union %q declared twice", union)
			continue
		}
		b.unionKeys = append(b.unionKeys, pair.key)
		if pair.value.Kind != yaml.SequenceNode {
			b.addError(pair.value, "members of union %q must be a sequence, got %s", union, kindName(pair.value))
			continue
		}

		members := make([]string, 0, len(pair.value.Content))
		for _, item := range pair.value.Content {
			item = resolveAlias(item)
			if !isString(item) || item.Value == "" {
				b.addError(item, "member of union %q must be a type name", union)
				continue
			}
			members = append(members, item.Value)
		}
		g.Unions[union] = members
	}
}

// checkQualifiedKeys reports keys that differ only in whether they spell out the
// grammar's own namespace, such as "Stmt" and "g.Stmt".
func (b *builder) checkQualifiedKeys(namespace, what string, keys []*yaml.Node) {
	first := make(map[string]*yaml.Node, len(keys))
	for _, key := range keys {
		qualified := ast.Qualify(namespace, key.Value)
		if prev, dup := first[qualified]; dup {
			b.errors.Add(&grammarErrors.Error{
				Kind:       grammarErrors.KindStructural,
				Message:    fmt.Sprintf("%s %q declared twice (as %q and %q)", what, qualified, prev.Value, key.Value),
				Location:   b.location(key),
				Suggestion: "Declare each name once, either bare or qualified",
			})
			continue
		}
		first[qualified] = key
	}
}

func (b *builder) buildTypes(g *ast.Grammar, n *yaml.Node) {
	if isNull(n) {
		return
	}
	if n.Kind != yaml.MappingNode {
		b.addError(n, "types must be a mapping, got %s", kindName(n))
		return
	}

	for _, pair := range mappingPairs(n) {
		name := pair.key.Value
		if _, dup := g.Types[name]; dup {
			b.addError(pair.key, "type %q declared twice", name)
			continue
		}
		b.typeKeys = append(b.typeKeys, pair.key)

		def, ok := b.buildDefinition(pair.value)
		if !ok {
			continue
		}
		g.Types[name] = def
	}
}

// buildDefinition reads a type definition. A scalar is a head without parameters.
func (b *builder) buildDefinition(n *yaml.Node) (*ast.Structured, bool) {
	if isString(n) {
		if n.Value == "" {
			b.addError(n, "type definition must name a head")
			return nil, false
		}
		return ast.Generic(n.Value), true
	}
	if n.Kind != yaml.MappingNode {
		b.addError(n, "type definition must be a name or a mapping, got %s", kindName(n))
		return nil, false
	}
	return b.buildStructured(n, 0)
}

// buildTypeExpr reads a standalone type expression.
func (b *builder) buildTypeExpr(n *yaml.Node) (ast.Type, error) {
	t, ok := b.buildType(n, 0)
	if !ok || b.errors.HasErrors() {
		return nil, b.errors
	}
	return t, nil
}

func (b *builder) buildType(n *yaml.Node, depth int) (ast.Type, bool) {
	if depth > b.maxDepth {
		b.addError(n, "type expression exceeds maximum depth %d", b.maxDepth)
		return nil, false
	}

	switch {
	case isString(n):
		if n.Value == "" {
			b.addError(n, "type name must not be empty")
			return nil, false
		}
		return ast.Name(n.Value), true
	case n != nil && n.Kind == yaml.MappingNode:
		s, ok := b.buildStructured(n, depth)
		if !ok {
			return nil, false
		}
		return s, true
	}

	b.addError(n, "type must be a name or a mapping, got %s", kindName(n))
	return nil, false
}

func (b *builder) buildStructured(n *yaml.Node, depth int) (*ast.Structured, bool) {
	var head string
	var params *yaml.Node
	ok := true

	for _, pair := range mappingPairs(n) {
		switch pair.key.Value {
		case "type":
			if !isString(pair.value) || pair.value.Value == "" {
				b.addError(pair.value, "structured type needs a 'type' head name")
				ok = false
				continue
			}
			head = pair.value.Value
		case "parameters":
			params = pair.value
		default:
			b.addError(pair.key, "unknown type key %q", pair.key.Value)
			ok = false
		}
	}

	if head == "" {
		if ok {
			b.addError(n, "structured type needs a 'type' head name")
		}
		return nil, false
	}

	switch {
	case isNull(params):
		return ast.Generic(head), ok
	case params.Kind == yaml.SequenceNode:
		positional := make(ast.Positional, 0, len(params.Content))
		for _, item := range params.Content {
			t, good := b.buildType(resolveAlias(item), depth+1)
			if !good {
				ok = false
				continue
			}
			positional = append(positional, t)
		}
		return &ast.Structured{Head: head, Params: positional}, ok
	case params.Kind == yaml.MappingNode:
		fields := make(ast.Fields, len(params.Content)/2)
		for _, pair := range mappingPairs(params) {
			if _, dup := fields[pair.key.Value]; dup {
				b.addError(pair.key, "field %q declared twice", pair.key.Value)
				ok = false
				continue
			}
			t, good := b.buildType(pair.value, depth+1)
			if !good {
				ok = false
				continue
			}
			fields[pair.key.Value] = t
		}
		return ast.Record(head, fields), ok
	}

	b.addError(params, "parameters must be a sequence or a mapping, got %s", kindName(params))
	return nil, false
}
