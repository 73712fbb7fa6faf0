package loader

import (
	"gopkg.in/yaml.v3"
)

// yamlNode is the parsed document tree. Positions come from the YAML parser.
type yamlNode = yaml.Node

// parseYAML parses a single document and returns its root, or nil when the document is empty.
func parseYAML(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	return resolveAlias(doc.Content[0]), nil
}

// resolveAlias follows *anchor references.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!str"
}

// mappingPair is one key/value entry of a YAML mapping.
type mappingPair struct {
	key   *yaml.Node
	value *yaml.Node
}

// mappingPairs returns the entries of a mapping node in document order.
func mappingPairs(n *yaml.Node) []mappingPair {
	pairs := make([]mappingPair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, mappingPair{
			key:   n.Content[i],
			value: resolveAlias(n.Content[i+1]),
		})
	}
	return pairs
}

// kindName describes a node kind for error messages.
func kindName(n *yaml.Node) string {
	if isNull(n) {
		return "null"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	}
	return "unknown"
}
