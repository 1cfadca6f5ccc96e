package definition

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode reads every YAML document from r. A document is either a single
// definition mapping or a sequence of definitions. Empty documents are skipped.
func Decode(r io.Reader) (Set, error) {
	dec := yaml.NewDecoder(r)

	var set Set
	for doc := 0; ; doc++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}

		defs, err := decodeNode(&node)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		set = append(set, defs...)
	}
	return set, nil
}

func decodeNode(node *yaml.Node) (Set, error) {
	content := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		content = node.Content[0]
	}

	switch content.Kind {
	case yaml.MappingNode:
		if err := checkFields(content); err != nil {
			return nil, err
		}
		var d Definition
		if err := content.Decode(&d); err != nil {
			return nil, err
		}
		return Set{d}, nil
	case yaml.SequenceNode:
		for _, item := range content.Content {
			if item.Kind != yaml.MappingNode {
				continue
			}
			if err := checkFields(item); err != nil {
				return nil, err
			}
		}
		var defs Set
		if err := content.Decode(&defs); err != nil {
			return nil, err
		}
		return defs, nil
	case yaml.ScalarNode:
		if content.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("line %d: expected a service definition or a list of definitions", content.Line)
}

var knownFields = map[string]bool{
	"name":         true,
	"path":         true,
	"type":         true,
	"description":  true,
	"dependencies": true,
	"critical":     true,
}

// checkFields rejects keys Definition does not declare. Node.Decode has no
// strict mode, and a misspelled dependencies key would otherwise drop edges.
func checkFields(mapping *yaml.Node) error {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		if !knownFields[key.Value] {
			return fmt.Errorf("line %d: field %s not found in service definition", key.Line, key.Value)
		}
	}
	return nil
}
