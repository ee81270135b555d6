package ruleset

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/eizengan/reforge/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// Single string value
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		// Array of strings
		arr := []string{}

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// --- KeyList YAML methods ---

// UnmarshalYAML accepts a single scalar key or an array of scalar keys.
func (k *KeyList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v any

		if err := node.Decode(&v); err != nil {
			return err
		}

		*k = KeyList{v}

		return nil

	case yaml.SequenceNode:
		keys := make(KeyList, 0, len(node.Content))

		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: keys must be scalars, got %v", item.Line, kindName(item.Kind))
			}

			var v any

			if err := item.Decode(&v); err != nil {
				return err
			}

			keys = append(keys, v)
		}

		*k = keys

		return nil

	default:
		return fmt.Errorf("line %d: expected key or array of keys, got %v", node.Line, kindName(node.Kind))
	}
}

// IsEmpty returns true if the list is empty.
func (k KeyList) IsEmpty() bool {
	return common.IsEmpty(k)
}

// --- PathRef YAML methods ---

// UnmarshalYAML accepts a text path or an array of names and indices.
func (p *PathRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v any

		if err := node.Decode(&v); err != nil {
			return err
		}

		switch v := v.(type) {
		case nil:
			*p = PathRef{}
		case string:
			*p = PathRef{Text: v}
		default:
			// a bare index such as `path: 0`
			*p = PathRef{Steps: []any{v}}
		}

		return nil

	case yaml.SequenceNode:
		steps := []any{}

		if err := node.Decode(&steps); err != nil {
			return err
		}

		*p = PathRef{Steps: steps}

		return nil

	default:
		return fmt.Errorf("line %d: expected path string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// --- FromDef YAML methods ---

var (
	shapeKeys = []string{shapeFunc, shapeAttribute, shapeKey, shapeValue}
	fromKeys  = append(slices.Clone(shapeKeys), "propagate_nil", "input")
)

// UnmarshalYAML accepts a bare function name or a mapping of from keys.
// Unknown keys are rejected.
func (f *FromDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string

		if err := node.Decode(&name); err != nil {
			return err
		}

		*f = FromDef{Func: name, shapes: []string{shapeFunc}}

		return nil

	case yaml.MappingNode:
		shapes := []string{}

		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if !slices.Contains(fromKeys, key) {
				return fmt.Errorf("line %d: unknown from key %q", node.Content[i].Line, key)
			}

			if slices.Contains(shapeKeys, key) {
				shapes = append(shapes, key)
			}
		}

		// plain has the fields of FromDef without its methods
		type plain FromDef

		var raw plain

		if err := node.Decode(&raw); err != nil {
			return err
		}

		*f = FromDef(raw)
		f.shapes = shapes

		return nil

	default:
		return fmt.Errorf("line %d: expected function name or mapping, got %v", node.Line, kindName(node.Kind))
	}
}

// --- MemoizeDef YAML methods ---

// UnmarshalYAML accepts true, false, first or {by: <from>}.
func (m *MemoizeDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*m = MemoizeDef{}

			return nil
		case "!!bool":
			var b bool

			if err := node.Decode(&b); err != nil {
				return err
			}

			*m = MemoizeDef{Enabled: b}

			return nil
		case "!!str":
			if node.Value == "first" {
				*m = MemoizeDef{First: true}

				return nil
			}
		}

	case yaml.MappingNode:
		if len(node.Content) == 2 && node.Content[0].Value == "by" {
			var by FromDef

			if err := node.Content[1].Decode(&by); err != nil {
				return err
			}

			*m = MemoizeDef{By: &by}

			return nil
		}
	}

	return fmt.Errorf("line %d: memoize must be true, false, first or {by: ...}", node.Line)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
