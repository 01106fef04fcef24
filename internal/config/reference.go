package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Reference names a preset or plugin together with its options block. In YAML it
// may be written as a bare name, as a two-element [name, {options}] sequence, or
// as a {name, options} mapping.
type Reference struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

type referenceMapping struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts the three supported spellings.
func (r *Reference) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Name)
	case yaml.SequenceNode:
		if len(node.Content) == 0 || len(node.Content) > 2 {
			return fmt.Errorf("line %d: expected [name] or [name, options], got %d elements", node.Line, len(node.Content))
		}
		if node.Content[0].Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: reference name must be a string", node.Line)
		}
		if err := node.Content[0].Decode(&r.Name); err != nil {
			return err
		}
		if len(node.Content) == 2 {
			opts := node.Content[1]
			if opts.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: options for %q must be a mapping", opts.Line, r.Name)
			}
			return opts.Decode(&r.Options)
		}
		return nil
	case yaml.MappingNode:
		var m referenceMapping
		if err := node.Decode(&m); err != nil {
			return err
		}
		r.Name, r.Options = m.Name, m.Options
		return nil
	default:
		return fmt.Errorf("line %d: unsupported reference form", node.Line)
	}
}

// MarshalYAML writes a bare name when there are no options, otherwise the mapping form.
func (r Reference) MarshalYAML() (any, error) {
	if len(r.Options) == 0 {
		return r.Name, nil
	}
	return referenceMapping(r), nil
}
