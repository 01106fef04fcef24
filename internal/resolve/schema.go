package resolve

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// OptionKind is the accepted shape of an option value.
type OptionKind int

const (
	KindString OptionKind = iota
	KindBool
	KindInt
	KindNumber
	KindStringList
	// KindStringOrList accepts a single string or a list of strings.
	KindStringOrList
	// KindObject is a nested options block validated against Fields.
	KindObject
	// KindSection is a nested block that may also be a boolean; false disables it.
	KindSection
	// KindAny is passed through unchecked.
	KindAny
)

// Option describes one key of an options block.
type Option struct {
	Kind   OptionKind
	Fields OptionSchema
	// Check runs after the shape check and may reject the value.
	Check func(v any) error
}

// OptionSchema maps option keys to their descriptions.
type OptionSchema map[string]Option

// Validate checks m against the schema and returns the dotted path of the first
// offending option. Keys are visited in sorted order so the reported option is
// deterministic.
func (s OptionSchema) Validate(m map[string]any) (string, error) {
	return s.validate("", m)
}

func (s OptionSchema) validate(prefix string, m map[string]any) (string, error) {
	for _, k := range sortedKeys(m) {
		path := joinOption(prefix, k)
		opt, ok := s[k]
		if !ok {
			return path, fmt.Errorf("unknown option (known options: %s)", strings.Join(sortedKeys(s), ", "))
		}
		if at, err := opt.validate(path, m[k]); err != nil {
			return at, err
		}
	}
	return "", nil
}

func (o Option) validate(path string, v any) (string, error) {
	switch o.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return path, shapeError("a string", v)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return path, shapeError("a boolean", v)
		}
	case KindInt:
		if _, ok := asInt(v); !ok {
			return path, shapeError("an integer", v)
		}
	case KindNumber:
		if _, ok := asFloat(v); !ok {
			return path, shapeError("a number", v)
		}
	case KindStringList:
		if _, ok := asStringList(v); !ok {
			return path, shapeError("a list of strings", v)
		}
	case KindStringOrList:
		if _, ok := v.(string); !ok {
			if _, ok := asStringList(v); !ok {
				return path, shapeError("a string or a list of strings", v)
			}
		}
	case KindObject:
		m, ok := v.(map[string]any)
		if !ok {
			return path, shapeError("an object", v)
		}
		if at, err := o.Fields.validate(path, m); err != nil {
			return at, err
		}
	case KindSection:
		if _, ok := v.(bool); ok {
			return "", nil
		}
		m, ok := v.(map[string]any)
		if !ok {
			return path, shapeError("an object or false", v)
		}
		if at, err := o.Fields.validate(path, m); err != nil {
			return at, err
		}
	case KindAny:
	}
	if o.Check != nil {
		if err := o.Check(v); err != nil {
			return path, err
		}
	}
	return "", nil
}

// StringList decodes from either a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// decodeOptions converts a validated options map into a typed struct.
func decodeOptions(m map[string]any, out any) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func shapeError(want string, v any) error {
	return fmt.Errorf("must be %s, got %s", want, describe(v))
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", x)
	case bool:
		return fmt.Sprintf("boolean %t", x)
	case int, int64, uint64, float64:
		return fmt.Sprintf("number %v", x)
	case []any, []string:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x == math.Trunc(x) {
			return int(x), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int, int64, uint64:
		i, _ := asInt(x)
		return float64(i), true
	}
	return 0, false
}

func asStringList(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinOption(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
