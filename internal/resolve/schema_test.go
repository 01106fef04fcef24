package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOptionSchema_Validate(t *testing.T) {
	schema := OptionSchema{
		"name":  {Kind: KindString},
		"count": {Kind: KindInt, Check: checkPositiveInt},
		"ratio": {Kind: KindNumber},
		"flag":  {Kind: KindBool},
		"tags":  {Kind: KindStringList},
		"css":   {Kind: KindStringOrList},
		"any":   {Kind: KindAny},
		"nested": {Kind: KindSection, Fields: OptionSchema{
			"path": {Kind: KindString, Check: func(any) error { return errors.New("always wrong") }},
		}},
	}

	valid := map[string]any{
		"name": "x", "count": 3, "ratio": 0.5, "flag": true,
		"tags": []any{"a", "b"}, "css": "a.css", "any": map[string]any{"k": 1},
		"nested": false,
	}
	at, err := schema.Validate(valid)
	require.NoError(t, err)
	assert.Empty(t, at)

	tests := []struct {
		name string
		in   map[string]any
		at   string
		msg  string
	}{
		{"unknown key", map[string]any{"nmae": "x"}, "nmae", "unknown option"},
		{"wrong type", map[string]any{"name": 1}, "name", "must be a string"},
		{"float for int", map[string]any{"count": 1.5}, "count", "must be an integer"},
		{"check", map[string]any{"count": 0}, "count", "positive"},
		{"list element", map[string]any{"tags": []any{"a", 2}}, "tags", "list of strings"},
		{"section shape", map[string]any{"nested": "yes"}, "nested", "an object or false"},
		{"nested check", map[string]any{"nested": map[string]any{"path": "p"}}, "nested.path", "always wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := schema.Validate(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.at, at)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestOptionSchema_ReportsFirstKeyInSortedOrder(t *testing.T) {
	schema := OptionSchema{"a": {Kind: KindString}, "b": {Kind: KindString}}
	for range 20 {
		at, err := schema.Validate(map[string]any{"b": 1, "a": 1, "z": 1})
		require.Error(t, err)
		assert.Equal(t, "a", at)
	}
}

func TestStringList_UnmarshalYAML(t *testing.T) {
	var v struct {
		One  StringList `yaml:"one"`
		Many StringList `yaml:"many"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("one: a.css\nmany: [b.css, c.css]\n"), &v))
	assert.Equal(t, StringList{"a.css"}, v.One)
	assert.Equal(t, StringList{"b.css", "c.css"}, v.Many)
}
