// Package normalization maps loosely spelled configuration strings onto typed enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization. Keys are matched
// after trimming and lower-casing, so "Warn", " warn " and "WARN" are equivalent.
type Normalizer[T comparable] struct {
	name         string
	validValues  map[string]T
	defaultValue T
	validKeys    []string
}

// NewNormalizer creates a normalizer for the enum called name. values maps
// every accepted spelling (canonical names and aliases) to its enum value.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))
	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)
	return &Normalizer[T]{
		name:         name,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw to the enum value. Blank input yields the default;
// unknown input yields the default and ok=false.
func (n *Normalizer[T]) Normalize(raw string) (value T, ok bool) {
	cleaned := clean(raw)
	if cleaned == "" {
		return n.defaultValue, true
	}
	if v, exists := n.validValues[cleaned]; exists {
		return v, true
	}
	return n.defaultValue, false
}

// Parse converts raw to the enum value or explains why it is not accepted.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	v, ok := n.Normalize(raw)
	if !ok {
		var zero T
		return zero, fmt.Errorf("invalid %s %q, valid options: %s", n.name, raw, strings.Join(n.validKeys, ", "))
	}
	return v, nil
}

// Contains reports whether value is one of the enum's values.
func (n *Normalizer[T]) Contains(value T) bool {
	for _, v := range n.validValues {
		if v == value {
			return true
		}
	}
	return false
}

// ValidKeys returns all accepted spellings, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.validKeys))
	copy(out, n.validKeys)
	return out
}

// Default returns the value used for blank input.
func (n *Normalizer[T]) Default() T { return n.defaultValue }

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
