package config

import (
	"fmt"
	"strings"
)

// dedupeStringSlice trims entries and removes blanks and duplicates while keeping
// the first occurrence order. A warning is recorded when anything changed.
func dedupeStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	changed := false
	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			changed = true
			continue
		}
		if _, ok := seen[t]; ok {
			changed = true
			continue
		}
		if t != v {
			changed = true
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if changed {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s list (%d -> %d entries)", label, len(in), len(out)))
	}
	return out
}

// trimStringSlice removes empty entries (after trimming whitespace) from a string slice.
// Does not dedupe or sort. Use this for order-sensitive configuration fields.
func trimStringSlice(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if tp := strings.TrimSpace(p); tp != "" {
			out = append(out, tp)
		}
	}
	return out
}
