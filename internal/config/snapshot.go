package config

import (
	"crypto/sha256"
	"encoding/hex"

	"gopkg.in/yaml.v3"
)

// Snapshot computes a stable hash of the configuration as written by the author.
// The watcher uses it to skip re-resolution when a save did not change content.
// Callers should run NormalizeConfig first so cosmetic edits hash identically.
func (c *SiteConfig) Snapshot() string {
	if c == nil {
		return ""
	}
	// yaml.v3 emits struct fields in declaration order and sorts map keys.
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
