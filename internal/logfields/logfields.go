package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyConfig       = "config"
	KeyField        = "field"
	KeyPreset       = "preset"
	KeyPlugin       = "plugin"
	KeyLocale       = "locale"
	KeyPath         = "path"
	KeyURL          = "url"
	KeySnapshot     = "snapshot"
	KeyResolutionID = "resolution_id"
	KeyOutcome      = "outcome"
	KeyPolicy       = "policy"
	KeyDurationMS   = "duration_ms"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Config(path string) slog.Attr     { return slog.String(KeyConfig, path) }
func Field(name string) slog.Attr      { return slog.String(KeyField, name) }
func Preset(name string) slog.Attr     { return slog.String(KeyPreset, name) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Locale(tag string) slog.Attr      { return slog.String(KeyLocale, tag) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Snapshot(hash string) slog.Attr   { return slog.String(KeySnapshot, hash) }
func ResolutionID(id string) slog.Attr { return slog.String(KeyResolutionID, id) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Policy(p string) slog.Attr        { return slog.String(KeyPolicy, p) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
