package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError is implemented by every error Resolve returns. All of them are
// terminal: the configuration must be edited before resolution can succeed.
type ConfigError interface {
	error
	// Kind is a stable snake_case identifier used as a metrics label.
	Kind() string
}

// IsConfigError reports whether err (or anything it wraps) is a resolver error.
func IsConfigError(err error) bool {
	var ce ConfigError
	return errors.As(err, &ce)
}

// ErrorKind returns the Kind of the resolver error in err's chain, or
// "unknown" when there is none.
func ErrorKind(err error) string {
	var ce ConfigError
	if errors.As(err, &ce) {
		return ce.Kind()
	}
	return "unknown"
}

// MissingFieldError reports an absent or blank required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

func (e *MissingFieldError) Kind() string { return "missing_field" }

// LocaleMismatchError reports a default locale that is not among the configured locales.
type LocaleMismatchError struct {
	DefaultLocale string
	Locales       []string
}

func (e *LocaleMismatchError) Error() string {
	return fmt.Sprintf("i18n.defaultLocale %q is not one of i18n.locales [%s]",
		e.DefaultLocale, strings.Join(e.Locales, ", "))
}

func (e *LocaleMismatchError) Kind() string { return "locale_mismatch" }

// UnknownPresetError reports a preset name the registry cannot resolve.
type UnknownPresetError struct {
	Name  string
	Index int
	Known []string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("presets[%d]: unknown preset %q (known presets: %s)",
		e.Index, e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownPresetError) Kind() string { return "unknown_preset" }

// InvalidPresetOptionError reports an options block that does not match the
// owner's schema. Owner is a preset name, a plugin name, or "theme" for
// themeConfig. Label is set for navbar and footer items.
type InvalidPresetOptionError struct {
	Preset string
	Option string
	Label  string
	Reason string
}

func (e *InvalidPresetOptionError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("invalid %s option %s (label %q): %s", e.Preset, e.Option, e.Label, e.Reason)
	}
	return fmt.Sprintf("invalid %s option %s: %s", e.Preset, e.Option, e.Reason)
}

func (e *InvalidPresetOptionError) Kind() string { return "invalid_preset_option" }

// UnresolvedPathError reports a referenced file that cannot be found under the
// project root (or, for static assets, under any static directory).
type UnresolvedPathError struct {
	Field    string
	Path     string
	Searched []string
	Reason   string
}

func (e *UnresolvedPathError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "file does not exist"
	}
	if len(e.Searched) > 0 {
		return fmt.Sprintf("%s: %q: %s (searched %s)", e.Field, e.Path, reason, strings.Join(e.Searched, ", "))
	}
	return fmt.Sprintf("%s: %q: %s", e.Field, e.Path, reason)
}

func (e *UnresolvedPathError) Kind() string { return "unresolved_path" }

// InvalidFieldError reports a present but malformed site-level field.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidFieldError) Kind() string { return "invalid_field" }
