package resolve

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/idna"

	"github.com/biginformatics/docsite/internal/editlink"
)

// Option value checks used by the preset and plugin schemas.

func checkEditURL(v any) error {
	s, _ := v.(string)
	_, err := editlink.Canonical(s)
	return err
}

func checkRoute(v any) error {
	s, _ := v.(string)
	if strings.Contains(s, "://") {
		return errors.New("must be a route path, not a URL")
	}
	if strings.ContainsAny(s, "?#") {
		return errors.New("must not contain a query or fragment")
	}
	return nil
}

func checkRelativePath(v any) error {
	s, _ := v.(string)
	return relativePathError(s)
}

func checkRelativePaths(v any) error {
	if s, ok := v.(string); ok {
		return relativePathError(s)
	}
	list, _ := asStringList(v)
	for i, s := range list {
		if err := relativePathError(s); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

func checkPositiveInt(v any) error {
	if n, _ := asInt(v); n < 1 {
		return errors.New("must be a positive integer")
	}
	return nil
}

func checkNonNegativeInt(v any) error {
	if n, _ := asInt(v); n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func checkUnitInterval(v any) error {
	if f, _ := asFloat(v); f < 0 || f > 1 {
		return errors.New("must be between 0 and 1")
	}
	return nil
}

func checkOneOf(values ...string) func(any) error {
	return func(v any) error {
		s, _ := v.(string)
		for _, allowed := range values {
			if s == allowed {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
}

// relativePathError rejects empty, absolute and root-escaping paths.
func relativePathError(p string) error {
	p = strings.TrimSpace(p)
	switch {
	case p == "":
		return errors.New("must not be empty")
	case strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") || (len(p) > 1 && p[1] == ':'):
		return errors.New("must be relative to the project root")
	case strings.Contains(p, "://"):
		return errors.New("must be a file path, not a URL")
	}
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("must not escape the project root")
	}
	return nil
}

// externalURLError validates an absolute link target. mailto is accepted for
// links; hosts must be valid internationalized domain names.
func externalURLError(raw string, allowMailto bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %v", err)
	}
	switch u.Scheme {
	case "http", "https":
	case "mailto":
		if allowMailto && u.Opaque != "" {
			return nil
		}
		return errors.New("mailto links need an address")
	case "":
		return errors.New("must be an absolute URL with a scheme")
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return hostError(u.Hostname())
}

func hostError(host string) error {
	if host == "" {
		return errors.New("must include a host")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if _, err := idna.Lookup.ToASCII(host); err != nil {
		return fmt.Errorf("invalid host %q: %v", host, err)
	}
	return nil
}

// isExternalRef reports whether a path-like reference is a URL rather than a file.
func isExternalRef(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "//")
}

// routePath canonicalizes a route base path: leading slash, no trailing slash
// except for the root route.
func routePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
