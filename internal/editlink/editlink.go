// Package editlink builds "edit this page" URLs for documentation sources hosted
// on a git forge.
package editlink

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ForgeType identifies a git hosting flavour.
type ForgeType string

const (
	ForgeGitHub  ForgeType = "github"
	ForgeGitLab  ForgeType = "gitlab"
	ForgeForgejo ForgeType = "forgejo"
	ForgeUnknown ForgeType = ""
)

// DetectForge guesses the forge from a web host name.
func DetectForge(host string) ForgeType {
	host = strings.ToLower(host)
	switch {
	case host == "github.com" || strings.HasPrefix(host, "github."):
		return ForgeGitHub
	case host == "gitlab.com" || strings.HasPrefix(host, "gitlab."):
		return ForgeGitLab
	case host == "codeberg.org" || strings.HasPrefix(host, "forgejo.") || strings.HasPrefix(host, "gitea."):
		return ForgeForgejo
	default:
		return ForgeUnknown
	}
}

// EditBase returns the edit URL prefix for files on branch of repository
// fullName ("org/repo"), ending in a slash. It returns "" when the forge is
// unknown or an input is missing.
func EditBase(forge ForgeType, webBase, fullName, branch string) string {
	if webBase == "" || fullName == "" || branch == "" {
		return ""
	}
	webBase = strings.TrimSuffix(webBase, "/")
	switch forge {
	case ForgeGitHub:
		return fmt.Sprintf("%s/%s/edit/%s/", webBase, fullName, branch)
	case ForgeGitLab:
		return fmt.Sprintf("%s/%s/-/edit/%s/", webBase, fullName, branch)
	case ForgeForgejo:
		return fmt.Sprintf("%s/%s/_edit/%s/", webBase, fullName, branch)
	default:
		return ""
	}
}

// Canonical validates an edit URL prefix and returns it with exactly one
// trailing slash.
func Canonical(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("must be an absolute http(s) URL")
	}
	if u.Host == "" {
		return "", fmt.Errorf("must include a host")
	}
	return strings.TrimRight(u.String(), "/") + "/", nil
}

// Join appends the slash-separated source path rel to the edit prefix base.
func Join(base, rel string) string {
	if base == "" {
		return ""
	}
	rel = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, "\\", "/")), "/")
	if rel == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + rel
}
