package resolve

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

func (s *resolution) resolvePaths() error {
	for _, a := range s.assets {
		if err := s.resolveAsset(a); err != nil {
			return err
		}
	}
	return nil
}

func (s *resolution) resolveAsset(a *Asset) error {
	ref := strings.TrimSpace(a.Ref)
	if isExternalRef(ref) {
		a.External = true
		a.URL = ref
		return nil
	}
	if a.kind == assetStatic {
		return s.resolveStatic(a, ref)
	}
	return s.resolveSiteFile(a, ref)
}

// resolveStatic looks a public asset up in each static directory in order.
func (s *resolution) resolveStatic(a *Asset, ref string) error {
	rel := strings.TrimLeft(strings.ReplaceAll(ref, "\\", "/"), "/")
	if err := relativePathError(rel); err != nil {
		return &UnresolvedPathError{Field: a.Field, Path: ref, Reason: err.Error()}
	}
	rel = cleanRel(rel)
	a.URL = joinRoute(s.out.BaseURL, "/"+rel)

	candidates := make([]string, 0, len(s.out.StaticDirectories))
	for _, dir := range s.out.StaticDirectories {
		candidates = append(candidates, path.Join(dir, rel))
	}
	if s.opts.FS == nil {
		s.setPath(a, candidates[0])
		return nil
	}
	for _, c := range candidates {
		if info, err := fs.Stat(s.opts.FS, c); err == nil && !info.IsDir() {
			s.setPath(a, c)
			a.Verified = true
			return nil
		}
	}
	return &UnresolvedPathError{Field: a.Field, Path: ref, Searched: candidates}
}

// resolveSiteFile resolves a reference relative to the project root.
func (s *resolution) resolveSiteFile(a *Asset, ref string) error {
	if err := relativePathError(ref); err != nil {
		return &UnresolvedPathError{Field: a.Field, Path: ref, Reason: err.Error()}
	}
	p := cleanRel(ref)
	s.setPath(a, p)
	if s.opts.FS == nil {
		return nil
	}

	info, err := fs.Stat(s.opts.FS, p)
	if err != nil {
		if a.kind == assetOptionalDir && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &UnresolvedPathError{Field: a.Field, Path: ref, Reason: statReason(err)}
	}
	switch a.kind {
	case assetSiteFile:
		if info.IsDir() {
			return &UnresolvedPathError{Field: a.Field, Path: ref, Reason: "is a directory, expected a file"}
		}
	case assetSiteDir, assetOptionalDir:
		if !info.IsDir() {
			return &UnresolvedPathError{Field: a.Field, Path: ref, Reason: "is a file, expected a directory"}
		}
	}
	a.Verified = true
	return nil
}

func (s *resolution) setPath(a *Asset, p string) {
	a.Path = p
	if s.opts.ProjectRoot != "" {
		a.AbsPath = filepath.Join(s.opts.ProjectRoot, filepath.FromSlash(p))
	}
}

func statReason(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "file does not exist"
	}
	return err.Error()
}

// cleanRel normalizes a relative reference to a clean slash-separated path
// suitable for fs.FS lookups.
func cleanRel(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}
