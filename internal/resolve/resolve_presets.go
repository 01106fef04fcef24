package resolve

import (
	"fmt"
	"strings"

	"github.com/biginformatics/docsite/internal/editlink"
)

func (s *resolution) resolvePresets() error {
	s.out.Presets = []ResolvedPreset{}
	seen := map[string]int{}
	for i, ref := range s.raw.Presets {
		field := fieldIndex("presets", i)
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			return &MissingFieldError{Field: field + ".name"}
		}
		def, ok := s.opts.Presets.Lookup(name)
		if !ok {
			return &UnknownPresetError{Name: name, Index: i, Known: s.opts.Presets.Names()}
		}
		if prev, dup := seen[def.Name]; dup {
			return &InvalidFieldError{Field: field, Value: name, Reason: fmt.Sprintf("duplicate of presets[%d]", prev)}
		}
		seen[def.Name] = i

		if opt, err := def.Schema().Validate(ref.Options); err != nil {
			return &InvalidPresetOptionError{Preset: def.Name, Option: opt, Reason: err.Error()}
		}
		rp, err := s.buildPreset(field, def, ref.Options)
		if err != nil {
			return err
		}
		s.out.Presets = append(s.out.Presets, rp)
	}
	return nil
}

// section reports whether a section is enabled and returns its options. An
// absent section is enabled with defaults.
func section(options map[string]any, sec Section) (bool, map[string]any) {
	v, ok := options[string(sec)]
	if !ok || v == nil {
		return true, nil
	}
	if b, isBool := v.(bool); isBool {
		return b, nil
	}
	m, _ := v.(map[string]any)
	return true, m
}

func (s *resolution) buildPreset(field string, def *PresetDefinition, options map[string]any) (ResolvedPreset, error) {
	rp := ResolvedPreset{Name: def.Name, Theme: PresetTheme{CustomCSS: []*Asset{}}}
	decodeErr := func(sec Section, err error) error {
		return &InvalidPresetOptionError{Preset: def.Name, Option: string(sec), Reason: err.Error()}
	}

	if def.has(SectionDocs) {
		if on, m := section(options, SectionDocs); on {
			var o DocsOptions
			if err := decodeOptions(m, &o); err != nil {
				return rp, decodeErr(SectionDocs, err)
			}
			o = mergeDocs(defaultDocs(), o)
			o.Path = cleanRel(o.Path)
			o.RouteBasePath = routePath(o.RouteBasePath)
			if o.EditURL != "" {
				u, err := editlink.Canonical(o.EditURL)
				if err != nil {
					return rp, &InvalidPresetOptionError{Preset: def.Name, Option: "docs.editUrl", Reason: err.Error()}
				}
				o.EditURL = u
			}
			if o.SidebarPath != "" {
				o.SidebarPath = cleanRel(o.SidebarPath)
			}
			docs := &ResolvedDocs{DocsOptions: o}
			docs.Dir = s.newAsset(field+".docs.path", o.Path, assetSiteDir)
			if o.SidebarPath != "" {
				docs.Sidebar = s.newAsset(field+".docs.sidebarPath", o.SidebarPath, assetSiteFile)
			}
			rp.Docs = docs
		}
	}

	if def.has(SectionBlog) {
		if on, m := section(options, SectionBlog); on {
			var o BlogOptions
			if err := decodeOptions(m, &o); err != nil {
				return rp, decodeErr(SectionBlog, err)
			}
			o = mergeBlog(defaultBlog(), o)
			o.Path = cleanRel(o.Path)
			o.RouteBasePath = routePath(o.RouteBasePath)
			if o.EditURL != "" {
				u, err := editlink.Canonical(o.EditURL)
				if err != nil {
					return rp, &InvalidPresetOptionError{Preset: def.Name, Option: "blog.editUrl", Reason: err.Error()}
				}
				o.EditURL = u
			}
			rp.Blog = &ResolvedBlog{BlogOptions: o, Dir: s.newAsset(field+".blog.path", o.Path, assetOptionalDir)}
		}
	}

	if def.has(SectionPages) {
		if on, m := section(options, SectionPages); on {
			var o PagesOptions
			if err := decodeOptions(m, &o); err != nil {
				return rp, decodeErr(SectionPages, err)
			}
			o = mergePages(defaultPages(), o)
			o.Path = cleanRel(o.Path)
			o.RouteBasePath = routePath(o.RouteBasePath)
			rp.Pages = &ResolvedPages{PagesOptions: o, Dir: s.newAsset(field+".pages.path", o.Path, assetOptionalDir)}
		}
	}

	if def.has(SectionTheme) {
		if _, m := section(options, SectionTheme); m != nil {
			var o themeOptions
			if err := decodeOptions(m, &o); err != nil {
				return rp, decodeErr(SectionTheme, err)
			}
			for j, css := range o.CustomCSS {
				rp.Theme.CustomCSS = append(rp.Theme.CustomCSS,
					s.newAsset(fieldIndex(field+".theme.customCss", j), cleanRel(css), assetSiteFile))
			}
		}
	}

	if def.has(SectionSitemap) {
		if on, m := section(options, SectionSitemap); on {
			var o SitemapOptions
			if err := decodeOptions(m, &o); err != nil {
				return rp, decodeErr(SectionSitemap, err)
			}
			o = mergeSitemap(defaultSitemap(), o)
			rp.Sitemap = &o
		}
	}
	return rp, nil
}
