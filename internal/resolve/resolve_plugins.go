package resolve

import (
	"fmt"
	"strings"
)

func (s *resolution) resolvePlugins() error {
	s.out.Plugins = []ResolvedPlugin{}
	seen := map[string]int{}
	firstIndexing := -1
	for i, ref := range s.raw.Plugins {
		field := fieldIndex("plugins", i)
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			return &MissingFieldError{Field: field + ".name"}
		}

		def, known := s.opts.Plugins.Lookup(name)
		rp := ResolvedPlugin{Name: name, Role: RoleOther, Known: known}
		if known {
			rp.Name, rp.Role = def.Name, def.Role
		}

		// Plugins may be instantiated several times with distinct ids.
		key := rp.Name
		if id, ok := ref.Options["id"].(string); ok && id != "" {
			key += "#" + id
		}
		if prev, dup := seen[key]; dup {
			return &InvalidFieldError{Field: field, Value: name, Reason: fmt.Sprintf("duplicate of plugins[%d]", prev)}
		}
		seen[key] = i

		switch rp.Role {
		case RoleIndexing:
			if firstIndexing < 0 {
				firstIndexing = i
			}
		case RoleContent:
			if firstIndexing >= 0 {
				return &InvalidFieldError{
					Field:  fieldIndex("plugins", firstIndexing),
					Value:  s.raw.Plugins[firstIndexing].Name,
					Reason: fmt.Sprintf("indexing plugins must be listed after content plugin %q (%s)", rp.Name, field),
				}
			}
		}

		rp.Options = deepCopyMap(ref.Options)
		if known {
			if opt, err := def.Schema.Validate(rp.Options); err != nil {
				return &InvalidPresetOptionError{Preset: def.Name, Option: opt, Reason: err.Error()}
			}
			if len(def.Defaults) > 0 && rp.Options == nil {
				rp.Options = map[string]any{}
			}
			for k, v := range def.Defaults {
				if _, set := rp.Options[k]; !set {
					rp.Options[k] = deepCopyValue(v)
				}
			}
			if def.Name == PluginSearchLocal {
				if err := s.reconcileSearch(def.Name, ref.Options, rp.Options); err != nil {
					return err
				}
			}
		}
		if strings.HasPrefix(name, "./") {
			rp.Module = s.newAsset(field, name, assetSiteEntry)
		}
		s.out.Plugins = append(s.out.Plugins, rp)
	}
	return nil
}

// reconcileSearch aligns the local search plugin with the content sections
// that actually exist. explicit holds the options as written.
func (s *resolution) reconcileSearch(name string, explicit, opts map[string]any) error {
	docs := s.out.Docs()
	docsOn := docs != nil || s.hasPlugin(PluginContentDocs)
	blogOn := s.out.BlogEnabled() || s.hasPlugin(PluginContentBlog)

	for _, c := range []struct {
		key string
		on  bool
	}{{"indexDocs", docsOn}, {"indexBlog", blogOn}} {
		v, set := explicit[c.key]
		if !set && !c.on {
			opts[c.key] = false
			continue
		}
		if b, _ := v.(bool); b && !c.on {
			section := strings.TrimPrefix(c.key, "index")
			return &InvalidPresetOptionError{
				Preset: name,
				Option: c.key,
				Reason: fmt.Sprintf("%s is enabled but no %s content is configured", c.key, strings.ToLower(section)),
			}
		}
	}
	if _, set := explicit["docsRouteBasePath"]; !set && docs != nil {
		opts["docsRouteBasePath"] = searchRoute(docs.RouteBasePath)
	}
	if _, set := explicit["blogRouteBasePath"]; !set {
		for _, p := range s.out.Presets {
			if p.Blog != nil {
				opts["blogRouteBasePath"] = searchRoute(p.Blog.RouteBasePath)
				break
			}
		}
	}
	return nil
}

func (s *resolution) hasPlugin(canonical string) bool {
	for _, ref := range s.raw.Plugins {
		if def, ok := s.opts.Plugins.Lookup(ref.Name); ok && def.Name == canonical {
			return true
		}
	}
	return false
}

// searchRoute converts a route base path to the search plugin's spelling.
func searchRoute(route string) string {
	if r := strings.Trim(route, "/"); r != "" {
		return r
	}
	return "/"
}
