package resolve

import (
	"sort"
	"strings"
)

// PluginRole classifies a plugin by when it must run relative to others.
type PluginRole string

const (
	// RoleContent plugins produce pages.
	RoleContent PluginRole = "content"
	// RoleIndexing plugins consume the final page set (search, sitemap).
	RoleIndexing PluginRole = "indexing"
	RoleOther    PluginRole = "other"
)

// Well-known plugin names.
const (
	PluginContentDocs  = "@docusaurus/plugin-content-docs"
	PluginContentBlog  = "@docusaurus/plugin-content-blog"
	PluginContentPages = "@docusaurus/plugin-content-pages"
	PluginSitemap      = "@docusaurus/plugin-sitemap"
	PluginSearchLocal  = "@easyops-cn/docusaurus-search-local"
)

// PluginDefinition describes a plugin whose options the resolver understands.
type PluginDefinition struct {
	Name    string
	Aliases []string
	Role    PluginRole
	Schema  OptionSchema
	// Defaults fill top-level option keys the author left out.
	Defaults map[string]any
}

// PluginRegistry maps plugin names and aliases to definitions.
type PluginRegistry struct {
	byName map[string]*PluginDefinition
}

// NewPluginRegistry builds a registry from defs.
func NewPluginRegistry(defs ...PluginDefinition) *PluginRegistry {
	r := &PluginRegistry{byName: map[string]*PluginDefinition{}}
	for i := range defs {
		d := defs[i]
		r.byName[d.Name] = &d
		for _, a := range d.Aliases {
			r.byName[a] = &d
		}
	}
	return r
}

// Lookup finds a plugin by name or alias.
func (r *PluginRegistry) Lookup(name string) (*PluginDefinition, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.byName[strings.TrimSpace(name)]
	return d, ok
}

// Names returns the canonical names of all known plugins, sorted.
func (r *PluginRegistry) Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range r.byName {
		if !seen[d.Name] {
			seen[d.Name] = true
			out = append(out, d.Name)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultPlugins returns the registry of well-known plugins.
func DefaultPlugins() *PluginRegistry {
	docs := sectionSchemas[SectionDocs].Fields
	blog := sectionSchemas[SectionBlog].Fields
	pages := sectionSchemas[SectionPages].Fields
	sitemap := sectionSchemas[SectionSitemap].Fields
	withID := func(s OptionSchema) OptionSchema {
		out := OptionSchema{"id": {Kind: KindString}}
		for k, v := range s {
			out[k] = v
		}
		return out
	}
	return NewPluginRegistry(
		PluginDefinition{Name: PluginContentDocs, Role: RoleContent, Schema: withID(docs)},
		PluginDefinition{Name: PluginContentBlog, Role: RoleContent, Schema: withID(blog)},
		PluginDefinition{Name: PluginContentPages, Role: RoleContent, Schema: withID(pages)},
		PluginDefinition{
			Name:     PluginSitemap,
			Role:     RoleIndexing,
			Schema:   sitemap,
			Defaults: map[string]any{"changefreq": "weekly", "priority": 0.5, "filename": "sitemap.xml"},
		},
		PluginDefinition{
			Name: PluginSearchLocal,
			Role: RoleIndexing,
			Schema: OptionSchema{
				"hashed":                           {Kind: KindBool},
				"language":                         {Kind: KindStringOrList},
				"indexDocs":                        {Kind: KindBool},
				"indexBlog":                        {Kind: KindBool},
				"indexPages":                       {Kind: KindBool},
				"docsRouteBasePath":                {Kind: KindStringOrList},
				"blogRouteBasePath":                {Kind: KindStringOrList},
				"highlightSearchTermsOnTargetPage": {Kind: KindBool},
				"searchResultLimits":               {Kind: KindInt, Check: checkPositiveInt},
				"searchResultContextMaxLength":     {Kind: KindInt, Check: checkPositiveInt},
				"explicitSearchResultPath":         {Kind: KindBool},
				"searchBarShortcut":                {Kind: KindBool},
				"searchBarPosition":                {Kind: KindString, Check: checkOneOf("auto", "left", "right")},
			},
			Defaults: map[string]any{
				"hashed":             false,
				"indexDocs":          true,
				"indexBlog":          true,
				"indexPages":         false,
				"searchResultLimits": 8,
			},
		},
	)
}
