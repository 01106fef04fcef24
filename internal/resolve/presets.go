package resolve

import (
	"sort"
	"strings"
)

// Section is a feature block a preset can configure.
type Section string

const (
	SectionDocs    Section = "docs"
	SectionBlog    Section = "blog"
	SectionPages   Section = "pages"
	SectionTheme   Section = "theme"
	SectionSitemap Section = "sitemap"
)

// ClassicPresetName is the canonical name of the built-in preset.
const ClassicPresetName = "classic"

// PresetDefinition describes a preset the resolver knows how to validate.
type PresetDefinition struct {
	Name     string
	Aliases  []string
	Sections []Section
}

// Schema returns the options schema: one key per section.
func (d *PresetDefinition) Schema() OptionSchema {
	s := OptionSchema{}
	for _, sec := range d.Sections {
		s[string(sec)] = sectionSchemas[sec]
	}
	return s
}

func (d *PresetDefinition) has(sec Section) bool {
	for _, s := range d.Sections {
		if s == sec {
			return true
		}
	}
	return false
}

// PresetRegistry maps preset names and aliases to definitions.
type PresetRegistry struct {
	byName map[string]*PresetDefinition
	names  []string
}

// NewPresetRegistry builds a registry from defs. Later definitions replace
// earlier ones with the same name or alias.
func NewPresetRegistry(defs ...PresetDefinition) *PresetRegistry {
	r := &PresetRegistry{byName: map[string]*PresetDefinition{}}
	for i := range defs {
		d := defs[i]
		r.byName[d.Name] = &d
		for _, a := range d.Aliases {
			r.byName[a] = &d
		}
		r.names = append(r.names, d.Name)
	}
	sort.Strings(r.names)
	return r
}

// DefaultPresets returns a registry holding the classic preset.
func DefaultPresets() *PresetRegistry {
	return NewPresetRegistry(ClassicPreset())
}

// ClassicPreset is the docs + blog + pages + theme + sitemap bundle.
func ClassicPreset() PresetDefinition {
	return PresetDefinition{
		Name:     ClassicPresetName,
		Aliases:  []string{"@docusaurus/preset-classic", "docusaurus-preset-classic"},
		Sections: []Section{SectionDocs, SectionBlog, SectionPages, SectionTheme, SectionSitemap},
	}
}

// Lookup finds a preset by canonical name or alias.
func (r *PresetRegistry) Lookup(name string) (*PresetDefinition, bool) {
	d, ok := r.byName[strings.TrimSpace(name)]
	return d, ok
}

// Names returns the canonical preset names, sorted.
func (r *PresetRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

var sectionSchemas = map[Section]Option{
	SectionDocs: {Kind: KindSection, Fields: OptionSchema{
		"path":                 {Kind: KindString, Check: checkRelativePath},
		"routeBasePath":        {Kind: KindString, Check: checkRoute},
		"sidebarPath":          {Kind: KindString, Check: checkRelativePath},
		"editUrl":              {Kind: KindString, Check: checkEditURL},
		"showLastUpdateAuthor": {Kind: KindBool},
		"showLastUpdateTime":   {Kind: KindBool},
		"include":              {Kind: KindStringList},
		"exclude":              {Kind: KindStringList},
	}},
	SectionBlog: {Kind: KindSection, Fields: OptionSchema{
		"path":             {Kind: KindString, Check: checkRelativePath},
		"routeBasePath":    {Kind: KindString, Check: checkRoute},
		"blogTitle":        {Kind: KindString},
		"blogDescription":  {Kind: KindString},
		"postsPerPage":     {Kind: KindInt, Check: checkPositiveInt},
		"blogSidebarCount": {Kind: KindInt, Check: checkNonNegativeInt},
		"showReadingTime":  {Kind: KindBool},
		"editUrl":          {Kind: KindString, Check: checkEditURL},
	}},
	SectionPages: {Kind: KindSection, Fields: OptionSchema{
		"path":          {Kind: KindString, Check: checkRelativePath},
		"routeBasePath": {Kind: KindString, Check: checkRoute},
		"include":       {Kind: KindStringList},
		"exclude":       {Kind: KindStringList},
	}},
	SectionTheme: {Kind: KindObject, Fields: OptionSchema{
		"customCss": {Kind: KindStringOrList, Check: checkRelativePaths},
	}},
	SectionSitemap: {Kind: KindSection, Fields: OptionSchema{
		"changefreq":     {Kind: KindString, Check: checkOneOf("always", "hourly", "daily", "weekly", "monthly", "yearly", "never")},
		"priority":       {Kind: KindNumber, Check: checkUnitInterval},
		"ignorePatterns": {Kind: KindStringList},
		"filename":       {Kind: KindString},
	}},
}

// DocsOptions configures the docs section.
type DocsOptions struct {
	Path                 string   `yaml:"path" json:"path"`
	RouteBasePath        string   `yaml:"routeBasePath" json:"routeBasePath"`
	SidebarPath          string   `yaml:"sidebarPath" json:"sidebarPath,omitempty"`
	EditURL              string   `yaml:"editUrl" json:"editUrl,omitempty"`
	ShowLastUpdateAuthor bool     `yaml:"showLastUpdateAuthor" json:"showLastUpdateAuthor"`
	ShowLastUpdateTime   bool     `yaml:"showLastUpdateTime" json:"showLastUpdateTime"`
	Include              []string `yaml:"include" json:"include"`
	Exclude              []string `yaml:"exclude" json:"exclude"`
}

// BlogOptions configures the blog section.
type BlogOptions struct {
	Path             string `yaml:"path" json:"path"`
	RouteBasePath    string `yaml:"routeBasePath" json:"routeBasePath"`
	BlogTitle        string `yaml:"blogTitle" json:"blogTitle"`
	BlogDescription  string `yaml:"blogDescription" json:"blogDescription,omitempty"`
	PostsPerPage     int    `yaml:"postsPerPage" json:"postsPerPage"`
	BlogSidebarCount int    `yaml:"blogSidebarCount" json:"blogSidebarCount"`
	ShowReadingTime  bool   `yaml:"showReadingTime" json:"showReadingTime"`
	EditURL          string `yaml:"editUrl" json:"editUrl,omitempty"`
}

// PagesOptions configures standalone pages.
type PagesOptions struct {
	Path          string   `yaml:"path" json:"path"`
	RouteBasePath string   `yaml:"routeBasePath" json:"routeBasePath"`
	Include       []string `yaml:"include" json:"include"`
	Exclude       []string `yaml:"exclude" json:"exclude"`
}

// SitemapOptions configures sitemap generation.
type SitemapOptions struct {
	Changefreq     string   `yaml:"changefreq" json:"changefreq"`
	Priority       float64  `yaml:"priority" json:"priority"`
	IgnorePatterns []string `yaml:"ignorePatterns" json:"ignorePatterns,omitempty"`
	Filename       string   `yaml:"filename" json:"filename"`
}

type themeOptions struct {
	CustomCSS StringList `yaml:"customCss"`
}

func defaultDocs() DocsOptions {
	return DocsOptions{
		Path:          "docs",
		RouteBasePath: "/docs",
		Include:       []string{"**/*.{md,mdx}"},
		Exclude:       []string{"**/_*.{js,jsx,ts,tsx,md,mdx}", "**/_*/**", "**/*.test.{js,jsx,ts,tsx}", "**/__tests__/**"},
	}
}

func defaultBlog() BlogOptions {
	return BlogOptions{
		Path:             "blog",
		RouteBasePath:    "/blog",
		BlogTitle:        "Blog",
		PostsPerPage:     10,
		BlogSidebarCount: 5,
	}
}

func defaultPages() PagesOptions {
	return PagesOptions{
		Path:          "src/pages",
		RouteBasePath: "/",
		Include:       []string{"**/*.{js,jsx,ts,tsx,md,mdx}"},
		Exclude:       []string{"**/_*.{js,jsx,ts,tsx,md,mdx}", "**/_*/**", "**/*.test.{js,jsx,ts,tsx}", "**/__tests__/**"},
	}
}

func defaultSitemap() SitemapOptions {
	return SitemapOptions{Changefreq: "weekly", Priority: 0.5, Filename: "sitemap.xml"}
}

// mergeDocs overlays the explicitly set fields of o on the defaults d.
func mergeDocs(d, o DocsOptions) DocsOptions {
	inherit(&o.Path, d.Path)
	inherit(&o.RouteBasePath, d.RouteBasePath)
	inherit(&o.SidebarPath, d.SidebarPath)
	inherit(&o.EditURL, d.EditURL)
	inheritList(&o.Include, d.Include)
	inheritList(&o.Exclude, d.Exclude)
	return o
}

func mergeBlog(d, o BlogOptions) BlogOptions {
	inherit(&o.Path, d.Path)
	inherit(&o.RouteBasePath, d.RouteBasePath)
	inherit(&o.BlogTitle, d.BlogTitle)
	inherit(&o.BlogDescription, d.BlogDescription)
	inherit(&o.EditURL, d.EditURL)
	inherit(&o.PostsPerPage, d.PostsPerPage)
	inherit(&o.BlogSidebarCount, d.BlogSidebarCount)
	return o
}

func mergePages(d, o PagesOptions) PagesOptions {
	inherit(&o.Path, d.Path)
	inherit(&o.RouteBasePath, d.RouteBasePath)
	inheritList(&o.Include, d.Include)
	inheritList(&o.Exclude, d.Exclude)
	return o
}

func mergeSitemap(d, o SitemapOptions) SitemapOptions {
	inherit(&o.Changefreq, d.Changefreq)
	inherit(&o.Priority, d.Priority)
	inherit(&o.Filename, d.Filename)
	inheritList(&o.IgnorePatterns, d.IgnorePatterns)
	return o
}

// inherit replaces a zero value with the default.
func inherit[T comparable](dst *T, def T) {
	var zero T
	if *dst == zero {
		*dst = def
	}
}

// inheritList replaces a nil list with a copy of the default. An explicit empty
// list is kept.
func inheritList(dst *[]string, def []string) {
	if *dst == nil && def != nil {
		*dst = append([]string(nil), def...)
	}
}
