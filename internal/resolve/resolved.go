package resolve

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/biginformatics/docsite/internal/config"
	"github.com/biginformatics/docsite/internal/editlink"
)

// ResolvedConfig is the validated, defaulted and path-resolved site
// configuration. It shares no memory with the SiteConfig it was built from and
// callers must treat it as read-only.
type ResolvedConfig struct {
	Title                 string            `json:"title"`
	Tagline               string            `json:"tagline,omitempty"`
	URL                   string            `json:"url"`
	BaseURL               string            `json:"baseUrl"`
	SiteURL               string            `json:"siteUrl"`
	OrganizationName      string            `json:"organizationName"`
	ProjectName           string            `json:"projectName"`
	TrailingSlash         *bool             `json:"trailingSlash,omitempty"`
	Favicon               *Asset            `json:"favicon,omitempty"`
	OnBrokenLinks         config.LinkPolicy `json:"onBrokenLinks"`
	OnBrokenMarkdownLinks config.LinkPolicy `json:"onBrokenMarkdownLinks"`
	StaticDirectories     []string          `json:"staticDirectories"`
	I18n                  I18n              `json:"i18n"`
	Presets               []ResolvedPreset  `json:"presets"`
	Plugins               []ResolvedPlugin  `json:"plugins"`
	Theme                 Theme             `json:"themeConfig"`
	CustomFields          map[string]any    `json:"customFields,omitempty"`
	// Assets lists every resolved file reference in resolution order.
	Assets []Asset `json:"assets"`
}

// I18n is the resolved locale set.
type I18n struct {
	DefaultLocale string                  `json:"defaultLocale"`
	Locales       []string                `json:"locales"`
	LocaleConfigs map[string]LocaleConfig `json:"localeConfigs"`
}

// LocaleConfig is the resolved presentation of one locale.
type LocaleConfig struct {
	Label     string `json:"label"`
	Direction string `json:"direction"`
	HTMLLang  string `json:"htmlLang"`
}

type assetKind int

const (
	// static files are looked up in each static directory in turn.
	assetStatic assetKind = iota
	assetSiteFile
	assetSiteDir
	// optional directories are reported unverified instead of failing.
	assetOptionalDir
	// entries may be a file or a directory (local plugin modules).
	assetSiteEntry
)

// Asset is a resolved file reference.
type Asset struct {
	// Field is the configuration path the reference came from.
	Field string `json:"field"`
	// Ref is the reference as written.
	Ref string `json:"ref"`
	// Path is slash-separated and relative to the project root.
	Path    string `json:"path,omitempty"`
	AbsPath string `json:"absPath,omitempty"`
	// URL is the public URL for static assets and external references.
	URL      string `json:"url,omitempty"`
	External bool   `json:"external,omitempty"`
	// Verified reports that the file was found on the configured filesystem.
	Verified bool `json:"verified"`

	kind assetKind
}

// ResolvedPreset is a preset with all sections defaulted. Disabled sections are nil.
type ResolvedPreset struct {
	Name    string          `json:"name"`
	Docs    *ResolvedDocs   `json:"docs,omitempty"`
	Blog    *ResolvedBlog   `json:"blog,omitempty"`
	Pages   *ResolvedPages  `json:"pages,omitempty"`
	Sitemap *SitemapOptions `json:"sitemap,omitempty"`
	Theme   PresetTheme     `json:"theme"`
}

// ResolvedDocs is the docs section with its directory and sidebar resolved.
type ResolvedDocs struct {
	DocsOptions
	Dir     *Asset `json:"dir"`
	Sidebar *Asset `json:"sidebar,omitempty"`
}

// EditURLFor returns the edit link for a file relative to the docs directory,
// or "" when no editUrl is configured.
func (d *ResolvedDocs) EditURLFor(rel string) string {
	if d == nil || d.EditURL == "" {
		return ""
	}
	return editlink.Join(d.EditURL, d.Path+"/"+rel)
}

// ResolvedBlog is the blog section with its directory resolved.
type ResolvedBlog struct {
	BlogOptions
	Dir *Asset `json:"dir"`
}

// ResolvedPages is the pages section with its directory resolved.
type ResolvedPages struct {
	PagesOptions
	Dir *Asset `json:"dir"`
}

// PresetTheme holds the preset's theme section.
type PresetTheme struct {
	CustomCSS []*Asset `json:"customCss"`
}

// ResolvedPlugin is a plugin reference with validated and defaulted options.
type ResolvedPlugin struct {
	Name    string         `json:"name"`
	Role    PluginRole     `json:"role"`
	Known   bool           `json:"known"`
	Options map[string]any `json:"options,omitempty"`
	// Module is set for plugins referenced by a local "./" path.
	Module *Asset `json:"module,omitempty"`
}

// Theme is the merged theme configuration.
type Theme struct {
	Image           *Asset         `json:"image,omitempty"`
	Navbar          Navbar         `json:"navbar"`
	Footer          Footer         `json:"footer"`
	Prism           Prism          `json:"prism"`
	ColorMode       ColorMode      `json:"colorMode"`
	TableOfContents TOC            `json:"tableOfContents"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// Navbar is the merged navigation bar.
type Navbar struct {
	Title        string    `json:"title,omitempty"`
	Logo         *Logo     `json:"logo,omitempty"`
	Style        string    `json:"style,omitempty"`
	HideOnScroll bool      `json:"hideOnScroll"`
	Items        []NavItem `json:"items"`
}

// Logo is a navbar or footer logo.
type Logo struct {
	Alt     string `json:"alt,omitempty"`
	Src     *Asset `json:"src,omitempty"`
	SrcDark *Asset `json:"srcDark,omitempty"`
	Href    string `json:"href,omitempty"`
}

// NavItem is a validated navbar item. URL is the site-absolute target for
// route items and the external URL for href items.
type NavItem struct {
	Type      string `json:"type"`
	Label     string `json:"label,omitempty"`
	To        string `json:"to,omitempty"`
	Href      string `json:"href,omitempty"`
	Position  string `json:"position"`
	SidebarID string `json:"sidebarId,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Footer is the merged footer.
type Footer struct {
	Style     string            `json:"style"`
	Copyright string            `json:"copyright,omitempty"`
	Logo      *Logo             `json:"logo,omitempty"`
	Links     []FooterLinkGroup `json:"links"`
}

// FooterLinkGroup is a titled column of footer links.
type FooterLinkGroup struct {
	Title string       `json:"title,omitempty"`
	Items []FooterLink `json:"items"`
}

// FooterLink is a validated footer link.
type FooterLink struct {
	Label string `json:"label"`
	To    string `json:"to,omitempty"`
	Href  string `json:"href,omitempty"`
	URL   string `json:"url"`
}

// Prism selects syntax highlighting themes.
type Prism struct {
	Theme               string   `json:"theme"`
	DarkTheme           string   `json:"darkTheme"`
	AdditionalLanguages []string `json:"additionalLanguages"`
}

// ColorMode is the resolved light/dark switch configuration.
type ColorMode struct {
	DefaultMode               string `json:"defaultMode"`
	DisableSwitch             bool   `json:"disableSwitch"`
	RespectPrefersColorScheme bool   `json:"respectPrefersColorScheme"`
}

// TOC bounds the table of contents.
type TOC struct {
	MinHeadingLevel int `json:"minHeadingLevel"`
	MaxHeadingLevel int `json:"maxHeadingLevel"`
}

// JSON returns the indented, deterministic JSON encoding.
func (c *ResolvedConfig) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML returns the YAML encoding, derived from the JSON form so both use the
// same field names.
func (c *ResolvedConfig) YAML() ([]byte, error) {
	data, err := c.JSON()
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// Snapshot returns a stable hash of the resolved configuration.
func (c *ResolvedConfig) Snapshot() string {
	data, err := c.JSON()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Docs returns the docs section of the first preset that enables it.
func (c *ResolvedConfig) Docs() *ResolvedDocs {
	for i := range c.Presets {
		if c.Presets[i].Docs != nil {
			return c.Presets[i].Docs
		}
	}
	return nil
}

// BlogEnabled reports whether any preset or plugin provides a blog.
func (c *ResolvedConfig) BlogEnabled() bool {
	for _, p := range c.Presets {
		if p.Blog != nil {
			return true
		}
	}
	for _, p := range c.Plugins {
		if p.Name == PluginContentBlog {
			return true
		}
	}
	return false
}

// Link is an outbound link declared in the theme.
type Link struct {
	Field string
	Label string
	URL   string
}

// ExternalLinks lists the absolute http(s) links of the navbar and footer in
// declaration order.
func (c *ResolvedConfig) ExternalLinks() []Link {
	var out []Link
	for i, it := range c.Theme.Navbar.Items {
		if it.Href != "" && isExternalRef(it.Href) {
			out = append(out, Link{Field: fieldIndex("themeConfig.navbar.items", i), Label: it.Label, URL: it.Href})
		}
	}
	for g, group := range c.Theme.Footer.Links {
		for i, it := range group.Items {
			if it.Href != "" && isExternalRef(it.Href) {
				out = append(out, Link{
					Field: fieldIndex(fieldIndex("themeConfig.footer.links", g)+".items", i),
					Label: it.Label,
					URL:   it.Href,
				})
			}
		}
	}
	return out
}
