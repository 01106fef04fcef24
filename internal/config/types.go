package config

// SiteConfig is the author-supplied description of a documentation site. It is
// loaded from YAML (or built as a Go literal) and handed to the resolver; none
// of its fields carry engine defaults.
type SiteConfig struct {
	Title             string         `yaml:"title"`
	Tagline           string         `yaml:"tagline,omitempty"`
	Favicon           string         `yaml:"favicon,omitempty"`
	URL               string         `yaml:"url"`
	BaseURL           string         `yaml:"baseUrl"`
	OrganizationName  string         `yaml:"organizationName"`
	ProjectName       string         `yaml:"projectName"`
	TrailingSlash     *bool          `yaml:"trailingSlash,omitempty"`
	OnBrokenLinks     LinkPolicy     `yaml:"onBrokenLinks,omitempty"`
	Markdown          MarkdownConfig `yaml:"markdown,omitempty"`
	StaticDirectories []string       `yaml:"staticDirectories,omitempty"`
	I18n              *I18nConfig    `yaml:"i18n,omitempty"`
	Presets           []Reference    `yaml:"presets,omitempty"`
	Plugins           []Reference    `yaml:"plugins,omitempty"`
	ThemeConfig       ThemeConfig    `yaml:"themeConfig,omitempty"`
	CustomFields      map[string]any `yaml:"customFields,omitempty"`

	// Deprecated top-level spelling; normalization moves it to Markdown.Hooks.
	OnBrokenMarkdownLinks LinkPolicy `yaml:"onBrokenMarkdownLinks,omitempty"`
}

// MarkdownConfig holds markdown-related engine options.
type MarkdownConfig struct {
	Hooks MarkdownHooks `yaml:"hooks,omitempty"`
}

// MarkdownHooks configures how the engine reacts to markdown problems.
type MarkdownHooks struct {
	OnBrokenMarkdownLinks LinkPolicy `yaml:"onBrokenMarkdownLinks,omitempty"`
}

// I18nConfig lists the site locales. DefaultLocale must be one of Locales.
type I18nConfig struct {
	DefaultLocale string                  `yaml:"defaultLocale"`
	Locales       []string                `yaml:"locales"`
	LocaleConfigs map[string]LocaleConfig `yaml:"localeConfigs,omitempty"`
}

// LocaleConfig overrides per-locale presentation.
type LocaleConfig struct {
	Label     string `yaml:"label,omitempty"`
	Direction string `yaml:"direction,omitempty"`
	HTMLLang  string `yaml:"htmlLang,omitempty"`
}

// ThemeConfig is the visual and navigational configuration shared by all pages.
// Unknown keys (search service credentials, announcement bars, ...) are kept in
// Extra and passed through to the engine untouched.
type ThemeConfig struct {
	Image           string           `yaml:"image,omitempty"`
	Navbar          *NavbarConfig    `yaml:"navbar,omitempty"`
	Footer          *FooterConfig    `yaml:"footer,omitempty"`
	Prism           *PrismConfig     `yaml:"prism,omitempty"`
	ColorMode       *ColorModeConfig `yaml:"colorMode,omitempty"`
	TableOfContents *TOCConfig       `yaml:"tableOfContents,omitempty"`
	Extra           map[string]any   `yaml:",inline"`
}

// NavbarConfig describes the top navigation bar.
type NavbarConfig struct {
	Title        string      `yaml:"title,omitempty"`
	Logo         *LogoConfig `yaml:"logo,omitempty"`
	Style        string      `yaml:"style,omitempty"`
	HideOnScroll *bool       `yaml:"hideOnScroll,omitempty"`
	Items        []NavItem   `yaml:"items,omitempty"`
}

// LogoConfig points at a logo image under one of the static directories.
type LogoConfig struct {
	Alt     string `yaml:"alt,omitempty"`
	Src     string `yaml:"src,omitempty"`
	SrcDark string `yaml:"srcDark,omitempty"`
	Href    string `yaml:"href,omitempty"`
}

// NavItem is a navbar entry. Plain links set exactly one of To (site route) or
// Href (external URL).
type NavItem struct {
	Type      string `yaml:"type,omitempty"`
	Label     string `yaml:"label,omitempty"`
	To        string `yaml:"to,omitempty"`
	Href      string `yaml:"href,omitempty"`
	Position  string `yaml:"position,omitempty"`
	SidebarID string `yaml:"sidebarId,omitempty"`
}

// FooterConfig describes the page footer.
type FooterConfig struct {
	Style     string            `yaml:"style,omitempty"`
	Copyright string            `yaml:"copyright,omitempty"`
	Logo      *LogoConfig       `yaml:"logo,omitempty"`
	Links     []FooterLinkGroup `yaml:"links,omitempty"`
}

// FooterLinkGroup is a titled column of footer links.
type FooterLinkGroup struct {
	Title string       `yaml:"title,omitempty"`
	Items []FooterLink `yaml:"items"`
}

// FooterLink is a footer entry with exactly one of To or Href.
type FooterLink struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
}

// PrismConfig selects the light/dark syntax highlighting themes.
type PrismConfig struct {
	Theme               string   `yaml:"theme,omitempty"`
	DarkTheme           string   `yaml:"darkTheme,omitempty"`
	AdditionalLanguages []string `yaml:"additionalLanguages,omitempty"`
}

// ColorModeConfig controls the light/dark switch.
type ColorModeConfig struct {
	DefaultMode               string `yaml:"defaultMode,omitempty"`
	DisableSwitch             *bool  `yaml:"disableSwitch,omitempty"`
	RespectPrefersColorScheme *bool  `yaml:"respectPrefersColorScheme,omitempty"`
}

// TOCConfig bounds the headings shown in the table of contents.
type TOCConfig struct {
	MinHeadingLevel int `yaml:"minHeadingLevel,omitempty"`
	MaxHeadingLevel int `yaml:"maxHeadingLevel,omitempty"`
}
