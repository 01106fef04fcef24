package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/biginformatics/docsite/internal/config"
)

// themeOwner is the owner name reported for themeConfig errors.
const themeOwner = "theme"

// Theme defaults applied when neither the house style nor the author sets a value.
const (
	DefaultPrismTheme      = "github"
	DefaultPrismDarkTheme  = "dracula"
	DefaultFooterStyle     = config.StyleLight
	DefaultColorMode       = config.StyleLight
	DefaultMinHeadingLevel = 2
	DefaultMaxHeadingLevel = 3
)

// PrismThemes lists the syntax highlighting themes the engine ships.
var PrismThemes = []string{
	"dracula", "duotoneDark", "duotoneLight", "github", "gruvboxMaterialDark",
	"gruvboxMaterialLight", "jettwaveDark", "jettwaveLight", "nightOwl",
	"nightOwlLight", "oceanicNext", "okaidia", "oneDark", "oneLight",
	"palenight", "shadesOfPurple", "synthwave84", "ultramin", "vsDark", "vsLight",
}

func themeError(option, label, reason string) error {
	return &InvalidPresetOptionError{Preset: themeOwner, Option: option, Label: label, Reason: reason}
}

func (s *resolution) resolveTheme() error {
	tc := s.raw.ThemeConfig
	if base := s.opts.ThemeDefaults; base != nil {
		tc = mergeThemeConfig(*base, tc)
	}

	t := Theme{
		Navbar: Navbar{Items: []NavItem{}},
		Footer: Footer{Style: DefaultFooterStyle, Links: []FooterLinkGroup{}},
		Prism: Prism{
			Theme:               DefaultPrismTheme,
			DarkTheme:           DefaultPrismDarkTheme,
			AdditionalLanguages: []string{},
		},
		ColorMode:       ColorMode{DefaultMode: DefaultColorMode},
		TableOfContents: TOC{MinHeadingLevel: DefaultMinHeadingLevel, MaxHeadingLevel: DefaultMaxHeadingLevel},
		Extra:           deepCopyMap(tc.Extra),
	}
	if len(t.Extra) == 0 {
		t.Extra = nil
	}
	if img := strings.TrimSpace(tc.Image); img != "" {
		t.Image = s.newAsset("themeConfig.image", img, assetStatic)
	}

	steps := []func() error{
		func() error { return s.resolveNavbar(tc.Navbar, &t.Navbar) },
		func() error { return s.resolveFooter(tc.Footer, &t.Footer) },
		func() error { return resolvePrism(tc.Prism, &t.Prism) },
		func() error { return resolveColorMode(tc.ColorMode, &t.ColorMode) },
		func() error { return resolveTOC(tc.TableOfContents, &t.TableOfContents) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	s.out.Theme = t
	return nil
}

func (s *resolution) resolveNavbar(nb *config.NavbarConfig, out *Navbar) error {
	if nb == nil {
		return nil
	}
	out.Title = strings.TrimSpace(nb.Title)
	if nb.Style != "" {
		style, err := config.ParseNavbarStyle(nb.Style)
		if err != nil {
			return themeError("navbar.style", "", err.Error())
		}
		out.Style = style
	}
	if nb.HideOnScroll != nil {
		out.HideOnScroll = *nb.HideOnScroll
	}
	if nb.Logo != nil {
		logo, err := s.resolveLogo("navbar.logo", nb.Logo)
		if err != nil {
			return err
		}
		out.Logo = logo
	}
	for i, it := range nb.Items {
		item, err := s.resolveNavItem(fieldIndex("navbar.items", i), it)
		if err != nil {
			return err
		}
		out.Items = append(out.Items, item)
	}
	return nil
}

func (s *resolution) resolveNavItem(option string, it config.NavItem) (NavItem, error) {
	label := strings.TrimSpace(it.Label)
	typ, err := config.ParseNavItemType(it.Type)
	if err != nil {
		return NavItem{}, themeError(option, label, err.Error())
	}
	item := NavItem{
		Type:      typ,
		Label:     label,
		To:        strings.TrimSpace(it.To),
		Href:      strings.TrimSpace(it.Href),
		SidebarID: strings.TrimSpace(it.SidebarID),
		Position:  config.PositionLeft,
	}
	if typ == config.NavItemSearch || typ == config.NavItemLocaleDropdown {
		item.Position = config.PositionRight
	}
	if it.Position != "" {
		pos, err := config.ParsePosition(it.Position)
		if err != nil {
			return NavItem{}, themeError(option, label, err.Error())
		}
		item.Position = pos
	}

	switch typ {
	case config.NavItemSearch, config.NavItemLocaleDropdown:
		if item.To != "" || item.Href != "" {
			return NavItem{}, themeError(option, label, typ+" items take neither to nor href")
		}
		return item, nil
	case config.NavItemDocSidebar:
		if item.SidebarID == "" {
			return NavItem{}, themeError(option, label, "docSidebar items need a sidebarId")
		}
		if label == "" {
			return NavItem{}, themeError(option, label, "docSidebar items need a label")
		}
		if item.To != "" || item.Href != "" {
			return NavItem{}, themeError(option, label, "docSidebar items take neither to nor href")
		}
		return item, nil
	}

	if label == "" {
		return NavItem{}, themeError(option, "", "navbar link needs a label")
	}
	target, err := s.linkTarget(item.To, item.Href, "navbar link")
	if err != nil {
		return NavItem{}, themeError(option, label, err.Error())
	}
	item.URL = target
	return item, nil
}

// linkTarget validates a to/href pair and returns the resolved URL.
func (s *resolution) linkTarget(to, href, what string) (string, error) {
	switch {
	case to == "" && href == "":
		return "", fmt.Errorf("%s needs exactly one of to or href, got neither", what)
	case to != "" && href != "":
		return "", fmt.Errorf("%s needs exactly one of to or href, got both", what)
	case to != "":
		if err := routeError(to); err != nil {
			return "", fmt.Errorf("to: %w", err)
		}
		return joinRoute(s.out.BaseURL, to), nil
	default:
		if err := externalURLError(href, true); err != nil {
			return "", fmt.Errorf("href: %w", err)
		}
		return href, nil
	}
}

func (s *resolution) resolveLogo(option string, l *config.LogoConfig) (*Logo, error) {
	src := strings.TrimSpace(l.Src)
	if src == "" {
		return nil, themeError(option+".src", "", "a logo needs a src")
	}
	logo := &Logo{
		Alt:  strings.TrimSpace(l.Alt),
		Href: strings.TrimSpace(l.Href),
		Src:  s.newAsset("themeConfig."+option+".src", src, assetStatic),
	}
	if dark := strings.TrimSpace(l.SrcDark); dark != "" {
		logo.SrcDark = s.newAsset("themeConfig."+option+".srcDark", dark, assetStatic)
	}
	if logo.Href != "" && !strings.HasPrefix(logo.Href, "/") {
		if err := externalURLError(logo.Href, false); err != nil {
			return nil, themeError(option+".href", "", err.Error())
		}
	}
	return logo, nil
}

func (s *resolution) resolveFooter(f *config.FooterConfig, out *Footer) error {
	if f == nil {
		return nil
	}
	if f.Style != "" {
		style, err := config.ParseFooterStyle(f.Style)
		if err != nil {
			return themeError("footer.style", "", err.Error())
		}
		out.Style = style
	}
	out.Copyright = strings.TrimSpace(f.Copyright)
	if s.opts.Year > 0 {
		out.Copyright = strings.ReplaceAll(out.Copyright, "{year}", strconv.Itoa(s.opts.Year))
	}
	if f.Logo != nil {
		logo, err := s.resolveLogo("footer.logo", f.Logo)
		if err != nil {
			return err
		}
		out.Logo = logo
	}
	for g, group := range f.Links {
		rg := FooterLinkGroup{Title: strings.TrimSpace(group.Title), Items: []FooterLink{}}
		for i, it := range group.Items {
			option := fieldIndex(fieldIndex("footer.links", g)+".items", i)
			label := strings.TrimSpace(it.Label)
			if label == "" {
				return themeError(option, "", "footer link needs a label")
			}
			link := FooterLink{Label: label, To: strings.TrimSpace(it.To), Href: strings.TrimSpace(it.Href)}
			target, err := s.linkTarget(link.To, link.Href, "footer link")
			if err != nil {
				return themeError(option, label, err.Error())
			}
			link.URL = target
			rg.Items = append(rg.Items, link)
		}
		out.Links = append(out.Links, rg)
	}
	return nil
}

func resolvePrism(p *config.PrismConfig, out *Prism) error {
	if p == nil {
		return nil
	}
	for _, c := range []struct {
		option, value string
		dst           *string
	}{{"prism.theme", p.Theme, &out.Theme}, {"prism.darkTheme", p.DarkTheme, &out.DarkTheme}} {
		v := strings.TrimSpace(c.value)
		if v == "" {
			continue
		}
		if !knownPrismTheme(v) {
			return themeError(c.option, "", fmt.Sprintf("unknown prism theme %q (known themes: %s)", v, strings.Join(PrismThemes, ", ")))
		}
		*c.dst = v
	}
	for _, lang := range p.AdditionalLanguages {
		if lang = strings.TrimSpace(lang); lang != "" {
			out.AdditionalLanguages = append(out.AdditionalLanguages, lang)
		}
	}
	return nil
}

func knownPrismTheme(name string) bool {
	for _, t := range PrismThemes {
		if t == name {
			return true
		}
	}
	return false
}

func resolveColorMode(c *config.ColorModeConfig, out *ColorMode) error {
	if c == nil {
		return nil
	}
	if c.DefaultMode != "" {
		mode, err := config.ParseColorMode(c.DefaultMode)
		if err != nil {
			return themeError("colorMode.defaultMode", "", err.Error())
		}
		out.DefaultMode = mode
	}
	if c.DisableSwitch != nil {
		out.DisableSwitch = *c.DisableSwitch
	}
	if c.RespectPrefersColorScheme != nil {
		out.RespectPrefersColorScheme = *c.RespectPrefersColorScheme
	}
	return nil
}

func resolveTOC(t *config.TOCConfig, out *TOC) error {
	if t == nil {
		return nil
	}
	if t.MinHeadingLevel != 0 {
		out.MinHeadingLevel = t.MinHeadingLevel
	}
	if t.MaxHeadingLevel != 0 {
		out.MaxHeadingLevel = t.MaxHeadingLevel
	}
	for _, c := range []struct {
		option string
		level  int
	}{{"tableOfContents.minHeadingLevel", out.MinHeadingLevel}, {"tableOfContents.maxHeadingLevel", out.MaxHeadingLevel}} {
		if c.level < 2 || c.level > 6 {
			return themeError(c.option, "", fmt.Sprintf("heading level %d is outside 2..6", c.level))
		}
	}
	if out.MinHeadingLevel > out.MaxHeadingLevel {
		return themeError("tableOfContents", "", fmt.Sprintf("minHeadingLevel %d exceeds maxHeadingLevel %d",
			out.MinHeadingLevel, out.MaxHeadingLevel))
	}
	return nil
}

// routeError checks a site-internal route.
func routeError(to string) error {
	if !strings.HasPrefix(to, "/") {
		return errors.New("must be a site route beginning with /")
	}
	if strings.Contains(to, "://") || strings.HasPrefix(to, "//") {
		return errors.New("must be a site route, not a URL")
	}
	return nil
}

func joinRoute(baseURL, route string) string {
	return strings.TrimSuffix(baseURL, "/") + route
}

// mergeThemeConfig overlays over on base. Scalars set in over win and zero
// scalars inherit; nested objects such as logos are replaced whole; lists are
// replaced whole when set.
func mergeThemeConfig(base, over config.ThemeConfig) config.ThemeConfig {
	out := over
	inherit(&out.Image, base.Image)
	out.Navbar = mergeNavbar(base.Navbar, over.Navbar)
	out.Footer = mergeFooter(base.Footer, over.Footer)
	out.Prism = mergePrism(base.Prism, over.Prism)
	out.ColorMode = mergeColorMode(base.ColorMode, over.ColorMode)
	out.TableOfContents = mergeTOC(base.TableOfContents, over.TableOfContents)
	if len(base.Extra) > 0 {
		out.Extra = deepCopyMap(base.Extra)
		for k, v := range over.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func mergeNavbar(b, o *config.NavbarConfig) *config.NavbarConfig {
	if o == nil || b == nil {
		return pick(b, o)
	}
	m := *o
	inherit(&m.Title, b.Title)
	inherit(&m.Style, b.Style)
	if m.Logo == nil {
		m.Logo = b.Logo
	}
	if m.HideOnScroll == nil {
		m.HideOnScroll = b.HideOnScroll
	}
	if m.Items == nil {
		m.Items = b.Items
	}
	return &m
}

func mergeFooter(b, o *config.FooterConfig) *config.FooterConfig {
	if o == nil || b == nil {
		return pick(b, o)
	}
	m := *o
	inherit(&m.Style, b.Style)
	inherit(&m.Copyright, b.Copyright)
	if m.Logo == nil {
		m.Logo = b.Logo
	}
	if m.Links == nil {
		m.Links = b.Links
	}
	return &m
}

func mergePrism(b, o *config.PrismConfig) *config.PrismConfig {
	if o == nil || b == nil {
		return pick(b, o)
	}
	m := *o
	inherit(&m.Theme, b.Theme)
	inherit(&m.DarkTheme, b.DarkTheme)
	if m.AdditionalLanguages == nil {
		m.AdditionalLanguages = b.AdditionalLanguages
	}
	return &m
}

func mergeColorMode(b, o *config.ColorModeConfig) *config.ColorModeConfig {
	if o == nil || b == nil {
		return pick(b, o)
	}
	m := *o
	inherit(&m.DefaultMode, b.DefaultMode)
	if m.DisableSwitch == nil {
		m.DisableSwitch = b.DisableSwitch
	}
	if m.RespectPrefersColorScheme == nil {
		m.RespectPrefersColorScheme = b.RespectPrefersColorScheme
	}
	return &m
}

func mergeTOC(b, o *config.TOCConfig) *config.TOCConfig {
	if o == nil || b == nil {
		return pick(b, o)
	}
	m := *o
	inherit(&m.MinHeadingLevel, b.MinHeadingLevel)
	inherit(&m.MaxHeadingLevel, b.MaxHeadingLevel)
	return &m
}

// pick returns whichever of b and o is set, preferring o.
func pick[T any](b, o *T) *T {
	if o != nil {
		return o
	}
	return b
}
