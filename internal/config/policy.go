package config

import "github.com/biginformatics/docsite/internal/foundation/normalization"

// LinkPolicy is the reaction to a broken link.
type LinkPolicy string

const (
	LinkPolicyIgnore LinkPolicy = "ignore"
	LinkPolicyWarn   LinkPolicy = "warn"
	LinkPolicyFail   LinkPolicy = "fail"
)

// The engine spells fail as "throw" and accepts "log" as a quieter warn.
var linkPolicyNormalizer = normalization.NewNormalizer("link policy", map[string]LinkPolicy{
	"ignore": LinkPolicyIgnore,
	"log":    LinkPolicyWarn,
	"warn":   LinkPolicyWarn,
	"fail":   LinkPolicyFail,
	"throw":  LinkPolicyFail,
}, "")

// NormalizeLinkPolicy returns the canonical policy, or "" if raw is unknown or blank.
func NormalizeLinkPolicy(raw string) LinkPolicy {
	if p, ok := linkPolicyNormalizer.Normalize(raw); ok {
		return p
	}
	return ""
}

// ParseLinkPolicy is NormalizeLinkPolicy with an explanatory error.
func ParseLinkPolicy(raw string) (LinkPolicy, error) {
	return linkPolicyNormalizer.Parse(raw)
}

// Navbar item positions.
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

var positionNormalizer = normalization.NewNormalizer("navbar position", map[string]string{
	"left":  PositionLeft,
	"right": PositionRight,
}, "")

// ParsePosition canonicalizes a navbar position; blank yields "".
func ParsePosition(raw string) (string, error) { return positionNormalizer.Parse(raw) }

// Footer and navbar styles.
const (
	StyleDark    = "dark"
	StyleLight   = "light"
	StylePrimary = "primary"
)

var footerStyleNormalizer = normalization.NewNormalizer("footer style", map[string]string{
	"dark":  StyleDark,
	"light": StyleLight,
}, "")

// ParseFooterStyle canonicalizes a footer style; blank yields "".
func ParseFooterStyle(raw string) (string, error) { return footerStyleNormalizer.Parse(raw) }

var navbarStyleNormalizer = normalization.NewNormalizer("navbar style", map[string]string{
	"dark":    StyleDark,
	"primary": StylePrimary,
}, "")

// ParseNavbarStyle canonicalizes a navbar style; blank yields "".
func ParseNavbarStyle(raw string) (string, error) { return navbarStyleNormalizer.Parse(raw) }

var colorModeNormalizer = normalization.NewNormalizer("color mode", map[string]string{
	"light": StyleLight,
	"dark":  StyleDark,
}, "")

// ParseColorMode canonicalizes a color mode; blank yields "".
func ParseColorMode(raw string) (string, error) { return colorModeNormalizer.Parse(raw) }

// Navbar item types.
const (
	NavItemDefault        = "default"
	NavItemSearch         = "search"
	NavItemLocaleDropdown = "localeDropdown"
	NavItemDocSidebar     = "docSidebar"
)

var navItemTypeNormalizer = normalization.NewNormalizer("navbar item type", map[string]string{
	"default":        NavItemDefault,
	"link":           NavItemDefault,
	"search":         NavItemSearch,
	"localedropdown": NavItemLocaleDropdown,
	"docsidebar":     NavItemDocSidebar,
}, NavItemDefault)

// ParseNavItemType canonicalizes a navbar item type; blank yields "default".
func ParseNavItemType(raw string) (string, error) { return navItemTypeNormalizer.Parse(raw) }
