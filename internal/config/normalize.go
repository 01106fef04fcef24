package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes spellings and obvious slips before resolution:
// whitespace, base URL slashes, policy aliases, the deprecated top-level
// onBrokenMarkdownLinks key and duplicate list entries. It mutates c in place.
// Unknown enum values are left untouched so the resolver can reject them.
func NormalizeConfig(c *SiteConfig) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeSite(c, res)
	normalizePolicies(c, res)
	normalizeI18n(c.I18n, res)
	normalizeReferences("presets", c.Presets)
	normalizeReferences("plugins", c.Plugins)
	return res, nil
}

func normalizeSite(c *SiteConfig, res *NormalizationResult) {
	c.Title = strings.TrimSpace(c.Title)
	c.Tagline = strings.TrimSpace(c.Tagline)
	c.Favicon = strings.TrimSpace(c.Favicon)
	c.OrganizationName = strings.TrimSpace(c.OrganizationName)
	c.ProjectName = strings.TrimSpace(c.ProjectName)

	c.URL = strings.TrimSpace(c.URL)
	if u := strings.TrimRight(c.URL, "/"); u != c.URL && strings.Contains(u, "://") {
		res.Warnings = append(res.Warnings, warnChanged("url", c.URL, u))
		c.URL = u
	}

	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/") {
		res.Warnings = append(res.Warnings, warnChanged("baseUrl", c.BaseURL, c.BaseURL+"/"))
		c.BaseURL += "/"
	}

	if dirs := trimStringSlice(c.StaticDirectories); len(dirs) != len(c.StaticDirectories) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("dropped %d empty staticDirectories entries", len(c.StaticDirectories)-len(dirs)))
		c.StaticDirectories = dirs
	}
}

func normalizePolicies(c *SiteConfig, res *NormalizationResult) {
	if c.OnBrokenMarkdownLinks != "" {
		if c.Markdown.Hooks.OnBrokenMarkdownLinks == "" {
			res.Warnings = append(res.Warnings, "onBrokenMarkdownLinks is deprecated, moved to markdown.hooks.onBrokenMarkdownLinks")
			c.Markdown.Hooks.OnBrokenMarkdownLinks = c.OnBrokenMarkdownLinks
		} else {
			res.Warnings = append(res.Warnings, "ignoring deprecated onBrokenMarkdownLinks, markdown.hooks.onBrokenMarkdownLinks is set")
		}
		c.OnBrokenMarkdownLinks = ""
	}
	normalizePolicy("onBrokenLinks", &c.OnBrokenLinks, res)
	normalizePolicy("markdown.hooks.onBrokenMarkdownLinks", &c.Markdown.Hooks.OnBrokenMarkdownLinks, res)
}

func normalizePolicy(field string, p *LinkPolicy, res *NormalizationResult) {
	if *p == "" {
		return
	}
	if canon := NormalizeLinkPolicy(string(*p)); canon != "" && canon != *p {
		res.Warnings = append(res.Warnings, warnChanged(field, *p, canon))
		*p = canon
	}
}

func normalizeI18n(i *I18nConfig, res *NormalizationResult) {
	if i == nil {
		return
	}
	i.DefaultLocale = strings.TrimSpace(i.DefaultLocale)
	i.Locales = dedupeStringSlice("i18n.locales", i.Locales, res)
}

func normalizeReferences(_ string, refs []Reference) {
	for i := range refs {
		refs[i].Name = strings.TrimSpace(refs[i].Name)
	}
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}
