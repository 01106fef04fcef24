package resolve

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/biginformatics/docsite/internal/config"
)

// Engine defaults for site-level fields.
const (
	DefaultLocale                = "en"
	DefaultStaticDirectory       = "static"
	DefaultOnBrokenLinks         = config.LinkPolicyFail
	DefaultOnBrokenMarkdownLinks = config.LinkPolicyWarn
)

// Scripts written right to left.
var rtlScripts = map[string]bool{
	"Arab": true, "Hebr": true, "Thaa": true, "Syrc": true,
	"Nkoo": true, "Adlm": true, "Rohg": true, "Mand": true, "Samr": true,
}

func (s *resolution) checkLocales() error {
	i18n := s.raw.I18n
	if i18n == nil {
		return nil
	}
	def := strings.TrimSpace(i18n.DefaultLocale)
	if def == "" {
		return nil
	}
	for _, l := range i18n.Locales {
		if strings.TrimSpace(l) == def {
			return nil
		}
	}
	return &LocaleMismatchError{DefaultLocale: def, Locales: copyStrings(i18n.Locales)}
}

func (s *resolution) checkRequired() error {
	raw := s.raw
	required := []struct{ field, value string }{
		{"title", raw.Title},
		{"url", raw.URL},
		{"baseUrl", raw.BaseURL},
		{"organizationName", raw.OrganizationName},
		{"projectName", raw.ProjectName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingFieldError{Field: r.field}
		}
	}
	if raw.I18n != nil {
		if strings.TrimSpace(raw.I18n.DefaultLocale) == "" {
			return &MissingFieldError{Field: "i18n.defaultLocale"}
		}
		if len(nonBlank(raw.I18n.Locales)) == 0 {
			return &MissingFieldError{Field: "i18n.locales"}
		}
	}
	return nil
}

func (s *resolution) resolveSite() error {
	raw, out := s.raw, s.out

	siteURL, err := canonicalSiteURL(raw.URL)
	if err != nil {
		return err
	}
	baseURL, err := canonicalBaseURL(raw.BaseURL)
	if err != nil {
		return err
	}
	out.Title = strings.TrimSpace(raw.Title)
	out.Tagline = strings.TrimSpace(raw.Tagline)
	out.URL = siteURL
	out.BaseURL = baseURL
	out.SiteURL = siteURL + baseURL
	out.OrganizationName = strings.TrimSpace(raw.OrganizationName)
	out.ProjectName = strings.TrimSpace(raw.ProjectName)
	out.TrailingSlash = copyBoolPtr(raw.TrailingSlash)
	out.CustomFields = deepCopyMap(raw.CustomFields)

	if out.OnBrokenLinks, err = linkPolicy("onBrokenLinks", raw.OnBrokenLinks, DefaultOnBrokenLinks); err != nil {
		return err
	}
	mdField, mdPolicy := "markdown.hooks.onBrokenMarkdownLinks", raw.Markdown.Hooks.OnBrokenMarkdownLinks
	if strings.TrimSpace(string(mdPolicy)) == "" {
		mdField, mdPolicy = "onBrokenMarkdownLinks", raw.OnBrokenMarkdownLinks
	}
	if out.OnBrokenMarkdownLinks, err = linkPolicy(mdField, mdPolicy, DefaultOnBrokenMarkdownLinks); err != nil {
		return err
	}

	out.StaticDirectories = []string{}
	for i, d := range raw.StaticDirectories {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if err := relativePathError(d); err != nil {
			return &InvalidFieldError{Field: fieldIndex("staticDirectories", i), Value: d, Reason: err.Error()}
		}
		out.StaticDirectories = append(out.StaticDirectories, cleanRel(d))
	}
	if len(out.StaticDirectories) == 0 {
		out.StaticDirectories = []string{DefaultStaticDirectory}
	}

	if out.I18n, err = resolveI18n(raw.I18n); err != nil {
		return err
	}
	if fav := strings.TrimSpace(raw.Favicon); fav != "" {
		out.Favicon = s.newAsset("favicon", fav, assetStatic)
	}
	return nil
}

func canonicalSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	invalid := func(reason string) error { return &InvalidFieldError{Field: "url", Value: raw, Reason: reason} }
	u, err := url.Parse(raw)
	if err != nil {
		return "", invalid("not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid("must be an absolute http or https URL")
	}
	if err := hostError(u.Hostname()); err != nil {
		return "", invalid(err.Error())
	}
	if u.Path != "" && u.Path != "/" {
		return "", invalid("must not contain a path; put it in baseUrl")
	}
	if u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", invalid("must not contain credentials, a query or a fragment")
	}
	return u.Scheme + "://" + u.Host, nil
}

func canonicalBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	invalid := func(reason string) error { return &InvalidFieldError{Field: "baseUrl", Value: raw, Reason: reason} }
	switch {
	case !strings.HasPrefix(raw, "/"):
		return "", invalid("must begin with /")
	case strings.Contains(raw, "://") || strings.HasPrefix(raw, "//"):
		return "", invalid("must be a path, not a URL")
	case strings.ContainsAny(raw, "?# "):
		return "", invalid("must not contain a query, fragment or spaces")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw, nil
}

func linkPolicy(field string, raw config.LinkPolicy, def config.LinkPolicy) (config.LinkPolicy, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return def, nil
	}
	p, err := config.ParseLinkPolicy(string(raw))
	if err != nil {
		return "", &InvalidFieldError{Field: field, Value: string(raw), Reason: "must be one of ignore, warn, fail"}
	}
	return p, nil
}

func resolveI18n(in *config.I18nConfig) (I18n, error) {
	if in == nil {
		tag := language.MustParse(DefaultLocale)
		return I18n{
			DefaultLocale: DefaultLocale,
			Locales:       []string{DefaultLocale},
			LocaleConfigs: map[string]LocaleConfig{DefaultLocale: localeDefaults(DefaultLocale, tag)},
		}, nil
	}

	out := I18n{
		DefaultLocale: strings.TrimSpace(in.DefaultLocale),
		Locales:       []string{},
		LocaleConfigs: map[string]LocaleConfig{},
	}
	seen := map[string]bool{}
	for i, l := range in.Locales {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		field := fieldIndex("i18n.locales", i)
		tag, err := language.Parse(l)
		if err != nil {
			return I18n{}, &InvalidFieldError{Field: field, Value: l, Reason: "not a valid BCP 47 language tag"}
		}
		if seen[l] {
			return I18n{}, &InvalidFieldError{Field: field, Value: l, Reason: "duplicate locale"}
		}
		seen[l] = true
		out.Locales = append(out.Locales, l)

		lc := localeDefaults(l, tag)
		if override, ok := in.LocaleConfigs[l]; ok {
			if v := strings.TrimSpace(override.Label); v != "" {
				lc.Label = v
			}
			if v := strings.TrimSpace(override.HTMLLang); v != "" {
				lc.HTMLLang = v
			}
			if v := strings.ToLower(strings.TrimSpace(override.Direction)); v != "" {
				if v != "ltr" && v != "rtl" {
					return I18n{}, &InvalidFieldError{
						Field:  "i18n.localeConfigs." + l + ".direction",
						Value:  override.Direction,
						Reason: "must be ltr or rtl",
					}
				}
				lc.Direction = v
			}
		}
		out.LocaleConfigs[l] = lc
	}

	keys := make([]string, 0, len(in.LocaleConfigs))
	for k := range in.LocaleConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !seen[strings.TrimSpace(k)] {
			return I18n{}, &InvalidFieldError{Field: "i18n.localeConfigs." + k, Value: k, Reason: "not one of i18n.locales"}
		}
	}
	return out, nil
}

func localeDefaults(locale string, tag language.Tag) LocaleConfig {
	label := display.Self.Name(tag)
	if label == "" {
		label = locale
	}
	dir := "ltr"
	if script, _ := tag.Script(); rtlScripts[script.String()] {
		dir = "rtl"
	}
	return LocaleConfig{Label: label, Direction: dir, HTMLLang: tag.String()}
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
