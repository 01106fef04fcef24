package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConfig_Nil(t *testing.T) {
	_, err := NormalizeConfig(nil)
	require.Error(t, err)
}

func TestNormalizeConfig_SlashesAndWhitespace(t *testing.T) {
	cfg := &SiteConfig{
		Title:   "  GoBig ",
		URL:     "https://example.com/",
		BaseURL: "/gobig",
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "GoBig", cfg.Title)
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, "/gobig/", cfg.BaseURL)
	assert.Len(t, res.Warnings, 2)
}

func TestNormalizeConfig_Policies(t *testing.T) {
	cfg := &SiteConfig{
		OnBrokenLinks:         "THROW",
		OnBrokenMarkdownLinks: "log",
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, LinkPolicyFail, cfg.OnBrokenLinks)
	assert.Equal(t, LinkPolicyWarn, cfg.Markdown.Hooks.OnBrokenMarkdownLinks)
	assert.Empty(t, cfg.OnBrokenMarkdownLinks)
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeConfig_UnknownPolicyLeftForResolver(t *testing.T) {
	cfg := &SiteConfig{OnBrokenLinks: "explode"}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, LinkPolicy("explode"), cfg.OnBrokenLinks)
	assert.Empty(t, res.Warnings)
}

func TestNormalizeConfig_DeprecatedPolicyConflict(t *testing.T) {
	cfg := &SiteConfig{
		OnBrokenMarkdownLinks: "ignore",
		Markdown:              MarkdownConfig{Hooks: MarkdownHooks{OnBrokenMarkdownLinks: "warn"}},
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, LinkPolicyWarn, cfg.Markdown.Hooks.OnBrokenMarkdownLinks)
	assert.Contains(t, res.Warnings[0], "ignoring deprecated")
}

func TestNormalizeConfig_LocalesKeepOrder(t *testing.T) {
	cfg := &SiteConfig{I18n: &I18nConfig{DefaultLocale: " fr ", Locales: []string{"fr", " en", "fr", ""}}}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.I18n.DefaultLocale)
	assert.Equal(t, []string{"fr", "en"}, cfg.I18n.Locales)
	assert.Equal(t, []string{"normalized i18n.locales list (4 -> 2 entries)"}, res.Warnings)
}

func TestNormalizeConfig_StaticDirectoriesAndReferences(t *testing.T) {
	cfg := &SiteConfig{
		StaticDirectories: []string{"static", " ", "public "},
		Presets:           []Reference{{Name: " classic "}},
	}
	_, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"static", "public"}, cfg.StaticDirectories)
	assert.Equal(t, "classic", cfg.Presets[0].Name)
}
