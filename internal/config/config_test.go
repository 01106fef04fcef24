package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gobigYAML = `
title: GoBig
tagline: Foundational framework for building apps
favicon: img/logo.svg
url: https://biginformatics.github.io
baseUrl: /gobig/
organizationName: BigInformatics
projectName: gobig
onBrokenLinks: throw
markdown:
  hooks:
    onBrokenMarkdownLinks: warn
i18n:
  defaultLocale: en
  locales: [en]
presets:
  - - classic
    - docs:
        path: content
        routeBasePath: /
        sidebarPath: ./sidebars.ts
        editUrl: https://github.com/BigInformatics/gobig/edit/main/docs/
        showLastUpdateAuthor: true
        showLastUpdateTime: true
      blog: false
      theme:
        customCss: ./src/css/custom.css
plugins:
  - "@easyops-cn/docusaurus-search-local"
themeConfig:
  image: img/social-card.png
  navbar:
    title: GoBig
    logo: {alt: GoBig, src: img/logo.svg}
    items:
      - {to: /, label: Intro, position: left}
      - {href: https://github.com/BigInformatics/gobig, label: GitHub, position: right}
  footer:
    style: dark
    copyright: "© {year} BigInformatics. MIT License."
    links:
      - title: Project
        items:
          - {label: GitHub, href: https://github.com/BigInformatics/gobig}
  prism:
    theme: github
    darkTheme: dracula
  announcementBar:
    id: beta
`

func TestParse_GoBig(t *testing.T) {
	cfg, err := Parse([]byte(gobigYAML))
	require.NoError(t, err)

	assert.Equal(t, "GoBig", cfg.Title)
	assert.Equal(t, "/gobig/", cfg.BaseURL)
	assert.Equal(t, LinkPolicy("throw"), cfg.OnBrokenLinks)
	require.NotNil(t, cfg.I18n)
	assert.Equal(t, []string{"en"}, cfg.I18n.Locales)

	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, "classic", cfg.Presets[0].Name)
	assert.Equal(t, false, cfg.Presets[0].Options["blog"])
	docs, ok := cfg.Presets[0].Options["docs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "content", docs["path"])

	require.Len(t, cfg.Plugins, 1)
	assert.Equal(t, "@easyops-cn/docusaurus-search-local", cfg.Plugins[0].Name)
	assert.Nil(t, cfg.Plugins[0].Options)

	require.NotNil(t, cfg.ThemeConfig.Navbar)
	assert.Len(t, cfg.ThemeConfig.Navbar.Items, 2)
	assert.Contains(t, cfg.ThemeConfig.Extra, "announcementBar")
}

func TestParse_ReferenceSpellings(t *testing.T) {
	cfg, err := Parse([]byte(`
presets:
  - classic
  - name: classic
    options: {blog: false}
  - [classic]
plugins:
  - [./src/plugins/analytics, {id: main}]
`))
	require.NoError(t, err)
	require.Len(t, cfg.Presets, 3)
	for _, p := range cfg.Presets {
		assert.Equal(t, "classic", p.Name)
	}
	assert.Equal(t, map[string]any{"blog": false}, cfg.Presets[1].Options)
	assert.Equal(t, map[string]any{"id": "main"}, cfg.Plugins[0].Options)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("titel: typo\n"))
	require.Error(t, err, "unknown top-level keys are rejected")

	_, err = Parse([]byte("presets:\n  - [classic, {}, extra]\n"))
	require.Error(t, err)

	_, err = Parse([]byte("presets:\n  - [classic, notamap]\n"))
	require.Error(t, err)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SITE_TITLE", "From Env")
	cfg, err := Parse([]byte("title: ${SITE_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &SiteConfig{}, cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(gobigYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LinkPolicyFail, cfg.OnBrokenLinks, "throw is normalized to fail")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := &SiteConfig{URL: "https://example.com", BaseURL: "/docs/"}

	t.Setenv(EnvURL, "https://preview.example.com")
	t.Setenv(EnvBaseURL, "")
	assert.Equal(t, []string{"url"}, ApplyEnvOverrides(cfg))
	assert.Equal(t, "https://preview.example.com", cfg.URL)
	assert.Equal(t, "/docs/", cfg.BaseURL)

	assert.Nil(t, ApplyEnvOverrides(nil))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, Init(path, false, Starter{OrganizationName: "BigInformatics", ProjectName: "gobig", Title: "GoBig"}))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GoBig", cfg.Title)
	assert.Equal(t, "/gobig/", cfg.BaseURL)
	assert.Equal(t, "https://biginformatics.github.io", cfg.URL)
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, false, cfg.Presets[0].Options["blog"])

	err = Init(path, false, Starter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Init(path, true, Starter{}))
}

func TestExample_RepoOverrides(t *testing.T) {
	c := Example(Starter{
		OrganizationName: "group/sub",
		ProjectName:      "widgets",
		RepoURL:          "https://gitlab.com/group/sub/widgets",
		EditURL:          "https://gitlab.com/group/sub/widgets/-/edit/trunk/content/",
	})
	docs := c.Presets[0].Options["docs"].(map[string]any)
	assert.Equal(t, "https://gitlab.com/group/sub/widgets/-/edit/trunk/content/", docs["editUrl"])
	assert.Equal(t, "https://gitlab.com/group/sub/widgets", c.ThemeConfig.Navbar.Items[1].Href)
}
