package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Starter parameterizes the configuration written by Init.
type Starter struct {
	OrganizationName string
	ProjectName      string
	Title            string
	// RepoURL and EditURL default to GitHub URLs derived from the names.
	RepoURL string
	EditURL string
}

// Example returns a complete starter configuration for the given project,
// matching the layout the scaffolded site uses (docs in content/, assets in static/).
func Example(s Starter) *SiteConfig {
	org := nonEmpty(s.OrganizationName, "my-org")
	project := nonEmpty(s.ProjectName, "my-project")
	title := nonEmpty(s.Title, project)
	repo := nonEmpty(s.RepoURL, fmt.Sprintf("https://github.com/%s/%s", org, project))
	// Edit links append the docs path, so the prefix stops at the site directory.
	editURL := nonEmpty(s.EditURL, repo+"/edit/main/docs/")
	no := false

	return &SiteConfig{
		Title:            title,
		Tagline:          "Project documentation",
		Favicon:          "img/logo.svg",
		URL:              fmt.Sprintf("https://%s.github.io", strings.ToLower(org)),
		BaseURL:          "/" + strings.ToLower(project) + "/",
		OrganizationName: org,
		ProjectName:      project,
		OnBrokenLinks:    LinkPolicyFail,
		Markdown:         MarkdownConfig{Hooks: MarkdownHooks{OnBrokenMarkdownLinks: LinkPolicyWarn}},
		I18n:             &I18nConfig{DefaultLocale: "en", Locales: []string{"en"}},
		Presets: []Reference{{
			Name: "classic",
			Options: map[string]any{
				"docs": map[string]any{
					"path":                 "content",
					"routeBasePath":        "/",
					"sidebarPath":          "sidebars.ts",
					"editUrl":              editURL,
					"showLastUpdateAuthor": true,
					"showLastUpdateTime":   true,
				},
				"blog":  false,
				"theme": map[string]any{"customCss": "src/css/custom.css"},
			},
		}},
		Plugins: []Reference{{Name: "@easyops-cn/docusaurus-search-local"}},
		ThemeConfig: ThemeConfig{
			Image: "img/social-card.png",
			Navbar: &NavbarConfig{
				Title: title,
				Logo:  &LogoConfig{Alt: title, Src: "img/logo.svg"},
				Items: []NavItem{
					{To: "/", Label: "Intro", Position: PositionLeft},
					{Href: repo, Label: "GitHub", Position: PositionRight},
				},
			},
			Footer: &FooterConfig{
				Style:     StyleDark,
				Copyright: fmt.Sprintf("© {year} %s.", org),
				Links: []FooterLinkGroup{{
					Title: "Project",
					Items: []FooterLink{{Label: "GitHub", Href: repo}},
				}},
			},
			Prism:     &PrismConfig{Theme: "github", DarkTheme: "dracula"},
			ColorMode: &ColorModeConfig{DefaultMode: StyleLight, DisableSwitch: &no},
		},
	}
}

// Init writes a starter configuration file. An existing file is only replaced with force.
func Init(configPath string, force bool, s Starter) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(Example(s))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
