package resolve

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biginformatics/docsite/internal/config"
)

func requireUnresolved(t *testing.T, err error, field string) *UnresolvedPathError {
	t.Helper()
	var upe *UnresolvedPathError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, field, upe.Field)
	return upe
}

func TestResolve_MissingFilesAreReported(t *testing.T) {
	tests := []struct {
		name   string
		remove string
		field  string
	}{
		{"favicon", "static/img/logo.svg", "favicon"},
		{"docs dir", "content/intro.md", "presets[0].docs.path"},
		{"sidebar", "sidebars.ts", "presets[0].docs.sidebarPath"},
		{"custom css", "src/css/custom.css", "presets[0].theme.customCss[0]"},
		{"social card", "static/img/social-card.png", "themeConfig.image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := gobigFS()
			delete(fsys, tt.remove)
			_, err := Resolve(gobigConfig(t), Options{FS: fsys})
			requireUnresolved(t, err, tt.field)
		})
	}
}

func TestResolve_StaticSearchOrder(t *testing.T) {
	cfg := minimalConfig()
	cfg.Favicon = "/img/favicon.ico"
	cfg.StaticDirectories = []string{"static", "assets"}

	fsys := fstest.MapFS{"assets/img/favicon.ico": {Data: []byte{0}}}
	out, err := Resolve(cfg, Options{FS: fsys})
	require.NoError(t, err)
	assert.Equal(t, "assets/img/favicon.ico", out.Favicon.Path)
	assert.Equal(t, "/gobig/img/favicon.ico", out.Favicon.URL)
	assert.True(t, out.Favicon.Verified)

	fsys["static/img/favicon.ico"] = &fstest.MapFile{Data: []byte{1}}
	out, err = Resolve(cfg, Options{FS: fsys})
	require.NoError(t, err)
	assert.Equal(t, "static/img/favicon.ico", out.Favicon.Path, "earlier directories win")

	_, err = Resolve(cfg, Options{FS: fstest.MapFS{}})
	upe := requireUnresolved(t, err, "favicon")
	assert.Equal(t, []string{"static/img/favicon.ico", "assets/img/favicon.ico"}, upe.Searched)
	assert.Contains(t, err.Error(), "assets/img/favicon.ico")
}

func TestResolve_ExternalAssetsAreExempt(t *testing.T) {
	cfg := minimalConfig()
	cfg.Favicon = "https://cdn.gobig.dev/favicon.ico"
	cfg.ThemeConfig.Image = "data:image/png;base64,AAAA"
	out, err := Resolve(cfg, Options{FS: fstest.MapFS{}})
	require.NoError(t, err)
	assert.True(t, out.Favicon.External)
	assert.Equal(t, "https://cdn.gobig.dev/favicon.ico", out.Favicon.URL)
	assert.Empty(t, out.Favicon.Path)
	assert.True(t, out.Theme.Image.External)
}

func TestResolve_PathsEscapingRoot(t *testing.T) {
	cfg := minimalConfig()
	cfg.Favicon = "../secrets/favicon.ico"
	_, err := Resolve(cfg, Options{})
	upe := requireUnresolved(t, err, "favicon")
	assert.Contains(t, upe.Reason, "escape")
}

func TestResolve_WrongEntryKind(t *testing.T) {
	cfg := withPreset("classic", map[string]any{"docs": map[string]any{"sidebarPath": "sidebars"}})
	fsys := fstest.MapFS{
		"docs/intro.md":      {Data: []byte("# Intro")},
		"sidebars/index.js":  {Data: []byte("")},
		"src/pages/index.md": {Data: []byte("")},
	}
	_, err := Resolve(cfg, Options{FS: fsys})
	upe := requireUnresolved(t, err, "presets[0].docs.sidebarPath")
	assert.Contains(t, upe.Reason, "directory")

	cfg = withPreset("classic", nil)
	_, err = Resolve(cfg, Options{FS: fstest.MapFS{"docs": {Data: []byte("not a dir")}}})
	upe = requireUnresolved(t, err, "presets[0].docs.path")
	assert.Contains(t, upe.Reason, "expected a directory")
}

func TestResolve_WithoutFilesystemDefersChecks(t *testing.T) {
	out, err := Resolve(gobigConfig(t), Options{})
	require.NoError(t, err)
	for _, a := range out.Assets {
		assert.False(t, a.Verified, a.Field)
		if !a.External {
			assert.NotEmpty(t, a.Path, a.Field)
			assert.Empty(t, a.AbsPath, "no project root configured")
		}
	}
}

func TestResolve_LogoAssets(t *testing.T) {
	cfg := minimalConfig()
	cfg.ThemeConfig.Navbar = &config.NavbarConfig{Logo: &config.LogoConfig{Src: "img/logo.svg", SrcDark: "img/logo-dark.svg"}}
	fsys := fstest.MapFS{"static/img/logo.svg": {Data: []byte("<svg/>")}}
	_, err := Resolve(cfg, Options{FS: fsys})
	requireUnresolved(t, err, "themeConfig.navbar.logo.srcDark")

	fsys["static/img/logo-dark.svg"] = &fstest.MapFile{Data: []byte("<svg/>")}
	out, err := Resolve(cfg, Options{FS: fsys})
	require.NoError(t, err)
	assert.Equal(t, "/gobig/img/logo-dark.svg", out.Theme.Navbar.Logo.SrcDark.URL)
}
