package resolve

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biginformatics/docsite/internal/config"
)

func withPlugins(refs ...config.Reference) *config.SiteConfig {
	cfg := minimalConfig()
	cfg.Plugins = refs
	return cfg
}

func TestResolve_UnknownPluginPassesThrough(t *testing.T) {
	opts := map[string]any{"trackingID": "G-123", "nested": map[string]any{"a": []any{1, 2}}}
	out, err := Resolve(withPlugins(config.Reference{Name: "docusaurus-plugin-analytics", Options: opts}), Options{})
	require.NoError(t, err)
	require.Len(t, out.Plugins, 1)
	p := out.Plugins[0]
	assert.False(t, p.Known)
	assert.Equal(t, RoleOther, p.Role)
	assert.Equal(t, opts, p.Options)
}

func TestResolve_PluginOrderPreserved(t *testing.T) {
	out, err := Resolve(withPlugins(
		config.Reference{Name: "plugin-a"},
		config.Reference{Name: PluginContentDocs, Options: map[string]any{"id": "api", "path": "api"}},
		config.Reference{Name: "plugin-b"},
		config.Reference{Name: PluginSitemap},
	), Options{})
	require.NoError(t, err)
	names := []string{}
	for _, p := range out.Plugins {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"plugin-a", PluginContentDocs, "plugin-b", PluginSitemap}, names)
	assert.Equal(t, "weekly", out.Plugins[3].Options["changefreq"])
}

func TestResolve_IndexingBeforeContentRejected(t *testing.T) {
	_, err := Resolve(withPlugins(
		config.Reference{Name: PluginSearchLocal},
		config.Reference{Name: PluginContentBlog},
	), Options{})
	ife := requireInvalidField(t, err, "plugins[0]")
	assert.Equal(t, PluginSearchLocal, ife.Value)
	assert.Contains(t, ife.Reason, PluginContentBlog)
}

func TestResolve_DuplicatePlugins(t *testing.T) {
	_, err := Resolve(withPlugins(config.Reference{Name: "plugin-a"}, config.Reference{Name: "plugin-a"}), Options{})
	requireInvalidField(t, err, "plugins[1]")

	// Distinct ids make separate instances.
	_, err = Resolve(withPlugins(
		config.Reference{Name: PluginContentDocs, Options: map[string]any{"id": "one"}},
		config.Reference{Name: PluginContentDocs, Options: map[string]any{"id": "two"}},
	), Options{})
	require.NoError(t, err)
}

func TestResolve_PluginSchema(t *testing.T) {
	_, err := Resolve(withPlugins(config.Reference{
		Name:    PluginSearchLocal,
		Options: map[string]any{"searchResultLimits": "lots"},
	}), Options{})
	var ipe *InvalidPresetOptionError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, PluginSearchLocal, ipe.Preset)
	assert.Equal(t, "searchResultLimits", ipe.Option)
}

func TestResolve_SearchFollowsContent(t *testing.T) {
	cfg := withPlugins(config.Reference{Name: PluginSearchLocal, Options: map[string]any{"hashed": true}})
	cfg.Presets = []config.Reference{{Name: "classic", Options: map[string]any{
		"docs": map[string]any{"routeBasePath": "/guide"},
	}}}
	out, err := Resolve(cfg, Options{})
	require.NoError(t, err)
	opts := out.Plugins[0].Options
	assert.Equal(t, true, opts["hashed"])
	assert.Equal(t, true, opts["indexBlog"])
	assert.Equal(t, "guide", opts["docsRouteBasePath"])
	assert.Equal(t, "blog", opts["blogRouteBasePath"])
	assert.Equal(t, 8, opts["searchResultLimits"])

	// Explicitly indexing a blog that does not exist is a configuration error.
	cfg = withPlugins(config.Reference{Name: PluginSearchLocal, Options: map[string]any{"indexBlog": true}})
	_, err = Resolve(cfg, Options{})
	var ipe *InvalidPresetOptionError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "indexBlog", ipe.Option)

	// Without any content the defaults switch indexing off.
	out, err = Resolve(withPlugins(config.Reference{Name: PluginSearchLocal}), Options{})
	require.NoError(t, err)
	assert.Equal(t, false, out.Plugins[0].Options["indexDocs"])
	assert.Equal(t, false, out.Plugins[0].Options["indexBlog"])
}

func TestResolve_LocalPluginModule(t *testing.T) {
	cfg := withPlugins(config.Reference{Name: "./plugins/tailwind"})
	fsys := fstest.MapFS{"plugins/tailwind/index.js": {Data: []byte("module.exports = {}")}}
	out, err := Resolve(cfg, Options{FS: fsys})
	require.NoError(t, err)
	require.NotNil(t, out.Plugins[0].Module)
	assert.Equal(t, "plugins/tailwind", out.Plugins[0].Module.Path)
	assert.True(t, out.Plugins[0].Module.Verified)

	_, err = Resolve(cfg, Options{FS: fstest.MapFS{}})
	var upe *UnresolvedPathError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, "plugins[0]", upe.Field)
}
