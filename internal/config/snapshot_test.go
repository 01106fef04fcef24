package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStableAcrossNormalizationVariants(t *testing.T) {
	a := &SiteConfig{Title: "Docs ", BaseURL: "/docs", OnBrokenLinks: "throw"}
	b := &SiteConfig{Title: "Docs", BaseURL: "/docs/", OnBrokenLinks: "fail"}
	_, err := NormalizeConfig(a)
	require.NoError(t, err)
	_, err = NormalizeConfig(b)
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestSnapshotDetectsMeaningfulChange(t *testing.T) {
	c := Example(Starter{OrganizationName: "acme", ProjectName: "widgets"})
	before := c.Snapshot()
	assert.Len(t, before, 64)

	c.ThemeConfig.Navbar.Items[0].Label = "Start"
	assert.NotEqual(t, before, c.Snapshot())

	var nilCfg *SiteConfig
	assert.Empty(t, nilCfg.Snapshot())
}
