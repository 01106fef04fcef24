package editlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectForge(t *testing.T) {
	assert.Equal(t, ForgeGitHub, DetectForge("github.com"))
	assert.Equal(t, ForgeGitHub, DetectForge("GitHub.example.org"))
	assert.Equal(t, ForgeGitLab, DetectForge("gitlab.com"))
	assert.Equal(t, ForgeForgejo, DetectForge("codeberg.org"))
	assert.Equal(t, ForgeUnknown, DetectForge("example.com"))
}

func TestEditBase(t *testing.T) {
	tests := []struct {
		forge ForgeType
		want  string
	}{
		{ForgeGitHub, "https://github.com/gobig/site/edit/main/"},
		{ForgeGitLab, "https://github.com/gobig/site/-/edit/main/"},
		{ForgeForgejo, "https://github.com/gobig/site/_edit/main/"},
		{ForgeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.forge), func(t *testing.T) {
			assert.Equal(t, tt.want, EditBase(tt.forge, "https://github.com/", "gobig/site", "main"))
		})
	}
	assert.Empty(t, EditBase(ForgeGitHub, "https://github.com", "gobig/site", ""))
}

func TestCanonical(t *testing.T) {
	got, err := Canonical("https://github.com/gobig/site/edit/main//")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/gobig/site/edit/main/", got)

	_, err = Canonical("github.com/gobig/site")
	require.Error(t, err)
	_, err = Canonical("ftp://example.com/x")
	require.Error(t, err)
}

func TestJoin(t *testing.T) {
	base := "https://github.com/gobig/site/edit/main/"
	assert.Equal(t, base+"docs/intro.md", Join(base, "docs/intro.md"))
	assert.Equal(t, base+"docs/intro.md", Join(base, "/docs/./intro.md"))
	assert.Equal(t, base+"docs/intro.md", Join(base, `docs\intro.md`))
	assert.Equal(t, base, Join(base, ""))
	assert.Empty(t, Join("", "docs/intro.md"))
}
