package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chilitreat/postindex/internal/config"
	"github.com/chilitreat/postindex/internal/hashtag"
)

func TestProjectConfigTemplate_MatchesDefaults(t *testing.T) {
	// Given: the built-in defaults with the default alias groups spelled out
	want := config.NewConfig()
	want.Tags.Aliases = hashtag.DefaultAliasGroups

	// When: parsing the embedded template
	got := config.NewConfig()
	require.NoError(t, yaml.Unmarshal([]byte(ProjectConfigTemplate), got))

	// Then: it documents exactly the defaults
	require.NoError(t, got.Validate())
	assert.Equal(t, want, got)
}
