package startlevel_test

import (
	"testing"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/startlevel"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFeature(t *testing.T) {
	assert.Equal(t, 1, startlevel.ForFeature(provisioning.BootFeature, 0))
	assert.Equal(t, 20, startlevel.ForFeature("sling", 0))
	assert.Equal(t, 20, startlevel.ForFeature(provisioning.LaunchpadFeature, 0))
	assert.Equal(t, 5, startlevel.ForFeature(provisioning.BootFeature, 5))
	assert.Equal(t, 15, startlevel.ForFeature("sling", 15))
}

func TestPlace(t *testing.T) {
	tests := []struct {
		name       string
		startLevel string
		startOrder int
		modes      []string
		want       startlevel.Placement
	}{
		{name: "nothing set", want: startlevel.Placement{Level: 20}},
		{name: "start order", startOrder: 7, want: startlevel.Placement{Level: 7}},
		{name: "explicit level wins", startLevel: "3", startOrder: 7, want: startlevel.Placement{Level: 3}},
		{name: "zero level falls back to start order", startLevel: "0", startOrder: 7, want: startlevel.Placement{Level: 7}},
		{name: "sentinel", startLevel: ":boot", want: startlevel.Placement{Sentinel: ":boot"}},
		{name: "run modes without sentinel", startLevel: "4", modes: []string{"dev"}, want: startlevel.Placement{Level: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := startlevel.Place(tt.startLevel, tt.startOrder, tt.modes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlace_SentinelWithRunModes(t *testing.T) {
	_, err := startlevel.Place(":boot", 0, []string{"author"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEncodingConflict))
}

func TestPlace_InvalidLevel(t *testing.T) {
	_, err := startlevel.Place("soon", 0, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSentinels(t *testing.T) {
	s := startlevel.NewSentinels()
	assert.Equal(t, 0, s.Len())

	a := provisioning.NewArtifact(types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1"})
	b := provisioning.NewArtifact(types.ArtifactID{GroupID: "g", ArtifactID: "b", Version: "1"})
	c := provisioning.NewArtifact(types.ArtifactID{GroupID: "g", ArtifactID: "c", Version: "1"})
	s.Add(":launchpad", a)
	s.Add(":boot", b)
	s.Add(":launchpad", c)

	features := s.Features()
	require.Len(t, features, 2)
	assert.Equal(t, ":launchpad", features[0].Name)
	assert.Equal(t, ":boot", features[1].Name)

	group := features[0].RunMode(nil).ArtifactGroup(0)
	require.NotNil(t, group)
	assert.Equal(t, []*provisioning.Artifact{a, c}, group.Artifacts)
}
