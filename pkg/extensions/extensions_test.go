package extensions_test

import (
	"testing"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/extensions"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cpID = types.ArtifactID{GroupID: "com.example", ArtifactID: "content", Version: "1.0", Type: "zip"}

func contentPackages(meta map[string]string) *feature.Extension {
	ext := feature.NewExtension(extensions.ContentPackages, feature.ExtensionArtifacts, feature.StateRequired)
	a := feature.NewArtifact(cpID)
	for k, v := range meta {
		a.Metadata.Put(k, v)
	}
	ext.Artifacts = append(ext.Artifacts, a)
	return ext
}

func TestApplyToProvisioning_ContentPackages(t *testing.T) {
	tests := []struct {
		name     string
		meta     map[string]string
		override []string
		want     []string
	}{
		{name: "no run modes", want: nil},
		{name: "encoded run modes", meta: map[string]string{"runmodes": "publish,prod"}, want: []string{"publish", "prod"}},
		{name: "override wins", meta: map[string]string{"runmodes": "publish"}, override: []string{"author"}, want: []string{"author"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := provisioning.NewFeature("sling")
			err := extensions.ApplyToProvisioning(contentPackages(tt.meta), target, extensions.Options{Override: tt.override})
			require.NoError(t, err)

			rm := target.RunMode(tt.want)
			require.NotNil(t, rm)
			group := rm.ArtifactGroup(20)
			require.NotNil(t, group)
			require.Len(t, group.Artifacts, 1)
			assert.Equal(t, cpID, group.Artifacts[0].ID)
			assert.False(t, group.Artifacts[0].Metadata.Has("runmodes"))
		})
	}
}

func TestApplyToProvisioning_Repoinit(t *testing.T) {
	text := feature.NewExtension(extensions.Repoinit, feature.ExtensionText, feature.StateRequired)
	text.Text = "create path /a\n"

	target := provisioning.NewFeature("sling")
	require.NoError(t, extensions.ApplyToProvisioning(text, target, extensions.Options{}))
	require.Len(t, target.Sections, 1)
	assert.Equal(t, "repoinit", target.Sections[0].Name)
	assert.Equal(t, "create path /a\n", target.Sections[0].Contents)

	jsonExt := feature.NewExtension(extensions.Repoinit, feature.ExtensionJSON, feature.StateRequired)
	jsonExt.JSON = `["create path /a", "create path /b"]`
	target = provisioning.NewFeature("sling")
	require.NoError(t, extensions.ApplyToProvisioning(jsonExt, target, extensions.Options{
		Override:   []string{"author"},
		SourceName: "/in/my-feature.json",
	}))
	assert.Empty(t, target.Sections)
	rm := target.RunMode([]string{"author"})
	require.NotNil(t, rm)
	cfg := rm.Configuration("my_feature", extensions.RepoinitFactoryPID)
	require.NotNil(t, cfg)
	scripts, _ := cfg.Properties.Get("scripts")
	assert.Equal(t, "create path /a\ncreate path /b\n", scripts)
}

func TestApplyToProvisioning_Unsupported(t *testing.T) {
	artifacts := feature.NewExtension(extensions.Repoinit, feature.ExtensionArtifacts, feature.StateRequired)
	err := extensions.ApplyToProvisioning(artifacts, provisioning.NewFeature("f"), extensions.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedExtension))

	required := feature.NewExtension("api-regions", feature.ExtensionJSON, feature.StateRequired)
	err = extensions.ApplyToProvisioning(required, provisioning.NewFeature("f"), extensions.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedExtension))

	optional := feature.NewExtension("api-regions", feature.ExtensionJSON, feature.StateOptional)
	target := provisioning.NewFeature("f")
	require.NoError(t, extensions.ApplyToProvisioning(optional, target, extensions.Options{}))
	assert.Empty(t, target.RunModes)
	assert.Empty(t, target.Sections)
}

func TestRepoinitFromSections(t *testing.T) {
	source := provisioning.NewFeature("sling")
	for _, contents := range []string{"create path /a", "create path /b"} {
		s := provisioning.NewSection("repoinit")
		s.Contents = contents
		source.Sections = append(source.Sections, s)
	}
	source.Sections = append(source.Sections, provisioning.NewSection("other"))

	target := feature.New(types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1"})
	require.NoError(t, extensions.RepoinitFromSections(source, target))
	ext := target.Extension("repoinit")
	require.NotNil(t, ext)
	assert.Equal(t, feature.ExtensionText, ext.Type)
	assert.True(t, ext.Required())
	assert.Equal(t, "create path /a\ncreate path /b\n", ext.Text)

	err := extensions.RepoinitFromSections(source, target)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateRepoinit))

	empty := feature.New(types.ArtifactID{GroupID: "g", ArtifactID: "b", Version: "1"})
	require.NoError(t, extensions.RepoinitFromSections(provisioning.NewFeature("x"), empty))
	assert.Empty(t, empty.Extensions)
}

func TestRepoinitConfigName(t *testing.T) {
	assert.Equal(t, "my_feature", extensions.RepoinitConfigName("my-feature.json"))
	assert.Equal(t, "a_b", extensions.RepoinitConfigName("/x/y/a-b.json"))
	assert.Equal(t, "plain", extensions.RepoinitConfigName("plain"))
}

func TestAddContentPackage(t *testing.T) {
	f := feature.New(types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1"})
	extensions.AddContentPackage(f, feature.NewArtifact(cpID))
	extensions.AddContentPackage(f, feature.NewArtifact(cpID.WithVersion("2.0")))
	require.Len(t, f.Extensions, 1)
	assert.Len(t, f.Extensions[0].Artifacts, 2)
	assert.Equal(t, feature.ExtensionArtifacts, f.Extensions[0].Type)
}
