package provisioning_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slingModel = `# Sling launchpad
[feature name=:launchpad]

[artifacts]
  org.apache.sling/org.apache.sling.launchpad.base/6.0.0

[feature name=sling version=11]

[variables]
  oak.version=1.22.0

[settings]
  sling.home=launcher

[artifacts startLevel=5]
  org.apache.felix/org.apache.felix.scr/2.1.20
  org.apache.jackrabbit/oak-core/${oak.version} [model=core]

[artifacts startLevel=15 runModes=author,dev]
  com.example/ui/1.0/zip/content

[configurations]
  org.apache.sling.Component
    service.ranking=I"100"
    hosts=["a","b"]
    long.text="first \
second"
  org.apache.sling.Factory-one
    name="one"

[configurations runModes=dev]
  org.apache.sling.Component
    debug=B"true"

[:repoinit]
  create path /content

  set ACL for everyone
    allow jcr:read on /content
  end
`

func TestRead(t *testing.T) {
	m, err := provisioning.Read(strings.NewReader(slingModel), "sling.txt")
	require.NoError(t, err)
	require.Len(t, m.Features, 2)
	assert.Equal(t, "sling.txt", m.Location)

	launchpad := m.Features[0]
	assert.Equal(t, provisioning.LaunchpadFeature, launchpad.Name)
	group := launchpad.RunMode(nil).ArtifactGroup(0)
	require.NotNil(t, group)
	assert.Equal(t, "org.apache.sling.launchpad.base", group.Artifacts[0].ID.ArtifactID)

	sling := m.Features[1]
	assert.Equal(t, "11", sling.Version)
	v, _ := sling.Variables.Get("oak.version")
	assert.Equal(t, "1.22.0", v)

	def := sling.RunMode(nil)
	require.NotNil(t, def)
	home, _ := def.Settings.Get("sling.home")
	assert.Equal(t, "launcher", home)

	g5 := def.ArtifactGroup(5)
	require.NotNil(t, g5)
	require.Len(t, g5.Artifacts, 2)
	assert.Equal(t, "${oak.version}", g5.Artifacts[1].ID.Version)
	meta, _ := g5.Artifacts[1].Metadata.Get("model")
	assert.Equal(t, "core", meta)

	authorDev := sling.RunMode([]string{"dev", "author"})
	require.NotNil(t, authorDev)
	ui := authorDev.ArtifactGroup(15).Artifacts[0]
	assert.Equal(t, "zip", ui.ID.Type)
	assert.Equal(t, "content", ui.ID.Classifier)

	require.Len(t, def.Configurations, 2)
	comp := def.Configuration("org.apache.sling.Component", "")
	require.NotNil(t, comp)
	ranking, _ := comp.Properties.Get("service.ranking")
	assert.Equal(t, int32(100), ranking)
	hosts, _ := comp.Properties.Get("hosts")
	assert.Equal(t, []any{"a", "b"}, hosts)
	text, _ := comp.Properties.Get("long.text")
	assert.Equal(t, "first second", text)

	factory := def.Configuration("one", "org.apache.sling.Factory")
	require.NotNil(t, factory)
	assert.True(t, factory.IsFactory())

	dev := sling.RunMode([]string{"dev"})
	require.NotNil(t, dev)
	debug, _ := dev.Configuration("org.apache.sling.Component", "").Properties.Get("debug")
	assert.Equal(t, true, debug)

	sections := sling.SectionsNamed("repoinit")
	require.Len(t, sections, 1)
	assert.Equal(t, "create path /content\n\nset ACL for everyone\n  allow jcr:read on /content\nend", sections[0].Contents)
}

func TestWriteReadRoundTrip(t *testing.T) {
	m, err := provisioning.Read(strings.NewReader(slingModel), "sling.txt")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, provisioning.Write(&buf, m))

	again, err := provisioning.Read(strings.NewReader(buf.String()), "sling.txt")
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestWrite(t *testing.T) {
	m := provisioning.NewModel()
	f := m.GetOrCreateFeature("app")
	rm := f.GetOrCreateRunMode([]string{"dev"})
	rm.Settings.Put("k", "v")
	a := provisioning.NewArtifact(mustPath(t, "g/a/1"))
	a.Metadata.Put("x", "y")
	rm.GetOrCreateArtifactGroup(0).Add(a)
	cfg := provisioning.NewConfiguration("name", "factory")
	cfg.Properties.Put("n", int64(3))
	rm.Configurations = append(rm.Configurations, cfg)

	var buf bytes.Buffer
	require.NoError(t, provisioning.Write(&buf, m))
	assert.Equal(t, `[feature name=app]

[settings runModes=dev]
  k=v

[artifacts runModes=dev]
  g/a/1 [x=y]

[configurations runModes=dev]
  factory-name
    n=L"3"
`, buf.String())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
	}{
		{name: "content before feature", model: "[artifacts]\n  g/a/1\n"},
		{name: "unknown section", model: "[feature name=a]\n[bogus]\n"},
		{name: "bad start level", model: "[feature name=a]\n[artifacts startLevel=x]\n"},
		{name: "bad artifact", model: "[feature name=a]\n[artifacts]\n  g/a\n"},
		{name: "duplicate feature", model: "[feature name=a]\n[feature name=a]\n"},
		{name: "bad property", model: "[feature name=a]\n[configurations]\n  p\n    k=Q\"1\"\n"},
		{name: "unterminated continuation", model: "[feature name=a]\n[configurations]\n  p\n    k=\"a \\\n"},
		{name: "run mode variables", model: "[feature name=a]\n[variables runModes=x]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provisioning.Read(strings.NewReader(tt.model), "bad.txt")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrModelParse))
			assert.Equal(t, "bad.txt", errors.GetErrorDetails(err)["location"])
		})
	}
}

func TestRead_DefaultFeatureName(t *testing.T) {
	m, err := provisioning.Read(strings.NewReader("[feature]\n[artifacts]\n  g/a/1\n"), "x")
	require.NoError(t, err)
	assert.Equal(t, provisioning.DefaultFeatureName, m.Features[0].Name)
}
