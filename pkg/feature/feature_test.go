package feature_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "id": "generated:sling:slingosgifeature:boot:1.0.0",
  "title": "Sling",
  "variables": {
    "oak.version": "1.22.0",
    "empty": null
  },
  "framework-properties": {
    "sling.home": "launcher",
    "org.osgi.framework.startlevel.beginning": "30"
  },
  "bundles": [
    "org.apache.felix:org.apache.felix.scr:2.1.20",
    {
      "id": "org.apache.sling:org.apache.sling.api:2.22.0",
      "start-order": 5,
      "run-modes": "author,dev"
    }
  ],
  "configurations": {
    "org.apache.sling.Component.runmodes.dev": {
      "service.ranking:Integer": 100,
      "enabled": true,
      "timeout": 3000,
      "ratio": 1.5,
      "hosts": ["a", "b"],
      "ports:Integer[]": [80, 443],
      "..internal": "x"
    },
    "org.apache.sling.Factory~one": {
      "name": "one"
    }
  },
  "repoinit:TEXT|required": "create service user a\n",
  "content-packages:ARTIFACTS|true": [
    {"id": "com.example:content:zip:1.0", "runmodes": "publish"}
  ],
  "custom:JSON|optional": {"z": 1, "a": [true]}
}`

func TestRead(t *testing.T) {
	f, err := feature.Read(strings.NewReader(sample), "sling.json")
	require.NoError(t, err)

	assert.Equal(t, types.ArtifactID{GroupID: "generated", ArtifactID: "sling", Type: "slingosgifeature", Classifier: "boot", Version: "1.0.0"}, f.ID)
	assert.Equal(t, "Sling", f.Title)
	assert.Equal(t, "sling.json", f.Location)
	assert.Equal(t, []string{"oak.version", "empty"}, f.Variables.Keys())
	assert.Equal(t, []string{"sling.home", "org.osgi.framework.startlevel.beginning"}, f.FrameworkProperties.Keys())

	require.Len(t, f.Bundles, 2)
	assert.Equal(t, 0, f.Bundles[0].StartOrder())
	assert.Equal(t, 5, f.Bundles[1].StartOrder())
	runModes, _ := f.Bundles[1].Metadata.Get("run-modes")
	assert.Equal(t, "author,dev", runModes)

	require.Len(t, f.Configurations, 2)
	cfg := f.Configurations[0]
	assert.Equal(t, []string{"service.ranking", "enabled", "timeout", "ratio", "hosts", "ports", "..internal"}, cfg.Properties.Keys())
	v, _ := cfg.Properties.Get("service.ranking")
	assert.Equal(t, int32(100), v)
	v, _ = cfg.Properties.Get("enabled")
	assert.Equal(t, true, v)
	v, _ = cfg.Properties.Get("timeout")
	assert.Equal(t, int64(3000), v)
	v, _ = cfg.Properties.Get("ratio")
	assert.Equal(t, 1.5, v)
	v, _ = cfg.Properties.Get("hosts")
	assert.Equal(t, []any{"a", "b"}, v)
	v, _ = cfg.Properties.Get("ports")
	assert.Equal(t, []any{int32(80), int32(443)}, v)

	factory := f.Configurations[1]
	assert.True(t, factory.IsFactory())
	assert.Equal(t, "org.apache.sling.Factory", factory.FactoryPID())
	assert.Equal(t, "one", factory.Name())
	assert.False(t, cfg.IsFactory())

	require.Len(t, f.Extensions, 3)
	repoinit := f.Extension("repoinit")
	require.NotNil(t, repoinit)
	assert.Equal(t, feature.ExtensionText, repoinit.Type)
	assert.True(t, repoinit.Required())
	assert.Equal(t, "create service user a\n", repoinit.Text)

	cp := f.Extension("content-packages")
	require.NotNil(t, cp)
	assert.Equal(t, feature.StateRequired, cp.State)
	require.Len(t, cp.Artifacts, 1)
	assert.Equal(t, "zip", cp.Artifacts[0].ID.Type)

	custom := f.Extension("custom")
	require.NotNil(t, custom)
	assert.False(t, custom.Required())
	assert.Equal(t, `{"z":1,"a":[true]}`, custom.JSON)
	var decoded map[string]any
	require.NoError(t, feature.UnmarshalJSONExtension(custom, &decoded))
	assert.Len(t, decoded, 2)
}

func TestWriteReadRoundTrip(t *testing.T) {
	f, err := feature.Read(strings.NewReader(sample), "sling.json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, feature.Write(&buf, f))
	out := buf.String()
	assert.Contains(t, out, `"service.ranking:Integer": 100`)
	assert.Contains(t, out, `"repoinit:TEXT|required"`)
	assert.Contains(t, out, `"content-packages:ARTIFACTS|required"`)
	assert.Contains(t, out, `"org.apache.felix:org.apache.felix.scr:2.1.20"`)
	assert.Less(t, strings.Index(out, "sling.home"), strings.Index(out, "startlevel.beginning"))

	again, err := feature.Read(strings.NewReader(out), "sling.json")
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestReadTextExtensionLines(t *testing.T) {
	doc := `{"id":"g:a:1","repoinit:TEXT|required":["line one","line two"]}`
	f, err := feature.Read(strings.NewReader(doc), "f.json")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", f.Extension("repoinit").Text)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{`},
		{name: "not an object", doc: `[]`},
		{name: "no id", doc: `{"bundles": []}`},
		{name: "bad id", doc: `{"id": "nope"}`},
		{name: "bad bundle", doc: `{"id": "g:a:1", "bundles": [1]}`},
		{name: "bad extension type", doc: `{"id": "g:a:1", "x:BLOB|true": 1}`},
		{name: "bad typed value", doc: `{"id": "g:a:1", "configurations": {"p": {"n:Integer": "many"}}}`},
		{name: "trailing data", doc: `{"id": "g:a:1"} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := feature.Read(strings.NewReader(tt.doc), "f.json")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrModelParse))
		})
	}
}

func TestParseExtensionKey(t *testing.T) {
	name, typ, state, err := feature.ParseExtensionKey("api-regions:JSON|false")
	require.NoError(t, err)
	assert.Equal(t, "api-regions", name)
	assert.Equal(t, feature.ExtensionJSON, typ)
	assert.Equal(t, feature.StateOptional, state)

	name, typ, state, err = feature.ParseExtensionKey("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", name)
	assert.Equal(t, feature.ExtensionJSON, typ)
	assert.Equal(t, feature.StateOptional, state)

	_, _, state, err = feature.ParseExtensionKey("t:TEXT|transient")
	require.NoError(t, err)
	assert.Equal(t, feature.StateTransient, state)

	_, _, _, err = feature.ParseExtensionKey("t:TEXT|sometimes")
	assert.Error(t, err)
}

func TestWrite_InvalidJSONExtension(t *testing.T) {
	f := feature.New(types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1"})
	ext := feature.NewExtension("broken", feature.ExtensionJSON, feature.StateOptional)
	ext.JSON = "{"
	f.Extensions = append(f.Extensions, ext)
	err := feature.Write(&bytes.Buffer{}, f)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModelWrite))
}
