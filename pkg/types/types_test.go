package types_test

import (
	"testing"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_KeepsInsertionOrder(t *testing.T) {
	m := types.NewOrderedMap[string]()
	m.Put("b", "1")
	m.Put("a", "2")
	m.Put("c", "3")
	m.Put("a", "4")

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "4", v)

	removed, ok := m.Remove("b")
	require.True(t, ok)
	assert.Equal(t, "1", removed)
	assert.Equal(t, []string{"a", "c"}, m.Keys())

	_, ok = m.Remove("missing")
	assert.False(t, ok)
}

func TestOrderedMap_ZeroAndNil(t *testing.T) {
	var nilMap *types.OrderedMap[int]
	assert.Equal(t, 0, nilMap.Len())
	assert.Nil(t, nilMap.Keys())
	assert.False(t, nilMap.Has("x"))
	for range nilMap.All() {
		t.Fatal("nil map must not yield")
	}

	var zero types.OrderedMap[int]
	zero.Put("x", 1)
	assert.Equal(t, 1, zero.Len())
}

func TestOrderedMap_CloneIsIndependent(t *testing.T) {
	m := types.NewOrderedMap[any]()
	m.Put("k", "v")
	c := m.Clone()
	c.Put("other", 1)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}

func TestParseMvnID(t *testing.T) {
	tests := []struct {
		in   string
		want types.ArtifactID
	}{
		{"g:a:1", types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1"}},
		{"g:a:zip:1", types.ArtifactID{GroupID: "g", ArtifactID: "a", Type: "zip", Version: "1"}},
		{"g:a:slingosgifeature:boot:1.0", types.ArtifactID{GroupID: "g", ArtifactID: "a", Type: "slingosgifeature", Classifier: "boot", Version: "1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.ParseMvnID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.MvnID())
		})
	}

	_, err := types.ParseMvnID("g:a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	_, err = types.ParseMvnID("g::1")
	assert.Error(t, err)
}

func TestParseMvnPath(t *testing.T) {
	id, err := types.ParseMvnPath("mvn:org.apache.sling/org.apache.sling.api/2.16.4")
	require.NoError(t, err)
	assert.Equal(t, "org.apache.sling/org.apache.sling.api/2.16.4", id.MvnPath())
	assert.Equal(t, "jar", id.TypeOrDefault())

	id, err = types.ParseMvnPath("g/a/1/zip/cls")
	require.NoError(t, err)
	assert.Equal(t, "zip", id.Type)
	assert.Equal(t, "cls", id.Classifier)
	assert.Equal(t, "g/a/1/zip/cls", id.MvnPath())
	assert.Equal(t, "g:a:zip:cls:1", id.MvnID())

	_, err = types.ParseMvnPath("g/a")
	assert.Error(t, err)
}

func TestArtifactID_SameIdentity(t *testing.T) {
	a := types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1"}
	b := types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "2", Type: "jar"}
	c := types.ArtifactID{GroupID: "g", ArtifactID: "a", Version: "1", Type: "zip"}

	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(c))
	assert.Equal(t, "3", a.WithVersion("3").Version)
}
