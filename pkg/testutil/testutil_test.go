package testutil

import (
	"os"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestMemFS(t *testing.T) {
	fs := NewMemFS(t, map[string]string{
		"/models/app.txt": "[feature name=app]\n",
	})

	AssertFileExists(t, fs, "/models/app.txt")
	AssertNoFile(t, fs, "/models/other.txt")
	assert.Equal(t, "[feature name=app]\n", ReadFile(t, fs, "/models/app.txt"))

	WriteFile(t, fs, "/out/nested/app.json", "{}")
	assert.Equal(t, "{}", ReadFile(t, fs, "/out/nested/app.json"))
}

func TestIsolateEnv(t *testing.T) {
	t.Setenv("MODELCONV_CONVERT__GROUP_ID", "org.example")

	env := IsolateEnv(t)

	assert.Equal(t, env.ConfigHome, os.Getenv("XDG_CONFIG_HOME"))
	assert.DirExists(t, env.WorkDir)
	_, set := os.LookupEnv("MODELCONV_CONVERT__GROUP_ID")
	assert.False(t, set)
	assert.Contains(t, env.UserConfigPath(), "modelconv")
}

func TestCaptureLogs(t *testing.T) {
	buf := CaptureLogs(t)

	log.Debug().Str("component", "test").Msg("captured")

	assert.Contains(t, buf.String(), `"message":"captured"`)
}
