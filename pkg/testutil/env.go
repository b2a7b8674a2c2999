package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

// Env describes the isolated directories set up by IsolateEnv
type Env struct {
	Root       string
	ConfigHome string
	StateHome  string
	WorkDir    string
}

// UserConfigPath is where the user configuration file is looked up
func (e *Env) UserConfigPath() string {
	return filepath.Join(e.ConfigHome, "modelconv", "config.toml")
}

// IsolateEnv points the XDG directories at a temporary directory and clears
// MODELCONV_ overrides inherited from the caller's environment. The variables
// are restored when the test ends.
func IsolateEnv(t *testing.T) *Env {
	t.Helper()
	root := t.TempDir()
	env := &Env{
		Root:       root,
		ConfigHome: filepath.Join(root, "config"),
		StateHome:  filepath.Join(root, "state"),
		WorkDir:    filepath.Join(root, "work"),
	}
	for _, dir := range []string{env.ConfigHome, env.StateHome, env.WorkDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	// runs after the variables are restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	xdg.Reload()

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "MODELCONV_") {
			t.Setenv(name, "")
			if err := os.Unsetenv(name); err != nil {
				t.Fatalf("Failed to unset %s: %v", name, err)
			}
		}
	}
	return env
}
