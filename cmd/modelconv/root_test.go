package modelconv

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const launchpadModel = `[feature name=:launchpad]

[artifacts]
  org.apache.sling/org.apache.sling.launchpad.base/6.0.0

[feature name=app]

[artifacts startLevel=5]
  org.apache.jackrabbit/oak-core/1.22.0
  org.example/legacy/1.0.0
`

type testCLI struct {
	env *testutil.Env
	fs  afero.Fs
}

func newTestCLI(t *testing.T, files map[string]string) *testCLI {
	t.Helper()
	return &testCLI{env: testutil.IsolateEnv(t), fs: testutil.NewMemFS(t, files)}
}

func (c *testCLI) run(args ...string) (string, error) {
	a := &app{fs: c.fs, workDir: c.env.WorkDir, userConfigPath: c.env.UserConfigPath()}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--repository", "/repo"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestToFeatureCommand(t *testing.T) {
	cli := newTestCLI(t, map[string]string{"/models/app.txt": launchpadModel})

	out, err := cli.run("to-feature", "/models/app.txt", "-o", "/out",
		"-g", "org.example.features", "--feature-version", "2.0.0", "-e", "legacy", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Command string
		Outputs []struct {
			Path   string
			Status string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "to-feature", result.Command)
	require.Len(t, result.Outputs, 2)

	content := testutil.ReadFile(t, cli.fs, "/out/app_app.json")
	assert.Contains(t, content, "org.example.features")
	assert.Contains(t, content, "2.0.0")
	assert.Contains(t, content, "oak-core")
	assert.NotContains(t, content, "legacy")
	testutil.AssertFileExists(t, cli.fs, "/out/app_launchpad.json")
}

func TestToFeatureCommand_SecondRunIsUpToDate(t *testing.T) {
	cli := newTestCLI(t, map[string]string{"/models/app.txt": launchpadModel})

	_, err := cli.run("to-feature", "/models", "-o", "/out", "--format", "text")
	require.NoError(t, err)

	out, err := cli.run("to-feature", "/models", "-o", "/out", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestToFeatureCommand_MergeInto(t *testing.T) {
	cli := newTestCLI(t, map[string]string{"/models/app.txt": launchpadModel})

	_, err := cli.run("to-feature", "/models/app.txt", "--merge-into", "/out/merged.json", "--format", "text")
	require.NoError(t, err)

	testutil.AssertFileExists(t, cli.fs, "/out/merged_0.json")
	testutil.AssertFileExists(t, cli.fs, "/out/merged_1.json")
}

func TestToFeatureCommand_InvalidFrameworkProperty(t *testing.T) {
	cli := newTestCLI(t, map[string]string{"/models/app.txt": launchpadModel})

	_, err := cli.run("to-feature", "/models/app.txt", "-a", "missing-separator")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestToFeatureCommand_MissingInput(t *testing.T) {
	cli := newTestCLI(t, nil)

	_, err := cli.run("to-feature", "/models/none.txt")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestToProvisioningCommand(t *testing.T) {
	cli := newTestCLI(t, map[string]string{"/models/app.txt": launchpadModel})

	_, err := cli.run("to-feature", "/models/app.txt", "-o", "/features", "--format", "text")
	require.NoError(t, err)

	_, err = cli.run("to-provisioning", "/features/app_app.json", "-o", "/prov", "--format", "text")
	require.NoError(t, err)

	content := testutil.ReadFile(t, cli.fs, "/prov/app_app.txt")
	assert.Contains(t, content, "org.apache.jackrabbit/oak-core/1.22.0")
	assert.Contains(t, content, "[artifacts startLevel=5")
}

func TestGenConfigCommand(t *testing.T) {
	cli := newTestCLI(t, nil)

	out, err := cli.run("genconfig", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "group_id")
	assert.Contains(t, out, "[convert]")
}

func TestGenConfigCommand_Effective(t *testing.T) {
	cli := newTestCLI(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(cli.env.UserConfigPath()), 0755))
	require.NoError(t, os.WriteFile(cli.env.UserConfigPath(), []byte("[convert]\ngroup_id = \"org.user\"\n"), 0644))

	out, err := cli.run("genconfig", "--effective", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "org.user")
}

func TestEnvironmentOverride(t *testing.T) {
	cli := newTestCLI(t, map[string]string{"/models/app.txt": launchpadModel})
	t.Setenv("MODELCONV_CONVERT__GROUP_ID", "org.from.env")

	_, err := cli.run("to-feature", "/models/app.txt", "-o", "/out", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, cli.fs, "/out/app_app.json"), "org.from.env")
}

func TestVersionCommand(t *testing.T) {
	cli := newTestCLI(t, nil)

	out, err := cli.run("version", "--format", "text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "modelconv dev"))
}

func TestNoCommand(t *testing.T) {
	cli := newTestCLI(t, nil)

	_, err := cli.run()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestUnknownFormat(t *testing.T) {
	cli := newTestCLI(t, nil)

	_, err := cli.run("version", "--format", "yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestHelpTopics(t *testing.T) {
	cli := newTestCLI(t, nil)

	out, err := cli.run("help", "option-merge-into")
	require.NoError(t, err)
	assert.Contains(t, out, "--merge-into <file>")

	_, err = cli.run("help", "run-modes")
	require.NoError(t, err)
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrFileNotFound, "input not found").WithDetail("path", "/models/none.txt")

	renderError(&app{format: "json"}, &buf, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Equal(t, "FILE_NOT_FOUND", obj["code"])
}

func TestResolverUsesRepositoryFlag(t *testing.T) {
	env := testutil.IsolateEnv(t)
	a := &app{fs: afero.NewMemMapFs(), workDir: env.WorkDir, userConfigPath: env.UserConfigPath(), repository: "/repo"}
	cfg, err := a.loadConfig(nil)
	require.NoError(t, err)

	logs := testutil.CaptureLogs(t)
	resolver := a.resolver(cfg)

	require.NotNil(t, resolver)
	assert.Contains(t, logs.String(), `"component":"cli"`)
	assert.Contains(t, logs.String(), "Using local repository")
	assert.Contains(t, logs.String(), `"repository":"/repo"`)
}
