package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var helpFS = fstest.MapFS{
	"help/run-modes.md":          {Data: []byte("# Run modes\n\nEncoded as `.runmodes.`")},
	"help/option-merge-into.txt": {Data: []byte("Merges all inputs")},
	"help/notes.rst":             {Data: []byte("ignored")},
}

func TestScan(t *testing.T) {
	tm := NewWithOptions(Options{})
	require.NoError(t, tm.Scan(helpFS, "help"))

	assert.Equal(t, []string{"option-merge-into", "run-modes"}, tm.ListTopics())

	topic, ok := tm.GetTopic("run-modes")
	require.True(t, ok)
	assert.Equal(t, "help/run-modes.md", topic.FilePath)

	topic, ok = tm.GetTopic("--merge-into")
	require.True(t, ok)
	assert.Equal(t, "Merges all inputs", topic.Content)

	_, ok = tm.GetTopic("notes")
	assert.False(t, ok)

	tm = NewWithOptions(Options{Extensions: []string{".rst"}})
	require.NoError(t, tm.Scan(helpFS, "help"))
	assert.Equal(t, []string{"notes"}, tm.ListTopics())

	assert.Error(t, NewWithOptions(Options{}).Scan(helpFS, "missing"))
}

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "tool", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(&cobra.Command{Use: "convert", Short: "Convert things", Run: func(*cobra.Command, []string) {}})
	return root
}

func runHelp(t *testing.T, root *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"help"}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestInitialize(t *testing.T) {
	root := newRoot()
	_, err := Initialize(root, helpFS, "help", Options{})
	require.NoError(t, err)

	out := runHelp(t, root, "topics")
	assert.Contains(t, out, "General topics:\n  run-modes")
	assert.Contains(t, out, "Option topics:\n  --merge-into")
	assert.Contains(t, out, "tool help <topic>")

	out = runHelp(t, root, "run-modes")
	assert.True(t, strings.HasPrefix(out, "# Run modes"))

	out = runHelp(t, root, "convert")
	assert.Contains(t, out, "Convert things")
}

func TestGlamourRendererPassesPlainText(t *testing.T) {
	r := &GlamourRenderer{Style: "notty"}
	assert.Equal(t, "plain", r.Render("plain", ".txt"))
	assert.Contains(t, r.Render("# Title", ".md"), "Title")
}
