package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"index", "resolve", "query", "watch", "serve", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, "expected %q to be registered", name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestVersionCmdPrintsVersionAndCommit(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	defer func() { Version, GitCommit = oldVersion, oldCommit }()
	Version, GitCommit = "1.2.3", "abc123"

	cmd, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "Print the version and commit information", cmd.Short)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = w
	cmd.Run(cmd, nil)
	os.Stdout = oldStdout
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Version: 1.2.3")
	assert.Contains(t, string(out), "Git Commit: abc123")
}
