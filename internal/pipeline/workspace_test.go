package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace(t *testing.T) {
	base := t.TempDir()
	jobID := uuid.NewString()

	workspace, err := NewWorkspace(base, jobID, zerolog.Nop())
	require.NoError(t, err)

	t.Run("Workspace Creation", func(t *testing.T) {
		assert.Equal(t, filepath.Join(base, jobID), workspace.GetPath())
		assert.DirExists(t, workspace.GetPath())
		assert.Equal(t, filepath.Join(base, jobID, "narration.wav"), workspace.File("narration.wav"))
	})

	t.Run("File Operations", func(t *testing.T) {
		content := "Hello, narration!"
		require.NoError(t, workspace.WriteFile("test.txt", strings.NewReader(content)))
		assert.True(t, workspace.FileExists("test.txt"))

		size, err := workspace.GetFileSize("test.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), size)

		require.NoError(t, workspace.WriteFile("empty.txt", strings.NewReader("")))
		assert.False(t, workspace.FileExists("empty.txt"), "empty outputs do not count")

		files, err := workspace.ListFiles()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"test.txt", "empty.txt"}, files)
	})

	t.Run("Security Checks", func(t *testing.T) {
		assert.Error(t, workspace.WriteFile("../escape.txt", strings.NewReader("x")))
		assert.Error(t, workspace.WriteFile("/etc/passwd", strings.NewReader("x")))
		assert.False(t, workspace.FileExists("../"+jobID+"/test.txt"))

		_, err := workspace.GetFileSize("../../etc/passwd")
		assert.Error(t, err)
	})

	t.Run("Cleanup", func(t *testing.T) {
		require.NoError(t, workspace.Cleanup())
		_, err := os.Stat(workspace.GetPath())
		assert.True(t, os.IsNotExist(err))
	})
}

func TestNewWorkspaceRejectsBadJobIDs(t *testing.T) {
	base := t.TempDir()
	for _, id := range []string{"", "../up", "a/b", `a\b`} {
		_, err := NewWorkspace(base, id, zerolog.Nop())
		assert.Error(t, err, "job id %q", id)
	}
}

func TestNewWorkspaceBasePathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewWorkspace(file, uuid.NewString(), zerolog.Nop())
	assert.Error(t, err)
}

func TestCleanupOldWorkspaces(t *testing.T) {
	base := t.TempDir()
	manager, err := NewWorkspaceManager(base, zerolog.Nop())
	require.NoError(t, err)

	stale := uuid.NewString()
	fresh := uuid.NewString()
	for _, dir := range []string{stale, fresh, "not-a-job"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0755))
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(base, stale), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(base, "not-a-job"), old, old))

	cleaned, err := manager.CleanupOldWorkspaces(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)

	assert.NoDirExists(t, filepath.Join(base, stale))
	assert.DirExists(t, filepath.Join(base, fresh))
	assert.DirExists(t, filepath.Join(base, "not-a-job"))
}
