package fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCtx = context.Background()
)

func TestNewLocal(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)

	local, err := NewLocal("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(local.rootDir))
}

func TestLocal_Create(t *testing.T) {
	tmpDir := t.TempDir()

	stor, err := NewLocal(tmpDir)
	require.NoError(t, err)

	written, err := stor.Create(testCtx, "1/test", bytes.NewBuffer([]byte{1, 5, 7, 8, 3}))
	assert.NoError(t, err)
	assert.EqualValues(t, 5, written)

	stat, err := os.Stat(filepath.Join(tmpDir, "1", "test"))
	assert.NoError(t, err)
	assert.EqualValues(t, 5, stat.Size())
}

func TestLocal_CreateReplaces(t *testing.T) {
	tmpDir := t.TempDir()

	stor, err := NewLocal(tmpDir)
	require.NoError(t, err)

	_, err = stor.Create(testCtx, "feed.xml", bytes.NewBufferString("first version"))
	require.NoError(t, err)

	_, err = stor.Create(testCtx, "feed.xml", bytes.NewBufferString("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, "feed.xml"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temporary files left behind
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocal_Size(t *testing.T) {
	stor, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = stor.Create(testCtx, "1/test", bytes.NewBuffer([]byte{1, 5, 7, 8, 3}))
	assert.NoError(t, err)

	sz, err := stor.Size(testCtx, "1/test")
	assert.NoError(t, err)
	assert.EqualValues(t, 5, sz)
}

func TestLocal_NoSize(t *testing.T) {
	stor, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = stor.Size(testCtx, "1/test")
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_SizeOfDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "episodes"), 0755))

	stor, err := NewLocal(tmpDir)
	require.NoError(t, err)

	_, err = stor.Size(testCtx, "episodes")
	assert.Error(t, err)
}

func TestLocal_Path(t *testing.T) {
	stor, err := NewLocal("/data")
	require.NoError(t, err)

	tests := []struct {
		name     string
		expected string
	}{
		{"feed.xml", "/data/feed.xml"},
		{"/episodes/ep1.mp3", "/data/episodes/ep1.mp3"},
		{"../../etc/passwd", "/data/etc/passwd"},
		{"a/./b/../c.mp3", "/data/a/c.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := stor.Path(tt.name)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.expected), p)
		})
	}

	_, err = stor.Path("/")
	assert.Error(t, err)
}
