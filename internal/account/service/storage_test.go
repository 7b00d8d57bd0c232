package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStorage(t *testing.T) {
	root := t.TempDir()
	s := NewExportStorage(root)

	path, err := s.Save("user-1", "../report.txt", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "user-1", "report.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	assert.Equal(t, []string{"report.txt"}, s.List("user-1"))
	assert.Empty(t, s.List("nobody"))
}

func TestExportStorageDisabled(t *testing.T) {
	path, err := NewExportStorage("").Save("user-1", "report.txt", []byte("data"))
	require.NoError(t, err)
	assert.Empty(t, path)
}
