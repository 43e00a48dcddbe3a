package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esxi-report/internal/model"
)

func writeTempScope(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScopeFile_Success(t *testing.T) {
	path := writeTempScope(t, `
hosts:
  - esx01.lab.local
  - esx02.lab.local
clusters:
  - prod
`)

	selector, err := LoadScopeFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"esx01.lab.local", "esx02.lab.local"}, selector.Hosts)
	assert.Equal(t, []string{"prod"}, selector.Clusters)
	// Hosts win per selector precedence
	assert.Equal(t, model.SelectorHosts, selector.Kind())
}

func TestLoadScopeFile_AllFlag(t *testing.T) {
	path := writeTempScope(t, "all: true\n")

	selector, err := LoadScopeFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.SelectorAll, selector.Kind())
}

func TestLoadScopeFile_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := LoadScopeFile("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScopeFile("/nonexistent/scope.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scope file not found")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempScope(t, "hosts: [broken")
		_, err := LoadScopeFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse scope file")
	})

	t.Run("empty scope", func(t *testing.T) {
		path := writeTempScope(t, "hosts: []\n")
		_, err := LoadScopeFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no scope defined")
	})
}
