package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksforge/eksforge/internal/config"
)

func TestWriteConfig_MinimalOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "eksforge.yaml")
	cfg := BuildConfig(DefaultResult())

	require.NoError(t, WriteConfig(cfg, outputPath, false))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "# eksforge cluster configuration")
	assert.Contains(t, text, "Output mode: minimal")
	assert.Contains(t, text, "cluster_name: my-cluster")
	assert.Contains(t, text, "with_oidc: true")
	assert.Contains(t, text, "metrics_server")

	// Defaults stay out of the minimal file.
	assert.NotContains(t, text, "volume_size_gib")
	assert.NotContains(t, text, "storage")
	assert.NotContains(t, text, "cluster_autoscaler")
}

func TestWriteConfig_MinimalRoundTrips(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "eksforge.yaml")
	cfg := BuildConfig(DefaultResult())

	require.NoError(t, WriteConfig(cfg, outputPath, false))

	loaded, err := config.LoadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.ClusterName, loaded.ClusterName)
	assert.Equal(t, cfg.NodeGroups[0].Desired, loaded.NodeGroups[0].Desired)
	assert.Equal(t, cfg.NodeGroups[0].Selector, loaded.NodeGroups[0].Selector)
}

func TestWriteConfig_FullOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "eksforge.yaml")
	cfg := BuildConfig(DefaultResult())

	require.NoError(t, WriteConfig(cfg, outputPath, true))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "Output mode: full")
	assert.Contains(t, text, "volume_size_gib")
	assert.Contains(t, text, "storage")
}

func TestWriteConfig_Permissions(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "eksforge.yaml")
	require.NoError(t, WriteConfig(BuildConfig(DefaultResult()), outputPath, false))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfirmOverwrite_Injected(t *testing.T) {
	orig := confirmOverwrite
	defer func() { confirmOverwrite = orig }()

	confirmOverwrite = func(string) (bool, error) { return true, nil }
	ok, err := ConfirmOverwrite("whatever.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.yaml")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	assert.True(t, FileExists(path))
}
