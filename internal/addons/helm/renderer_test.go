package helm

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chart"
)

func testChart() *chart.Chart {
	return &chart.Chart{
		Metadata: &chart.Metadata{
			Name:       "test-chart",
			Version:    "1.0.0",
			APIVersion: chart.APIVersionV2,
		},
		Values: map[string]any{
			"replicas": 1,
			"label":    "default",
		},
		Templates: []*chart.File{
			{
				Name: "templates/configmap.yaml",
				Data: []byte(`apiVersion: v1
kind: ConfigMap
metadata:
  name: {{ .Release.Name }}
  namespace: {{ .Release.Namespace }}
data:
  replicas: {{ .Values.replicas | quote }}
  label: {{ .Values.label | quote }}
  kubeVersion: {{ .Capabilities.KubeVersion.Version | quote }}
`),
			},
			{
				Name: "templates/NOTES.txt",
				Data: []byte("installed!"),
			},
		},
	}
}

func TestRenderChart(t *testing.T) {
	t.Parallel()
	r := NewRenderer("demo", "kube-system", "1.31")

	out, err := r.renderChart(testChart(), Values{"replicas": 3})
	require.NoError(t, err)

	manifest := string(out)
	assert.Contains(t, manifest, "name: demo")
	assert.Contains(t, manifest, "namespace: kube-system")
	assert.Contains(t, manifest, `replicas: "3"`)
	// Chart defaults survive a partial override.
	assert.Contains(t, manifest, `label: "default"`)
	assert.Contains(t, manifest, `kubeVersion: "v1.31.0"`)
	// NOTES.txt never reaches the manifest stream.
	assert.NotContains(t, manifest, "installed!")
}

func TestRenderChart_DefaultCapabilities(t *testing.T) {
	t.Parallel()
	r := NewRenderer("demo", "default", "")

	out, err := r.renderChart(testChart(), nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "kubeVersion:"))
}

func TestRenderChart_BadKubeVersion(t *testing.T) {
	t.Parallel()
	r := NewRenderer("demo", "default", "1.31.2.9")

	_, err := r.renderChart(testChart(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "major.minor")
}

// writeTestChart materializes a minimal chart directory under dir.
func writeTestChart(t *testing.T, dir string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Chart.yaml"), []byte(
		"apiVersion: v2\nname: local-chart\nversion: 0.1.0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "configmap.yaml"), []byte(
		"apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: {{ .Release.Name }}\n  namespace: {{ .Release.Namespace }}\n"), 0644))
}

func TestRenderFromPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestChart(t, dir)

	out, err := RenderFromPath(dir, "demo", "kube-system", "1.31", nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: ConfigMap")
	assert.Contains(t, string(out), "name: demo")
}

func TestRenderFromPath_MissingChart(t *testing.T) {
	t.Parallel()
	_, err := RenderFromPath(filepath.Join(t.TempDir(), "nope"), "demo", "kube-system", "1.31", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load chart")
}

func TestRenderFromSpec_LocalPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestChart(t, dir)

	spec := ChartSpec{Name: "local-chart", LocalPath: dir}
	out, err := RenderFromSpec(context.Background(), spec, "kube-system", "1.31", nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: local-chart")
}

func TestCapabilitiesFor(t *testing.T) {
	t.Parallel()
	caps, err := capabilitiesFor("1.29")
	require.NoError(t, err)
	assert.Equal(t, "v1.29.0", caps.KubeVersion.Version)
	assert.Equal(t, "1", caps.KubeVersion.Major)
	assert.Equal(t, "29", caps.KubeVersion.Minor)

	_, err = capabilitiesFor("131")
	assert.Error(t, err)
}
