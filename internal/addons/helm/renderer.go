package helm

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// Renderer renders Helm charts with provided values.
type Renderer struct {
	chartName   string
	namespace   string
	kubeVersion string
}

// NewRenderer creates a renderer for the specified chart. kubeVersion is the
// cluster's Kubernetes minor version, e.g. "1.31"; it drives the capability
// checks charts use to pick API versions.
func NewRenderer(chartName, namespace, kubeVersion string) *Renderer {
	return &Renderer{
		chartName:   chartName,
		namespace:   namespace,
		kubeVersion: kubeVersion,
	}
}

// RenderFromSpec downloads a chart at runtime and renders it with the
// provided values. This is the primary rendering path for Helm addons. A
// spec carrying a LocalPath renders from disk instead.
func RenderFromSpec(ctx context.Context, spec ChartSpec, namespace, kubeVersion string, values Values) ([]byte, error) {
	if spec.LocalPath != "" {
		return RenderFromPath(spec.LocalPath, spec.Name, namespace, kubeVersion, values)
	}

	loadedChart, err := DownloadChart(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart: %w", err)
	}

	renderer := NewRenderer(spec.Name, namespace, kubeVersion)

	manifests, err := renderer.renderChart(loadedChart, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return manifests, nil
}

// RenderFromPath renders a chart from a local filesystem path with the
// provided values. Useful for charts vendored alongside the binary or
// during development.
func RenderFromPath(chartPath, releaseName, namespace, kubeVersion string, values Values) ([]byte, error) {
	loadedChart, err := loadChartFromPath(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	renderer := NewRenderer(releaseName, namespace, kubeVersion)

	manifests, err := renderer.renderChart(loadedChart, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return manifests, nil
}

// renderChart uses the helm engine to render the chart with values.
func (r *Renderer) renderChart(ch *chart.Chart, values Values) ([]byte, error) {
	// ch.Values is already a map[string]interface{} from the loaded chart
	chartDefaults := make(Values)
	if len(ch.Values) > 0 {
		chartDefaults = Values(ch.Values)
	}

	// Deep merge so nested objects (like serviceAccount.annotations) from the
	// chart defaults survive partial overrides.
	mergedValues := DeepMerge(chartDefaults, values)

	chartValues := chartutil.Values(mergedValues.ToMap())

	releaseOptions := chartutil.ReleaseOptions{
		Name:      r.chartName,
		Namespace: r.namespace,
		IsInstall: true,
	}

	capabilities, err := capabilitiesFor(r.kubeVersion)
	if err != nil {
		return nil, err
	}

	valuesToRender, err := chartutil.ToRenderValues(ch, chartValues, releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	eng := engine.Engine{
		Strict:   false,
		LintMode: false,
	}
	rendered, err := eng.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	var combined bytes.Buffer
	for name, content := range rendered {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}

		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			continue
		}

		if combined.Len() > 0 {
			combined.WriteString("\n---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}

	return combined.Bytes(), nil
}

// capabilitiesFor derives chart capabilities from a "major.minor" cluster
// version so templates resolve current API groups (e.g. policy/v1).
func capabilitiesFor(kubeVersion string) (*chartutil.Capabilities, error) {
	capabilities := chartutil.DefaultCapabilities.Copy()
	if kubeVersion == "" {
		return capabilities, nil
	}

	major, minor, ok := strings.Cut(kubeVersion, ".")
	if !ok || major == "" || minor == "" {
		return nil, fmt.Errorf("invalid kubernetes version %q: want major.minor", kubeVersion)
	}

	capabilities.KubeVersion.Version = fmt.Sprintf("v%s.%s.0", major, minor)
	capabilities.KubeVersion.Major = major
	capabilities.KubeVersion.Minor = minor
	return capabilities, nil
}
