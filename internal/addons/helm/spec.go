package helm

import "github.com/eksforge/eksforge/internal/config"

// ChartSpec identifies a chart in a Helm repository, or on the local
// filesystem when LocalPath is set.
type ChartSpec struct {
	Repository string
	Name       string
	Version    string

	// LocalPath, when non-empty, points at a chart directory or archive
	// rendered instead of the repository download.
	LocalPath string
}

// GetChartSpec returns the chart spec for the given addon name,
// applying any overrides from the HelmChartConfig.
// This allows users to pin repository, chart name, and version via config.
func GetChartSpec(name string, helmCfg config.HelmChartConfig) ChartSpec {
	spec, ok := DefaultChartSpecs[name]
	if !ok {
		// Return empty spec if addon not found - caller should handle this
		return ChartSpec{}
	}

	if helmCfg.Repository != "" {
		spec.Repository = helmCfg.Repository
	}
	if helmCfg.Chart != "" {
		spec.Name = helmCfg.Chart
	}
	if helmCfg.Version != "" {
		spec.Version = helmCfg.Version
	}
	if helmCfg.Path != "" {
		spec.LocalPath = helmCfg.Path
	}

	return spec
}
