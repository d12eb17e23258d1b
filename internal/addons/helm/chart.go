package helm

import (
	"context"
	"fmt"
	"os"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
)

// DownloadChart fetches a chart archive from its repository and loads it.
// The archive is removed once loaded; only the parsed chart is kept.
func DownloadChart(ctx context.Context, spec ChartSpec) (*chart.Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := cli.New()

	chartPath, err := repo.FindChartInRepoURL(
		spec.Repository,
		spec.Name,
		spec.Version,
		"", "", "",
		getter.All(settings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", spec.Name, spec.Repository, err)
	}

	defer func() {
		_ = os.Remove(chartPath)
	}()

	return loader.Load(chartPath)
}

// loadChartFromPath loads a chart from a local directory or archive.
func loadChartFromPath(chartPath string) (*chart.Chart, error) {
	if _, err := os.Stat(chartPath); err != nil {
		return nil, fmt.Errorf("chart path %s: %w", chartPath, err)
	}
	return loader.Load(chartPath)
}
