package helm

// DefaultChartSpecs contains the default chart specifications for each
// Helm-delivered addon. These define the official chart repositories, names,
// and versions. Users can override these settings via config.HelmChartConfig.
var DefaultChartSpecs = map[string]ChartSpec{
	"metrics-server": {
		Repository: "https://kubernetes-sigs.github.io/metrics-server",
		Name:       "metrics-server",
		Version:    "3.12.2",
	},
	"cluster-autoscaler": {
		Repository: "https://kubernetes.github.io/autoscaler",
		Name:       "cluster-autoscaler",
		Version:    "9.50.1",
	},
	"aws-load-balancer-controller": {
		Repository: "https://aws.github.io/eks-charts",
		Name:       "aws-load-balancer-controller",
		Version:    "1.13.4",
	},
}
