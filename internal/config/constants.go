package config

const (
	// DefaultVersion is the Kubernetes minor version used when none is pinned.
	DefaultVersion = "1.31"

	// DefaultVolumeSizeGiB is the root volume size for node groups.
	DefaultVolumeSizeGiB = 80

	// DefaultResolveConflicts is the drift strategy for native add-ons.
	DefaultResolveConflicts = "OVERWRITE"
)

// SupportedVersions lists the Kubernetes minor versions eksforge knows how
// to provision, oldest first.
var SupportedVersions = []string{"1.29", "1.30", "1.31", "1.32"}

// ValidRegions contains the AWS regions eksforge accepts.
// https://docs.aws.amazon.com/general/latest/gr/eks.html
var ValidRegions = map[string]bool{
	"us-east-1":      true, // N. Virginia
	"us-east-2":      true, // Ohio
	"us-west-2":      true, // Oregon
	"eu-west-1":      true, // Ireland
	"eu-central-1":   true, // Frankfurt
	"eu-north-1":     true, // Stockholm
	"ap-southeast-1": true, // Singapore
	"ap-southeast-2": true, // Sydney
	"ap-northeast-1": true, // Tokyo
	"ap-south-1":     true, // Mumbai
	"sa-east-1":      true, // São Paulo
	"ca-central-1":   true, // Canada
}
