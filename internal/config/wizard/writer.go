package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eksforge/eksforge/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only the values the wizard asked about are
// written; defaults are filled back in at load time.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		yamlBytes, err = yaml.Marshal(buildMinimalConfig(cfg))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// MinimalConfig is the trimmed YAML shape for wizard output. It only
// contains fields the wizard asked about or that differ from defaults.
type MinimalConfig struct {
	ClusterName string               `yaml:"cluster_name"`
	Region      string               `yaml:"region"`
	Version     string               `yaml:"version"`
	Logging     *MinimalLogging      `yaml:"logging,omitempty"`
	IAM         MinimalIAM           `yaml:"iam"`
	NodeGroups  []MinimalNodeGroup   `yaml:"node_groups"`
	Addons      *MinimalAddonsConfig `yaml:"addons,omitempty"`
	Snapshots   *MinimalSnapshots    `yaml:"snapshots,omitempty"`
}

// MinimalLogging carries the logging toggle.
type MinimalLogging struct {
	Enabled bool `yaml:"enabled"`
}

// MinimalIAM carries the OIDC toggle.
type MinimalIAM struct {
	WithOIDC bool `yaml:"with_oidc"`
}

// MinimalNodeGroup contains essential node group settings.
type MinimalNodeGroup struct {
	Name     string                   `yaml:"name"`
	Arch     string                   `yaml:"arch,omitempty"`
	MinSize  int                      `yaml:"min_size"`
	MaxSize  int                      `yaml:"max_size"`
	Desired  int                      `yaml:"desired"`
	Selector *config.InstanceSelector `yaml:"selector,omitempty"`
	Spot     bool                     `yaml:"spot,omitempty"`
	SSH      *MinimalSSH              `yaml:"ssh,omitempty"`
}

// MinimalSSH carries the SSH toggle.
type MinimalSSH struct {
	Allow bool `yaml:"allow"`
}

// MinimalAddonsConfig contains only the enabled optional addons.
type MinimalAddonsConfig struct {
	MetricsServer     *MinimalAddon `yaml:"metrics_server,omitempty"`
	ClusterAutoscaler *MinimalAddon `yaml:"cluster_autoscaler,omitempty"`
	AWSLoadBalancer   *MinimalAddon `yaml:"aws_load_balancer_controller,omitempty"`
}

// MinimalAddon represents a simple enabled addon.
type MinimalAddon struct {
	Enabled bool `yaml:"enabled"`
}

// MinimalSnapshots carries the snapshot toggle.
type MinimalSnapshots struct {
	Enabled bool `yaml:"enabled"`
}

// buildMinimalConfig trims a full config down to wizard-visible fields.
func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	minCfg := &MinimalConfig{
		ClusterName: cfg.ClusterName,
		Region:      cfg.Region,
		Version:     cfg.Version,
		IAM:         MinimalIAM{WithOIDC: cfg.IAM.WithOIDC},
	}

	if cfg.Logging.Enabled {
		minCfg.Logging = &MinimalLogging{Enabled: true}
	}

	for _, ng := range cfg.NodeGroups {
		row := MinimalNodeGroup{
			Name:     ng.Name,
			Arch:     string(ng.Arch),
			MinSize:  ng.MinSize,
			MaxSize:  ng.MaxSize,
			Desired:  ng.Desired,
			Selector: ng.Selector,
			Spot:     ng.Spot,
		}
		if ng.SSH.Allow {
			row.SSH = &MinimalSSH{Allow: true}
		}
		minCfg.NodeGroups = append(minCfg.NodeGroups, row)
	}

	addons := &MinimalAddonsConfig{}
	hasAddons := false
	if cfg.Addons.MetricsServer.Enabled {
		addons.MetricsServer = &MinimalAddon{Enabled: true}
		hasAddons = true
	}
	if cfg.Addons.ClusterAutoscaler.Enabled {
		addons.ClusterAutoscaler = &MinimalAddon{Enabled: true}
		hasAddons = true
	}
	if cfg.Addons.AWSLoadBalancer.Enabled {
		addons.AWSLoadBalancer = &MinimalAddon{Enabled: true}
		hasAddons = true
	}
	if hasAddons {
		minCfg.Addons = addons
	}

	if cfg.Snapshots.Enabled {
		minCfg.Snapshots = &MinimalSnapshots{Enabled: true}
	}

	return minCfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# eksforge cluster configuration
# Generated by: eksforge init
# Generated at: %s
# Output mode: %s%s
#
# Credentials come from the default AWS chain (environment, shared
# config, or an assumed role).
#
# Usage:
#   eksforge apply -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
