package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/eksforge/eksforge/internal/orchestration"
)

// renderManifests is replaceable in tests.
var renderManifests = orchestration.ManifestBundle

// Render writes the manifests of every enabled manifest-delivered addon
// without touching AWS or a live cluster. Useful for review and for
// GitOps flows that apply manifests out of band.
//
// When only is non-empty, just that addon is rendered. When outputDir is
// empty, manifests go to stdout; otherwise one <addon>.yaml file is
// written per addon.
func Render(ctx context.Context, configPath, outputDir, only string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	bundle, err := renderManifests(ctx, cfg)
	if err != nil {
		return err
	}

	if only != "" {
		manifests, ok := bundle[only]
		if !ok {
			return fmt.Errorf("addon %q is not enabled or does not render manifests (available: %v)", only, bundleNames(bundle))
		}
		bundle = map[string][]byte{only: manifests}
	}

	if len(bundle) == 0 {
		fmt.Println("No manifest-delivered addons are enabled.")
		return nil
	}

	if outputDir == "" {
		return renderToStdout(bundle)
	}
	return renderToDir(bundle, outputDir)
}

func renderToStdout(bundle map[string][]byte) error {
	for _, name := range bundleNames(bundle) {
		fmt.Printf("---\n# addon: %s\n", name)
		os.Stdout.Write(bundle[name])
	}
	return nil
}

func renderToDir(bundle map[string][]byte, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, name := range bundleNames(bundle) {
		path := filepath.Join(dir, name+".yaml")
		if err := writeFile(path, bundle[name], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func bundleNames(bundle map[string][]byte) []string {
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
