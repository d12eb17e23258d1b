package addons

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/eksforge/eksforge/internal/addons/k8sclient"
	"github.com/eksforge/eksforge/internal/config"
)

// NativeInstaller installs EKS-native add-ons. The AWS platform layer
// implements it.
type NativeInstaller interface {
	EnsureAddon(ctx context.Context, spec NativeSpec) error
}

// Manager orchestrates add-on installation in dependency order.
type Manager struct {
	cfg       *config.Config
	k8s       k8sclient.Client
	installer NativeInstaller
	opts      InstallOptions

	// roleARNs maps add-on name to a generated IRSA role ARN.
	roleARNs map[string]string
}

// NewManager creates an add-on manager. roleARNs may be nil when IRSA is
// disabled.
func NewManager(cfg *config.Config, k8s k8sclient.Client, installer NativeInstaller, opts InstallOptions, roleARNs map[string]string) *Manager {
	return &Manager{
		cfg:       cfg,
		k8s:       k8s,
		installer: installer,
		opts:      opts,
		roleARNs:  roleARNs,
	}
}

// Registry returns all managed add-ons in declaration order.
func (m *Manager) Registry() []Addon {
	addons := make([]Addon, 0, 8)
	for _, n := range nativeAddons(m.cfg, m.roleARNs) {
		addons = append(addons, n)
	}
	addons = append(addons,
		&storageClasses{cfg: m.cfg},
		&metricsServer{cfg: m.cfg},
		&clusterAutoscaler{cfg: m.cfg, roleARN: m.roleARNs[NameClusterAutoscaler]},
		&awsLoadBalancer{cfg: m.cfg, roleARN: m.roleARNs[NameAWSLoadBalancer]},
	)
	return addons
}

// EnsureAddons installs every enabled add-on, honoring dependencies.
func (m *Manager) EnsureAddons(ctx context.Context) error {
	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	ordered, err := orderAddons(m.Registry())
	if err != nil {
		return err
	}

	var errs []error
	for _, addon := range ordered {
		if !addon.Enabled() {
			log.Printf("addon %s: disabled, skipping", addon.Name())
			continue
		}

		if err := m.checkDependencies(addon, ordered); err != nil {
			return err
		}

		log.Printf("addon %s: installing", addon.Name())
		err := m.install(ctx, addon)
		if err == nil {
			err = m.verify(ctx, addon)
		}
		if err != nil {
			if !m.opts.ContinueOnError {
				return fmt.Errorf("addon %s: %w", addon.Name(), err)
			}
			log.Printf("addon %s: failed, continuing: %v", addon.Name(), err)
			errs = append(errs, fmt.Errorf("addon %s: %w", addon.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) install(ctx context.Context, addon Addon) error {
	switch a := addon.(type) {
	case Native:
		return m.installer.EnsureAddon(ctx, a.Spec())
	case Renderable:
		manifests, err := a.Manifests(ctx)
		if err != nil {
			return err
		}
		if len(manifests) == 0 {
			return nil
		}
		return m.k8s.ApplyManifests(ctx, manifests, m.opts.FieldManager)
	default:
		return fmt.Errorf("addon %s is neither native nor renderable", addon.Name())
	}
}

// verify waits for an installed add-on to serve, when verification is on
// and the add-on supports it. Without a cluster client there is nothing to
// ask, so render-only flows pass straight through.
func (m *Manager) verify(ctx context.Context, addon Addon) error {
	if !m.opts.VerifyInstallation || m.k8s == nil {
		return nil
	}
	v, ok := addon.(Verifiable)
	if !ok {
		return nil
	}
	log.Printf("addon %s: verifying", addon.Name())
	return v.Verify(ctx, m.k8s)
}

// checkDependencies rejects an enabled add-on whose dependency is disabled.
func (m *Manager) checkDependencies(addon Addon, all []Addon) error {
	byName := make(map[string]Addon, len(all))
	for _, a := range all {
		byName[a.Name()] = a
	}
	for _, dep := range addon.Dependencies() {
		d, ok := byName[dep]
		if !ok {
			return fmt.Errorf("addon %s depends on unknown addon %s", addon.Name(), dep)
		}
		if !d.Enabled() {
			return fmt.Errorf("addon %s requires %s, which is disabled", addon.Name(), dep)
		}
	}
	return nil
}

// orderAddons sorts add-ons so dependencies come first, keeping declaration
// order among peers. Cycles are rejected.
func orderAddons(addons []Addon) ([]Addon, error) {
	index := make(map[string]int, len(addons))
	for i, a := range addons {
		index[a.Name()] = i
	}

	indegree := make([]int, len(addons))
	dependents := make([][]int, len(addons))
	for i, a := range addons {
		for _, dep := range a.Dependencies() {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("addon %s depends on unknown addon %s", a.Name(), dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i := range addons {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]Addon, 0, len(addons))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		ordered = append(ordered, addons[i])
		for _, j := range dependents[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}

	if len(ordered) != len(addons) {
		return nil, fmt.Errorf("addon dependency cycle detected")
	}
	return ordered, nil
}
