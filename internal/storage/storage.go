// Package storage builds the cluster's storage-class catalog. The descriptor
// names a provider; each provider branch maps the same logical class
// (volume type, filesystem, encryption, reclaim/binding behavior) onto a
// concrete volume provisioner and its parameter scheme.
package storage

import (
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/eksforge/eksforge/internal/config"
)

// DefaultClassAnnotation marks the cluster's default storage class.
const DefaultClassAnnotation = "storageclass.kubernetes.io/is-default-class"

// Provider identifies a volume-provisioner branch.
type Provider string

const (
	// ProviderAWS provisions EBS volumes through the EBS CSI driver.
	ProviderAWS Provider = "aws"
	// ProviderAWSEFS provisions EFS access points through the EFS CSI driver.
	ProviderAWSEFS Provider = "aws-efs"
	// ProviderLocal provisions host-path volumes via local-path-provisioner,
	// for single-node and CI clusters.
	ProviderLocal Provider = "local"
)

// Provisioner returns the CSI driver (or legacy provisioner) name for the
// provider branch.
func (p Provider) Provisioner() string {
	switch p {
	case ProviderAWS:
		return "ebs.csi.aws.com"
	case ProviderAWSEFS:
		return "efs.csi.aws.com"
	case ProviderLocal:
		return "rancher.io/local-path"
	default:
		return ""
	}
}

// IsValid returns true if the provider is a known branch.
func (p Provider) IsValid() bool {
	return p.Provisioner() != ""
}

// ValidProviders returns all known provider branches.
func ValidProviders() []Provider {
	return []Provider{ProviderAWS, ProviderAWSEFS, ProviderLocal}
}

// Build maps one descriptor class onto a typed StorageClass for the given
// provider branch.
func Build(provider Provider, sc config.StorageClassConfig) (*storagev1.StorageClass, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("unknown storage provider %q: must be one of %v", provider, ValidProviders())
	}

	params, err := parameters(provider, sc)
	if err != nil {
		return nil, err
	}

	obj := &storagev1.StorageClass{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "storage.k8s.io/v1",
			Kind:       "StorageClass",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: sc.Name,
		},
		Provisioner:          provider.Provisioner(),
		Parameters:           params,
		ReclaimPolicy:        reclaimPolicy(sc.ReclaimPolicy),
		AllowVolumeExpansion: allowExpansion(provider, sc),
		VolumeBindingMode:    bindingMode(provider, sc),
	}

	if sc.Default {
		obj.Annotations = map[string]string{DefaultClassAnnotation: "true"}
	}

	return obj, nil
}

// parameters resolves the backend-specific parameter set for a class.
func parameters(provider Provider, sc config.StorageClassConfig) (map[string]string, error) {
	params := map[string]string{}

	switch provider {
	case ProviderAWS:
		switch sc.VolumeType {
		case "gp3", "gp2", "io1", "io2", "st1", "sc1":
		default:
			return nil, fmt.Errorf("class %q: invalid volume_type %q for provider aws", sc.Name, sc.VolumeType)
		}
		params["type"] = sc.VolumeType
		params["csi.storage.k8s.io/fstype"] = sc.FSType
		if sc.Encrypted {
			params["encrypted"] = "true"
		}

	case ProviderAWSEFS:
		params["provisioningMode"] = "efs-ap"
		params["directoryPerms"] = "700"
		if sc.ExtraParameters["fileSystemId"] == "" {
			return nil, fmt.Errorf("class %q: provider aws-efs requires extra_parameters.fileSystemId", sc.Name)
		}

	case ProviderLocal:
		// local-path takes no parameters; encryption is not available.
		if sc.Encrypted {
			return nil, fmt.Errorf("class %q: provider local does not support encryption", sc.Name)
		}
	}

	for k, v := range sc.ExtraParameters {
		params[k] = v
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

func reclaimPolicy(policy string) *corev1.PersistentVolumeReclaimPolicy {
	p := corev1.PersistentVolumeReclaimPolicy(policy)
	return &p
}

func allowExpansion(provider Provider, sc config.StorageClassConfig) *bool {
	// local-path volumes cannot grow.
	v := provider != ProviderLocal
	if sc.AllowExpansion != nil {
		v = *sc.AllowExpansion && provider != ProviderLocal
	}
	return &v
}

func bindingMode(provider Provider, sc config.StorageClassConfig) *storagev1.VolumeBindingMode {
	mode := storagev1.VolumeBindingMode(sc.BindingMode)
	// local-path only works with late binding.
	if provider == ProviderLocal {
		mode = storagev1.VolumeBindingWaitForFirstConsumer
	}
	return &mode
}

// Manifests renders the whole catalog as YAML documents, one per class,
// in stable order (default class first, then by name).
func Manifests(cfg *config.Config) ([]string, error) {
	classes := make([]config.StorageClassConfig, len(cfg.Storage.Classes))
	copy(classes, cfg.Storage.Classes)
	sort.SliceStable(classes, func(i, j int) bool {
		if classes[i].Default != classes[j].Default {
			return classes[i].Default
		}
		return classes[i].Name < classes[j].Name
	})

	provider := Provider(cfg.Storage.Provider)
	manifests := make([]string, 0, len(classes))
	for _, sc := range classes {
		obj, err := Build(provider, sc)
		if err != nil {
			return nil, err
		}
		data, err := yaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal storage class %q: %w", sc.Name, err)
		}
		manifests = append(manifests, string(data))
	}
	return manifests, nil
}
