package addons

import (
	"context"
	"strings"

	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/storage"
)

// NameStorageClasses is the pseudo add-on carrying the storage-class catalog.
const NameStorageClasses = "storage-classes"

// storageClasses renders the configured storage-class catalog. It is enabled
// whenever classes are configured and, for the aws provider, waits for the
// EBS CSI driver so the provisioner exists before the classes do.
type storageClasses struct {
	cfg *config.Config
}

func (s *storageClasses) Name() string { return NameStorageClasses }

func (s *storageClasses) Enabled() bool { return len(s.cfg.Storage.Classes) > 0 }

func (s *storageClasses) Dependencies() []string {
	if s.cfg.Storage.Provider == "aws" {
		return []string{NameEBSCSI}
	}
	return nil
}

func (s *storageClasses) Manifests(_ context.Context) ([]byte, error) {
	docs, err := storage.Manifests(s.cfg)
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(docs, "---\n")), nil
}
