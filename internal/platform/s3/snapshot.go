package s3

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eksforge/eksforge/internal/config"
)

// SnapshotStore persists effective cluster descriptors.
type SnapshotStore struct {
	client *Client
	bucket string
	prefix string

	// now is replaceable in tests.
	now func() time.Time
}

// NewSnapshotStore creates a store writing under bucket/prefix.
func NewSnapshotStore(client *Client, bucket, prefix string) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// snapshotKey layout: <prefix>/<cluster>/20060102T150405Z.yaml. The
// timestamp format sorts lexicographically in chronological order.
const snapshotTimeFormat = "20060102T150405Z"

// PutSnapshot uploads the effective descriptor and returns the object key.
func (s *SnapshotStore) PutSnapshot(ctx context.Context, cfg *config.Config) (string, error) {
	if err := s.client.EnsureBucket(ctx, s.bucket); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal descriptor: %w", err)
	}

	key := path.Join(s.prefix, cfg.ClusterName, s.now().UTC().Format(snapshotTimeFormat)+".yaml")
	if err := s.client.PutObject(ctx, s.bucket, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// LatestSnapshot returns the most recent descriptor for the cluster.
func (s *SnapshotStore) LatestSnapshot(ctx context.Context, clusterName string) (*config.Config, string, error) {
	keys, err := s.ListSnapshots(ctx, clusterName)
	if err != nil {
		return nil, "", err
	}
	if len(keys) == 0 {
		return nil, "", fmt.Errorf("no snapshots for cluster %s", clusterName)
	}

	key := keys[len(keys)-1]
	data, err := s.client.GetObject(ctx, s.bucket, key)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadFromBytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot %s is not a valid descriptor: %w", key, err)
	}
	return cfg, key, nil
}

// ListSnapshots returns the cluster's snapshot keys, oldest first.
func (s *SnapshotStore) ListSnapshots(ctx context.Context, clusterName string) ([]string, error) {
	prefix := path.Join(s.prefix, clusterName) + "/"
	keys, err := s.client.ListObjects(ctx, s.bucket, prefix)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Prune deletes all but the newest keep snapshots.
func (s *SnapshotStore) Prune(ctx context.Context, clusterName string, keep int) error {
	keys, err := s.ListSnapshots(ctx, clusterName)
	if err != nil {
		return err
	}
	if keep < 0 || len(keys) <= keep {
		return nil
	}
	for _, key := range keys[:len(keys)-keep] {
		if err := s.client.DeleteObject(ctx, s.bucket, key); err != nil {
			return err
		}
	}
	return nil
}
