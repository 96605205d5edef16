// Package patch rewrites the Rook operator, cluster and storage class
// manifests to match a topology.StoragePlan.
//
// Every function works on in-memory documents and performs no I/O. [Apply]
// deep-copies its input, so the same loaded templates can be patched any
// number of times with identical results.
package patch

import (
	"errors"
	"fmt"

	"github.com/imamik/rookctl/internal/manifest"
	"github.com/imamik/rookctl/internal/topology"
)

// ErrEmptyStream is returned when a manifest stream has no documents.
var ErrEmptyStream = errors.New("manifest stream has no documents")

var (
	discoveryDaemonPath = manifest.P("data", "ROOK_ENABLE_DISCOVERY_DAEMON")

	specPath          = manifest.P("spec")
	cephVersionPath   = manifest.P("spec", "cephVersion")
	storagePath       = manifest.P("spec", "storage")
	storageConfigPath = storagePath.Child("config")
	monPath           = manifest.P("spec", "mon")

	replicatedPath = manifest.P("spec", "replicated")
)

// Templates holds the three manifests patched during deployment.
// Operator and StorageClass are multi-document streams; only their first
// document is changed.
type Templates struct {
	Operator     []*manifest.Document
	Cluster      *manifest.Document
	StorageClass []*manifest.Document
}

// DeepCopy returns an independent copy of t.
func (t *Templates) DeepCopy() *Templates {
	return &Templates{
		Operator:     copyDocs(t.Operator),
		Cluster:      t.Cluster.DeepCopy(),
		StorageClass: copyDocs(t.StorageClass),
	}
}

// Apply patches a copy of in according to plan. image is the Ceph image
// reference to pin, or "" to keep the template's image.
func Apply(plan *topology.StoragePlan, image string, in *Templates) (*Templates, error) {
	if in == nil || in.Cluster == nil {
		return nil, fmt.Errorf("cluster manifest: %w", ErrEmptyStream)
	}

	out := in.DeepCopy()

	if err := Operator(out.Operator); err != nil {
		return nil, fmt.Errorf("failed to patch operator manifest: %w", err)
	}
	if err := Cluster(out.Cluster, plan, image); err != nil {
		return nil, fmt.Errorf("failed to patch cluster manifest: %w", err)
	}
	if err := StorageClass(out.StorageClass, plan); err != nil {
		return nil, fmt.Errorf("failed to patch storage class manifest: %w", err)
	}

	return out, nil
}

// Operator enables the discovery daemon in the operator ConfigMap, the first
// document of the operator manifest. Nothing else is changed.
func Operator(docs []*manifest.Document) error {
	if len(docs) == 0 {
		return ErrEmptyStream
	}
	config := docs[0]
	if _, err := config.RequireMap(manifest.P("data")); err != nil {
		return err
	}
	return config.Set(discoveryDaemonPath, "true")
}

// StorageClass sets the replica size of the block pool, the first document
// of the storage class manifest.
func StorageClass(docs []*manifest.Document, plan *topology.StoragePlan) error {
	if len(docs) == 0 {
		return ErrEmptyStream
	}
	pool := docs[0]
	if _, err := pool.RequireMap(replicatedPath); err != nil {
		return err
	}
	if err := pool.Set(replicatedPath.Child("size"), plan.ReplicaCount); err != nil {
		return err
	}
	return pool.Set(replicatedPath.Child("requireSafeReplicaSize"), plan.RequireSafeReplicaSize)
}

func copyDocs(docs []*manifest.Document) []*manifest.Document {
	if docs == nil {
		return nil
	}
	out := make([]*manifest.Document, len(docs))
	for i, doc := range docs {
		out[i] = doc.DeepCopy()
	}
	return out
}
