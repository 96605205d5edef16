package executor

import (
	"context"
	"time"
)

// FieldManager identifies rookctl in Server-Side Apply.
const FieldManager = "rookctl"

// DefaultClassAnnotation marks the cluster's default StorageClass.
const DefaultClassAnnotation = "storageclass.kubernetes.io/is-default-class"

// Executor performs the cluster side of a deploy or reset.
type Executor interface {
	// Apply creates or updates every object of manifest. name identifies
	// the manifest in logs and errors.
	Apply(ctx context.Context, name string, manifest []byte) error

	// Delete removes every object of manifest. Objects that do not exist
	// are not an error.
	Delete(ctx context.Context, name string, manifest []byte, timeout time.Duration) error

	// RolloutStatus blocks until the deployment has finished rolling out or
	// timeout expires.
	RolloutStatus(ctx context.Context, namespace, deployment string, timeout time.Duration) error

	// SetDefaultStorageClass annotates the named StorageClass as the
	// cluster default.
	SetDefaultStorageClass(ctx context.Context, name string) error
}
