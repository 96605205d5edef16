// Package executor applies manifests to a Kubernetes cluster.
//
// Two implementations of [Executor] exist. [Kubectl] shells out to the
// kubectl binary, the way the manifests are applied by hand. [Client]
// talks to the API server directly with client-go, using Server-Side Apply
// for manifests and typed clients for rollout checks and the default
// StorageClass annotation.
package executor
