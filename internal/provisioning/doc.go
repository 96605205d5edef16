// Package provisioning runs the deploy and reset operations as ordered
// phases over a shared Context.
//
// Deploy fetches the Rook manifests of a release into the staging store,
// derives a storage plan, patches the operator, cluster and storage class
// manifests and applies everything in order. Reset removes the staged
// manifests from the cluster and wipes the host.
//
// Collaborators are injected through the Context:
//   - templates.Source and templates.Store for manifests
//   - executor.Executor for the cluster
//   - wipe.Runner for host commands
//   - metrics.Recorder for run metrics
package provisioning
