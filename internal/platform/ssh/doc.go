// Package ssh runs shell commands on storage nodes over SSH.
//
// The reset path uses it to clean up Ceph state and wipe devices on a node
// other than the one rookctl runs on. A [Client] dials lazily, keeps one
// connection for all commands of a run and opens a session per command.
package ssh
