// Package config loads the rookctl input file.
//
// A [Config] has two sections: rook selects the Rook release, where its
// manifests come from and how they are applied; ceph describes the storage
// topology handed to the planner through [Config.ClusterSpec]. The same
// shape is accepted as YAML from disk and as the deploy or reset argument of
// the Ansible module. Run timeouts come from the environment, see
// [LoadTimeouts].
package config
