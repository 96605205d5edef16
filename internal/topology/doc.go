// Package topology derives a Rook storage layout from a declarative cluster
// description.
//
// [Plan] is a pure function: it turns a [ClusterSpec] into a [StoragePlan]
// holding the per-node device layout, the Ceph monitor quorum size and the
// storage class replica count. The three values are computed together so they
// always agree:
//
//   - with no nodes listed, Rook discovers every node and device, one monitor
//     runs and pools keep a single replica;
//   - with explicit nodes, only nodes that list at least one volume count,
//     the count is capped at [MaxNodeCount], and the monitor count is the
//     odd number derived from it.
//
// RAW device mode is declared but not implemented and is always rejected with
// [ErrUnsupportedMode].
package topology
