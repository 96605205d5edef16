// Package templates fetches and stages the Rook example manifests.
//
// A Rook release ships its example deployment under
// cluster/examples/kubernetes/ceph. [Files] lists the six manifests a
// deployment applies, in apply order. A [Source] fetches one of them for a
// version: [HTTPSource] reads the upstream repository, [S3Source] an
// object-storage mirror and [DirSource] a local tree. [FetchAll] gathers
// the full set into a [Bundle], which a [Store] writes to the staging
// directory shared by deploy and reset.
package templates
