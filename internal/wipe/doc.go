// Package wipe tears down the host side of a Ceph cluster: device-mapper
// entries, Ceph state directories and the signatures, partition tables and
// leading blocks of every OSD volume.
//
// Commands are plain shell strings executed through a Runner, either on the
// local host or over SSH. Builders in this package are pure so the exact
// command sequence can be inspected before anything destructive runs.
package wipe
