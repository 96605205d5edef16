package topology

import "strings"

// Mode selects how OSDs are provisioned on their devices.
type Mode string

const (
	// ModeLVM provisions OSDs on LVM logical volumes. This is the default.
	ModeLVM Mode = "LVM"
	// ModeRAW provisions OSDs directly on raw devices. Not supported yet.
	ModeRAW Mode = "RAW"
)

// DefaultOSDsPerDevice is used when a spec leaves OSDs per device unset.
const DefaultOSDsPerDevice = 6

// MaxNodeCount caps how many explicit nodes count toward quorum and replicas.
const MaxNodeCount = 3

// ValidModes returns all recognised modes.
func ValidModes() []Mode {
	return []Mode{ModeLVM, ModeRAW}
}

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	switch m {
	case ModeLVM, ModeRAW:
		return true
	default:
		return false
	}
}

// ParseMode parses a mode case-insensitively. An empty string yields ModeLVM.
func ParseMode(s string) (Mode, bool) {
	if strings.TrimSpace(s) == "" {
		return ModeLVM, true
	}
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// ClusterSpec is the declarative description of the storage cluster.
type ClusterSpec struct {
	Mode          Mode
	OSDsPerDevice int

	// ForceCleanup only affects the reset path.
	ForceCleanup bool

	// ImageUser and ImageVersion pin the Ceph image when both are set.
	ImageUser    string
	ImageVersion string

	// Nodes lists the storage nodes. Empty means every node and device.
	Nodes []NodeSpec
}

// NodeSpec describes one storage node.
type NodeSpec struct {
	Name           string
	MetadataDevice string
	Volumes        []string
}

// HasImage reports whether the spec pins a Ceph image.
func (s ClusterSpec) HasImage() bool {
	return s.ImageUser != "" && s.ImageVersion != ""
}

// Image returns the pinned Ceph image reference, or "" when none is pinned.
func (s ClusterSpec) Image() string {
	if !s.HasImage() {
		return ""
	}
	return s.ImageUser + "/ceph:v" + s.ImageVersion
}

// StoragePlan is the normalized storage layout derived from a ClusterSpec.
type StoragePlan struct {
	UseAllNodes   bool
	UseAllDevices bool

	// DeviceFilter is only meaningful for explicit nodes, where it is "".
	DeviceFilter string

	// OSDsPerDevice is the cluster-wide setting used when UseAllNodes is set.
	OSDsPerDevice string

	// Nodes holds one entry per node that contributed at least one device.
	Nodes []NodePlan

	// SkippedNodes names the explicit nodes dropped for having no volumes.
	SkippedNodes []string

	NodeCount              int
	MonCount               int
	ReplicaCount           int
	RequireSafeReplicaSize bool
}

// Explicit reports whether the plan lists nodes explicitly.
func (p *StoragePlan) Explicit() bool {
	return !p.UseAllNodes
}

// NodePlan is the per-node storage configuration.
type NodePlan struct {
	Name           string
	MetadataDevice string
	Devices        []DevicePlan
}

// DevicePlan is a single OSD device. OSDsPerDevice is kept in string form,
// which is how Rook expects per-device config values.
type DevicePlan struct {
	Name          string
	OSDsPerDevice string
}
