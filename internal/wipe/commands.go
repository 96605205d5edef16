package wipe

import "strings"

const devPrefix = "/dev/"

// optionalSteps prefix commands whose failure never aborts a cleanup:
// dmsetup fails when no targets are left and many disks reject discard.
var optionalSteps = []string{"dmsetup ", "blkdiscard "}

// IsOptional reports whether a failure of command is tolerated even
// without forceCleanup.
func IsOptional(command string) bool {
	for _, p := range optionalSteps {
		if strings.HasPrefix(command, p) {
			return true
		}
	}
	return false
}

// HostCleanupCommands removes leftover device-mapper targets and Ceph state
// from a host.
func HostCleanupCommands() []string {
	return []string{
		"dmsetup remove_all",
		"rm -rf /dev/ceph-*",
		"rm -rf /dev/mapper/ceph--*",
		"rm -rf /var/lib/rook/",
	}
}

// DeviceCommands returns the wipe sequence for one volume. Each step is
// followed by sync.
func DeviceCommands(volume string) []string {
	dev := NormalizeDevice(volume)
	steps := []string{
		"wipefs --all " + dev,
		"sgdisk --zap-all " + dev,
		"dd if=/dev/zero of=" + dev + " bs=1M count=100 oflag=direct,dsync",
		"blkdiscard " + dev,
		"partprobe " + dev,
	}
	for i, s := range steps {
		steps[i] = s + " && sync"
	}
	return steps
}

// NormalizeDevice prefixes bare device names such as "sdc" with /dev/.
func NormalizeDevice(volume string) string {
	if strings.HasPrefix(volume, devPrefix) {
		return volume
	}
	return devPrefix + volume
}
