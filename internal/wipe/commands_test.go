package wipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceCommands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"wipefs --all /dev/sdc && sync",
		"sgdisk --zap-all /dev/sdc && sync",
		"dd if=/dev/zero of=/dev/sdc bs=1M count=100 oflag=direct,dsync && sync",
		"blkdiscard /dev/sdc && sync",
		"partprobe /dev/sdc && sync",
	}, DeviceCommands("sdc"))

	assert.Equal(t, DeviceCommands("/dev/sdc"), DeviceCommands("sdc"))
}

func TestHostCleanupCommands(t *testing.T) {
	t.Parallel()

	cmds := HostCleanupCommands()
	assert.Equal(t, "dmsetup remove_all", cmds[0])
	assert.Contains(t, cmds, "rm -rf /var/lib/rook/")
	assert.Len(t, cmds, 4)
}

func TestIsOptional(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOptional("dmsetup remove_all"))
	assert.True(t, IsOptional("blkdiscard /dev/sdc && sync"))
	assert.False(t, IsOptional("wipefs --all /dev/sdc && sync"))
	assert.False(t, IsOptional("rm -rf /var/lib/rook/"))
}

func TestNormalizeDevice(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"sdc":                  "/dev/sdc",
		"/dev/sdc":             "/dev/sdc",
		"nvme0n1":              "/dev/nvme0n1",
		"/dev/disk/by-id/wwn1": "/dev/disk/by-id/wwn1",
		"mapper/vg-lv":         "/dev/mapper/vg-lv",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDevice(in), in)
	}
}
