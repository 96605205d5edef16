package wipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/imamik/rookctl/internal/topology"
)

// ListBlockDevicesCommand lists block devices with their filesystem type.
const ListBlockDevicesCommand = "lsblk --fs --json"

const lvmMember = "LVM2_member"

// ErrNodeNotFound is returned when the configured nodes do not include the
// target host.
var ErrNodeNotFound = errors.New("node not found")

type lsblkOutput struct {
	BlockDevices []blockDevice `json:"blockdevices"`
}

type blockDevice struct {
	Name     string        `json:"name"`
	FSType   *string       `json:"fstype"`
	Children []blockDevice `json:"children"`
}

// ParseLVMDevices returns the top-level block devices from lsblk JSON that
// have no children and carry an LVM physical volume signature. Names are
// returned as lsblk reports them, usually without the /dev/ prefix.
//
// Runners return combined output, so text around the JSON object, such as
// sudo warnings, is ignored.
func ParseLVMDevices(data []byte) ([]string, error) {
	if start, end := bytes.IndexByte(data, '{'), bytes.LastIndexByte(data, '}'); start >= 0 && end > start {
		data = data[start : end+1]
	}

	var out lsblkOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %w", err)
	}

	var devices []string
	for _, dev := range out.BlockDevices {
		if dev.Children != nil {
			continue
		}
		if dev.FSType == nil || *dev.FSType != lvmMember {
			continue
		}
		devices = append(devices, dev.Name)
	}
	return devices, nil
}

// DiscoverLVMDevices runs lsblk through r and parses its output.
func DiscoverLVMDevices(ctx context.Context, r Runner) ([]string, error) {
	out, err := r.Run(ctx, ListBlockDevicesCommand)
	if err != nil {
		return nil, fmt.Errorf("failed to list block devices: %w", err)
	}
	return ParseLVMDevices([]byte(out))
}

// VolumesForHost returns the volumes of the node named host.
func VolumesForHost(nodes []topology.NodeSpec, host string) ([]string, error) {
	for _, n := range nodes {
		if n.Name == host {
			return n.Volumes, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not among the configured ceph nodes", ErrNodeNotFound, host)
}

// ResolveVolumes picks the volumes to wipe on host: the matching node entry
// when nodes are configured, otherwise every LVM member lsblk reports.
func ResolveVolumes(ctx context.Context, r Runner, nodes []topology.NodeSpec, host string) ([]string, error) {
	if len(nodes) == 0 {
		return DiscoverLVMDevices(ctx, r)
	}
	return VolumesForHost(nodes, host)
}
