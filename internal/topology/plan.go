package topology

import "strconv"

// Plan derives the storage layout, monitor count and replica count for spec.
//
// An empty mode plans as LVM and zero OSDs per device as
// DefaultOSDsPerDevice. It returns an *UnsupportedModeError for RAW mode and
// an error matching ErrInvalidSpec when the mode is unknown or OSDs per
// device is negative.
func Plan(spec ClusterSpec) (*StoragePlan, error) {
	if spec.Mode == "" {
		spec.Mode = ModeLVM
	}
	if spec.OSDsPerDevice == 0 {
		spec.OSDsPerDevice = DefaultOSDsPerDevice
	}
	if !spec.Mode.IsValid() {
		return nil, invalidSpec("mode %q must be one of %v", spec.Mode, ValidModes())
	}
	if spec.OSDsPerDevice <= 0 {
		return nil, invalidSpec("osdsPerDevice must be positive, got %d", spec.OSDsPerDevice)
	}

	osds := strconv.Itoa(spec.OSDsPerDevice)

	var plan *StoragePlan
	var err error
	if len(spec.Nodes) == 0 {
		plan, err = planAllNodes(spec.Mode, osds)
	} else {
		plan, err = planExplicitNodes(spec.Mode, osds, spec.Nodes)
	}
	if err != nil {
		return nil, err
	}

	plan.MonCount = MonCount(plan.NodeCount)
	plan.ReplicaCount = plan.NodeCount
	plan.RequireSafeReplicaSize = plan.ReplicaCount > 2
	return plan, nil
}

// MonCount returns the odd monitor quorum size for nodeCount storage nodes:
// 1 for up to one node, 3 for two or three. It never returns less than 1.
func MonCount(nodeCount int) int {
	mons := ((nodeCount+1)/2)*2 - 1
	if mons < 1 {
		return 1
	}
	return mons
}

func planAllNodes(mode Mode, osds string) (*StoragePlan, error) {
	if mode == ModeRAW {
		return nil, &UnsupportedModeError{Mode: mode, Reason: "RAW mode is not supported when nodes are not specified"}
	}
	return &StoragePlan{
		UseAllNodes:   true,
		UseAllDevices: true,
		OSDsPerDevice: osds,
		NodeCount:     1,
	}, nil
}

func planExplicitNodes(mode Mode, osds string, nodes []NodeSpec) (*StoragePlan, error) {
	plan := &StoragePlan{}

	for _, node := range nodes {
		if len(node.Volumes) == 0 {
			plan.SkippedNodes = append(plan.SkippedNodes, node.Name)
			continue
		}

		if mode == ModeRAW {
			return nil, &UnsupportedModeError{Mode: mode, Reason: "RAW mode is not supported yet"}
		}

		devices := make([]DevicePlan, 0, len(node.Volumes))
		for _, volume := range node.Volumes {
			devices = append(devices, DevicePlan{Name: volume, OSDsPerDevice: osds})
		}

		plan.Nodes = append(plan.Nodes, NodePlan{
			Name:           node.Name,
			MetadataDevice: node.MetadataDevice,
			Devices:        devices,
		})
		plan.NodeCount++
	}

	plan.NodeCount = min(MaxNodeCount, plan.NodeCount)
	return plan, nil
}
