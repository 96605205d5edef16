package patch

import (
	"github.com/imamik/rookctl/internal/manifest"
	"github.com/imamik/rookctl/internal/topology"
)

// Cluster rewrites the CephCluster document for plan.
//
// The storage config mapping is created when the template leaves it empty.
// For explicit nodes the node list is replaced with the planned one; for
// whole-cluster discovery the storage config is replaced with the
// cluster-wide OSDs per device setting. The monitor count is always set.
func Cluster(doc *manifest.Document, plan *topology.StoragePlan, image string) error {
	if _, err := doc.RequireMap(specPath); err != nil {
		return err
	}

	if image != "" {
		if _, err := doc.RequireMap(cephVersionPath); err != nil {
			return err
		}
		if err := doc.Set(cephVersionPath.Child("image"), image); err != nil {
			return err
		}
	}

	if _, err := doc.RequireMap(storagePath); err != nil {
		return err
	}
	if _, err := doc.EnsureMap(storageConfigPath); err != nil {
		return err
	}

	if plan.Explicit() {
		if err := setExplicitStorage(doc, plan); err != nil {
			return err
		}
	} else {
		if err := setDiscoveredStorage(doc, plan); err != nil {
			return err
		}
	}

	if _, err := doc.RequireMap(monPath); err != nil {
		return err
	}
	return doc.Set(monPath.Child("count"), plan.MonCount)
}

func setExplicitStorage(doc *manifest.Document, plan *topology.StoragePlan) error {
	fields := []struct {
		key   string
		value interface{}
	}{
		{"useAllNodes", false},
		{"useAllDevices", false},
		{"deviceFilter", plan.DeviceFilter},
		{"nodes", nodeList(plan.Nodes)},
	}
	for _, f := range fields {
		if err := doc.Set(storagePath.Child(f.key), f.value); err != nil {
			return err
		}
	}
	return nil
}

func setDiscoveredStorage(doc *manifest.Document, plan *topology.StoragePlan) error {
	if err := doc.Set(storagePath.Child("useAllNodes"), true); err != nil {
		return err
	}
	if err := doc.Set(storagePath.Child("useAllDevices"), true); err != nil {
		return err
	}
	return doc.Set(storageConfigPath, map[string]interface{}{
		"osdsPerDevice": plan.OSDsPerDevice,
	})
}

// nodeList renders planned nodes in the shape of CephCluster spec.storage.nodes.
func nodeList(nodes []topology.NodePlan) []interface{} {
	out := make([]interface{}, 0, len(nodes))
	for _, node := range nodes {
		devices := make([]interface{}, 0, len(node.Devices))
		for _, device := range node.Devices {
			devices = append(devices, map[string]interface{}{
				"name": device.Name,
				"config": map[string]interface{}{
					"osdsPerDevice": device.OSDsPerDevice,
				},
			})
		}
		out = append(out, map[string]interface{}{
			"name": node.Name,
			"config": map[string]interface{}{
				"metadataDevice": node.MetadataDevice,
			},
			"devices": devices,
		})
	}
	return out
}
