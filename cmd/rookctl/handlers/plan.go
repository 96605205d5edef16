package handlers

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/imamik/rookctl/internal/topology"
)

// Plan output formats.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// planView is the serialized form of a storage plan.
type planView struct {
	Mode                   string         `yaml:"mode"`
	Image                  string         `yaml:"image,omitempty"`
	UseAllNodes            bool           `yaml:"useAllNodes"`
	UseAllDevices          bool           `yaml:"useAllDevices"`
	OSDsPerDevice          string         `yaml:"osdsPerDevice,omitempty"`
	NodeCount              int            `yaml:"nodeCount"`
	MonCount               int            `yaml:"monCount"`
	ReplicaCount           int            `yaml:"replicaCount"`
	RequireSafeReplicaSize bool           `yaml:"requireSafeReplicaSize"`
	Nodes                  []nodePlanView `yaml:"nodes,omitempty"`
	SkippedNodes           []string       `yaml:"skippedNodes,omitempty"`
}

type nodePlanView struct {
	Name     string           `yaml:"name"`
	Metadata string           `yaml:"metadata,omitempty"`
	Devices  []devicePlanView `yaml:"devices"`
}

type devicePlanView struct {
	Name          string `yaml:"name"`
	OSDsPerDevice string `yaml:"osdsPerDevice"`
}

// Plan handles the plan command. It prints the storage plan derived from
// the configuration without fetching or applying anything.
func Plan(configPath, format string, w io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	spec := cfg.ClusterSpec()
	plan, err := topology.Plan(spec)
	if err != nil {
		return err
	}
	view := newPlanView(spec, plan)

	switch format {
	case "", OutputText:
		_, err = io.WriteString(w, renderPlan(view))
	case OutputYAML:
		var data []byte
		data, err = yaml.Marshal(view)
		if err == nil {
			_, err = w.Write(data)
		}
	default:
		return fmt.Errorf("unsupported output format %q, use %s or %s", format, OutputText, OutputYAML)
	}
	if err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

func newPlanView(spec topology.ClusterSpec, plan *topology.StoragePlan) planView {
	view := planView{
		Mode:                   string(spec.Mode),
		Image:                  spec.Image(),
		UseAllNodes:            plan.UseAllNodes,
		UseAllDevices:          plan.UseAllDevices,
		OSDsPerDevice:          plan.OSDsPerDevice,
		NodeCount:              plan.NodeCount,
		MonCount:               plan.MonCount,
		ReplicaCount:           plan.ReplicaCount,
		RequireSafeReplicaSize: plan.RequireSafeReplicaSize,
		SkippedNodes:           plan.SkippedNodes,
	}
	for _, n := range plan.Nodes {
		node := nodePlanView{Name: n.Name, Metadata: n.MetadataDevice}
		for _, d := range n.Devices {
			node.Devices = append(node.Devices, devicePlanView{Name: d.Name, OSDsPerDevice: d.OSDsPerDevice})
		}
		view.Nodes = append(view.Nodes, node)
	}
	return view
}
