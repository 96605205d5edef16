package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	planColorBlue   = lipgloss.Color("#3b82f6")
	planColorDim    = lipgloss.Color("#6b7280")
	planColorWhite  = lipgloss.Color("#f9fafb")
	planColorYellow = lipgloss.Color("#eab308")
)

var (
	planTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(planColorWhite)

	planSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(planColorBlue)

	planDimStyle = lipgloss.NewStyle().
			Foreground(planColorDim)

	planWarnStyle = lipgloss.NewStyle().
			Foreground(planColorYellow)
)

// renderPlan produces a lipgloss-styled plan summary.
func renderPlan(v planView) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(planTitleStyle.Render("  rookctl plan: " + v.Mode))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(planSectionStyle.Render("  Cluster"))
	b.WriteString("\n")
	image := v.Image
	if image == "" {
		image = "release default"
	}
	fmt.Fprintf(&b, "    %-16s %s\n", "Image:", image)
	fmt.Fprintf(&b, "    %-16s %d\n", "Nodes:", v.NodeCount)
	fmt.Fprintf(&b, "    %-16s %d\n", "Monitors:", v.MonCount)
	fmt.Fprintf(&b, "    %-16s %d (safe size required: %t)\n", "Replicas:", v.ReplicaCount, v.RequireSafeReplicaSize)

	b.WriteString("\n")
	b.WriteString(planSectionStyle.Render("  Storage"))
	b.WriteString("\n")
	if v.UseAllNodes {
		fmt.Fprintf(&b, "    all nodes, all devices, %s OSDs per device\n", v.OSDsPerDevice)
	} else {
		b.WriteString(planDimStyle.Render(fmt.Sprintf("    %-14s %-14s %-14s %s", "Node", "Metadata", "Device", "OSDs")))
		b.WriteString("\n")
		for _, n := range v.Nodes {
			for i, d := range n.Devices {
				name, meta := n.Name, n.Metadata
				if i > 0 {
					name, meta = "", ""
				}
				if meta == "" && i == 0 {
					meta = "-"
				}
				fmt.Fprintf(&b, "    %-14s %-14s %-14s %s\n", name, meta, d.Name, d.OSDsPerDevice)
			}
		}
	}

	if len(v.SkippedNodes) > 0 {
		b.WriteString("\n")
		b.WriteString(planWarnStyle.Render("  Skipped (no volumes): " + strings.Join(v.SkippedNodes, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
