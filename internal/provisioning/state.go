package provisioning

import (
	"github.com/imamik/rookctl/internal/templates"
	"github.com/imamik/rookctl/internal/topology"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Bundle holds the fetched manifests, later replaced by their patched
	// versions.
	Bundle *templates.Bundle

	Plan *topology.StoragePlan

	// Volumes are the devices wiped on the target host.
	Volumes []string

	// Undeployed counts staged files deleted from the cluster.
	Undeployed int
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}
