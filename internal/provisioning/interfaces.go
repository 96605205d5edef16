package provisioning

// Operation names, used as a metrics label.
const (
	OperationDeploy = "deploy"
	OperationReset  = "reset"
	OperationRender = "render"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}
