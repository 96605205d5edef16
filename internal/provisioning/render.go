package provisioning

// RenderPhases returns the deploy phases up to and including the patch,
// leaving the patched manifests in the store without touching a cluster.
func RenderPhases() []Phase {
	return []Phase{
		NewValidationPhase(),
		&FetchPhase{},
		&PlanPhase{},
		&PatchPhase{},
	}
}

// Render runs RenderPhases.
func Render(ctx *Context) error {
	ctx.Operation = OperationRender
	return RunPhases(ctx, RenderPhases())
}
