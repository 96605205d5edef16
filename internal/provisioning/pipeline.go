package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially, stopping at the
// first failure. Phases observe through ctx.Observer scoped to the
// operation.
func RunPhases(ctx *Context, phases []Phase) error {
	parent := ctx.Observer
	ctx.Observer = parent.WithFields(map[string]string{"operation": ctx.Operation})
	defer func() { ctx.Observer = parent }()

	start := time.Now()
	log := ctx.Observer.Logger()
	log.Info("starting", "phases", len(phases))

	var runErr error
	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("%s phase not started: %w", phase.Name(), err)
			break
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())
		ctx.Observer.Progress(ctx.Operation, i, len(phases))

		err := phase.Provision(ctx)
		elapsed := time.Since(phaseStart)
		ctx.Metrics.ObservePhase(ctx.Operation, phase.Name(), elapsed.Seconds(), err)

		if err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			runErr = fmt.Errorf("%s phase failed: %w", phase.Name(), err)
			break
		}
		LogPhaseComplete(ctx.Observer, phase.Name(), elapsed)
	}

	ctx.Metrics.MarkRun(ctx.Operation, runErr)
	if runErr != nil {
		return runErr
	}
	log.Info("completed", "duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}
