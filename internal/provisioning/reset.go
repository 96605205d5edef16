package provisioning

import (
	"fmt"

	"github.com/imamik/rookctl/internal/templates"
	"github.com/imamik/rookctl/internal/wipe"
)

// ResetPhases returns the reset phases in order.
func ResetPhases() []Phase {
	return []Phase{
		NewValidationPhase(),
		&StagePhase{},
		&UndeployPhase{},
		&HostCleanupPhase{},
		&WipePhase{},
	}
}

// Reset runs ResetPhases. Events carry the target host.
func Reset(ctx *Context) error {
	ctx.Operation = OperationReset
	if ctx.Host != "" {
		parent := ctx.Observer
		ctx.Observer = parent.WithFields(map[string]string{"host": ctx.Host})
		defer func() { ctx.Observer = parent }()
	}
	return RunPhases(ctx, ResetPhases())
}

// StagePhase makes sure every manifest is staged before undeploying. Files
// missing from the store are fetched when a source and version are known;
// otherwise they are reported and skipped by UndeployPhase.
type StagePhase struct{}

// Name implements the Phase interface.
func (p *StagePhase) Name() string { return "stage" }

// Provision implements the Phase interface.
func (p *StagePhase) Provision(ctx *Context) error {
	missing := ctx.Store.Missing()
	if len(missing) == 0 {
		return nil
	}

	version := ctx.Config.Rook.Version
	if ctx.Source == nil || version == "" {
		for _, f := range missing {
			ctx.Observer.Event(Event{
				Type:     EventManifestMissing,
				Phase:    p.Name(),
				Resource: f.Name,
				Message:  "manifest not staged and no rook version to fetch it, skipping",
			})
		}
		return nil
	}

	bundle, err := templates.FetchFiles(ctx, ctx.Source, version, missing)
	ctx.Metrics.ObserveFetch(ctx.Source.String(), err)
	if err != nil {
		return fmt.Errorf("failed to fetch missing manifests from %s: %w", ctx.Source, err)
	}
	return ctx.Store.WriteBundle(bundle)
}

// UndeployPhase deletes the objects of every staged manifest. Failures are
// logged and ignored.
type UndeployPhase struct{}

// Name implements the Phase interface.
func (p *UndeployPhase) Name() string { return "undeploy" }

// Provision implements the Phase interface.
func (p *UndeployPhase) Provision(ctx *Context) error {
	for _, f := range templates.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !ctx.Store.Exists(f.Name) {
			continue
		}

		data, err := ctx.Store.Read(f.Name)
		if err == nil {
			err = ctx.Executor.Delete(ctx, f.Name, data, ctx.Timeouts.Delete)
		}
		ctx.Metrics.ObserveManifest(f.Name, "delete", err)
		if err != nil {
			LogManifestDeleteFailed(ctx.Observer, p.Name(), f.Name, err)
			continue
		}
		ctx.State.Undeployed++
		LogManifestDeleted(ctx.Observer, p.Name(), f.Name)
	}
	return nil
}

// HostCleanupPhase removes device-mapper targets and Ceph state from the
// target host.
type HostCleanupPhase struct{}

// Name implements the Phase interface.
func (p *HostCleanupPhase) Name() string { return "host-cleanup" }

// Provision implements the Phase interface.
func (p *HostCleanupPhase) Provision(ctx *Context) error {
	_, err := newWiper(ctx, p.Name()).CleanupHost(ctx)
	return err
}

// WipePhase wipes every volume of the target host.
type WipePhase struct{}

// Name implements the Phase interface.
func (p *WipePhase) Name() string { return "wipe" }

// Provision implements the Phase interface.
func (p *WipePhase) Provision(ctx *Context) error {
	volumes, err := wipe.ResolveVolumes(ctx, ctx.Runner, ctx.Config.ClusterSpec().Nodes, ctx.Host)
	if err != nil {
		return err
	}
	ctx.State.Volumes = volumes
	if len(volumes) == 0 {
		ctx.Observer.Logger().Info("no volumes to wipe", "host", ctx.Host)
		return nil
	}

	ctx.Observer.Logger().Info("wiping volumes", "host", ctx.Host, "volumes", volumes)
	report, err := newWiper(ctx, p.Name()).WipeDevices(ctx, volumes)
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		ctx.Observer.Logger().Info("wipe finished with failures", "failed", len(report.Failed), "ran", report.Ran)
	}
	return nil
}

func newWiper(ctx *Context, phase string) *wipe.Wiper {
	return &wipe.Wiper{
		Runner:       ctx.Runner,
		ForceCleanup: ctx.Config.Ceph.ForceCleanup,
		Log:          ctx.Observer.Logger().WithValues("phase", phase),
		OnCommand: func(_ string, err error) {
			ctx.Metrics.ObserveWipeCommand(err)
		},
	}
}
