package wipe

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Report summarizes an executed command sequence.
type Report struct {
	Ran    int
	Failed []string
}

// Wiper executes cleanup sequences through a Runner.
type Wiper struct {
	Runner Runner
	// ForceCleanup keeps going after a failed command instead of aborting.
	ForceCleanup bool
	Log          logr.Logger
	// OnCommand, when set, is called after every command.
	OnCommand func(command string, err error)
}

// CleanupHost removes device-mapper targets and Ceph state directories.
func (w *Wiper) CleanupHost(ctx context.Context) (*Report, error) {
	return w.Execute(ctx, HostCleanupCommands())
}

// WipeDevices runs DeviceCommands for each volume in order.
func (w *Wiper) WipeDevices(ctx context.Context, volumes []string) (*Report, error) {
	var cmds []string
	for _, v := range volumes {
		cmds = append(cmds, DeviceCommands(v)...)
	}
	return w.Execute(ctx, cmds)
}

// Execute runs cmds in order. Without ForceCleanup the first failure of a
// command that is not optional is returned and the remaining commands are
// skipped.
func (w *Wiper) Execute(ctx context.Context, cmds []string) (*Report, error) {
	report := &Report{}
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		w.Log.V(1).Info("running", "command", cmd)
		out, err := w.Runner.Run(ctx, cmd)
		report.Ran++
		if w.OnCommand != nil {
			w.OnCommand(cmd, err)
		}
		if err == nil {
			continue
		}

		report.Failed = append(report.Failed, cmd)
		if !w.ForceCleanup && !IsOptional(cmd) {
			return report, fmt.Errorf("cleanup aborted: %w", err)
		}
		w.Log.Info("command failed, continuing", "command", cmd, "output", out, "error", err.Error())
	}
	return report, nil
}
