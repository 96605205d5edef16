package provisioning

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/executor"
	"github.com/imamik/rookctl/internal/metrics"
	"github.com/imamik/rookctl/internal/templates"
	"github.com/imamik/rookctl/internal/wipe"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config *config.Config
	State  *State

	Source   templates.Source
	Store    *templates.Store
	Executor executor.Executor
	Runner   wipe.Runner

	// Host is the node name whose volumes a reset wipes.
	Host string

	Observer  Observer
	Metrics   *metrics.Recorder
	Timeouts  *config.Timeouts
	Operation string
	Sleep     SleepFunc
}

// NewContext creates a new provisioning context. Source, Executor, Runner,
// Host and Metrics are left for the caller to set as the operation needs.
func NewContext(ctx context.Context, cfg *config.Config, log logr.Logger) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Store:    templates.NewStore(cfg.Rook.StagingDir),
		Observer: NewLogObserver(log),
		Timeouts: config.LoadTimeouts(),
		Sleep:    Sleep,
	}
}

// Sleep blocks for d, returning early with the context error on
// cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Context) sleep(d time.Duration) error {
	if c.Sleep == nil {
		return Sleep(c, d)
	}
	return c.Sleep(c, d)
}
