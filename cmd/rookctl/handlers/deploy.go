package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/provisioning"
)

// Deploy handles the deploy command.
//
// It fetches the manifests of the configured Rook release, patches them
// for the storage plan and applies them to the cluster.
func Deploy(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	return runDeploy(ctx, cfg)
}

func runDeploy(ctx context.Context, cfg *config.Config) error {
	pCtx := newProvisioningContext(ctx, cfg, logger)
	pCtx.Metrics = newRecorder()
	defer flushMetrics(pCtx.Metrics)

	src, err := newSource(ctx, cfg, pCtx.Timeouts)
	if err != nil {
		return err
	}
	exec, err := newExecutor(cfg, pCtx.Timeouts)
	if err != nil {
		return err
	}
	pCtx.Source = src
	pCtx.Executor = exec

	if err := provisioning.Deploy(pCtx); err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}
	logger.Info("rook-ceph deployed", "version", cfg.Rook.Version, "source", src.String())
	return nil
}
