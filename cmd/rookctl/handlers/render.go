package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/rookctl/internal/provisioning"
	"github.com/imamik/rookctl/internal/templates"
)

// Render handles the render command. It writes the patched manifests of a
// deploy into dir without contacting a cluster.
func Render(ctx context.Context, configPath, dir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, logger)
	pCtx.Metrics = newRecorder()
	defer flushMetrics(pCtx.Metrics)

	src, err := newSource(ctx, cfg, pCtx.Timeouts)
	if err != nil {
		return err
	}
	pCtx.Source = src
	pCtx.Store = templates.NewStore(dir)

	if err := provisioning.Render(pCtx); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Info("manifests rendered", "dir", dir, "files", len(templates.Files))
	return nil
}
