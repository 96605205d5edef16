package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/templates"
)

// Mirror handles the mirror command.
//
// It downloads the configured Rook release from upstream (or from the
// given base URL) and uploads it to the S3 mirror in rook.source.s3, the
// layout later deploys read from air-gapped hosts.
func Mirror(ctx context.Context, configPath, fromURL string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateDeploy(); err != nil {
		return err
	}
	s3cfg := cfg.Rook.Source.S3
	if !s3cfg.Enabled() {
		return errors.New("rook.source.s3.bucket is required to mirror templates")
	}

	timeouts := config.LoadTimeouts()
	rec := newRecorder()
	defer flushMetrics(rec)

	upstream := &templates.HTTPSource{
		BaseURL: fromURL,
		Client:  &http.Client{Timeout: timeouts.Fetch},
		Retry:   retryOptions(timeouts),
	}
	bundle, err := templates.FetchAll(ctx, upstream, cfg.Rook.Version)
	rec.ObserveFetch(upstream.String(), err)
	if err != nil {
		return fmt.Errorf("failed to fetch rook %s manifests from %s: %w", cfg.Rook.Version, upstream, err)
	}

	bucket, err := newBucket(ctx, s3Options(s3cfg))
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := bucket.EnsureBucket(ctx, s3cfg.Bucket); err != nil {
		return err
	}
	if err := templates.Mirror(ctx, bundle, bucket, s3cfg.Bucket, s3cfg.Prefix); err != nil {
		return err
	}

	dst := &templates.S3Source{Client: bucket, Bucket: s3cfg.Bucket, Prefix: s3cfg.Prefix}
	logger.Info("templates mirrored", "version", cfg.Rook.Version, "from", upstream.String(), "to", dst.String(), "files", len(bundle.Manifests))
	return nil
}
