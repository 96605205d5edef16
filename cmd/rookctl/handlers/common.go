package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/executor"
	"github.com/imamik/rookctl/internal/metrics"
	"github.com/imamik/rookctl/internal/platform/s3"
	"github.com/imamik/rookctl/internal/provisioning"
	"github.com/imamik/rookctl/internal/templates"
	"github.com/imamik/rookctl/internal/util/prerequisites"
	"github.com/imamik/rookctl/internal/util/retry"
)

// Bucket is the S3 surface used for template mirrors.
type Bucket interface {
	templates.ObjectGetter
	templates.ObjectPutter
	EnsureBucket(ctx context.Context, bucket string) error
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig             = config.LoadFile
	newProvisioningContext = provisioning.NewContext
	newSource              = buildSource
	newExecutor            = buildExecutor
	newBucket              = newS3Bucket
	checkTools             = prerequisites.Check
	hostname               = os.Hostname
)

func newS3Bucket(ctx context.Context, opts s3.Options) (Bucket, error) {
	client, err := s3.NewClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func retryOptions(t *config.Timeouts) []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(t.RetryMaxAttempts),
		retry.WithInitialDelay(t.RetryInitialDelay),
	}
}

// buildSource picks the template source configured under rook.source.
func buildSource(ctx context.Context, cfg *config.Config, t *config.Timeouts) (templates.Source, error) {
	src := cfg.Rook.Source
	switch {
	case src.Dir != "":
		return &templates.DirSource{Dir: src.Dir}, nil
	case src.S3.Enabled():
		bucket, err := newBucket(ctx, s3Options(src.S3))
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		return &templates.S3Source{Client: bucket, Bucket: src.S3.Bucket, Prefix: src.S3.Prefix}, nil
	default:
		return &templates.HTTPSource{
			BaseURL: src.URL,
			Client:  &http.Client{Timeout: t.Fetch},
			Retry:   retryOptions(t),
		}, nil
	}
}

func s3Options(c config.S3Config) s3.Options {
	return s3.Options{
		Endpoint:  c.Endpoint,
		Region:    c.Region,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
	}
}

// buildExecutor returns the executor named by rook.executor.
func buildExecutor(cfg *config.Config, t *config.Timeouts) (executor.Executor, error) {
	if cfg.Rook.Executor == config.ExecutorClient {
		return executor.NewClient(cfg.Rook.Kubeconfig)
	}
	if err := requireTools(prerequisites.KubectlTools()); err != nil {
		return nil, err
	}
	return executor.NewKubectl(cfg.Rook.Kubeconfig, retryOptions(t)...), nil
}

func requireTools(tools []prerequisites.Tool) error {
	results := checkTools(tools)
	if missing := results.OptionalMissing(); len(missing) > 0 {
		logger.Info("optional tools not found", "tools", missing)
	}
	return results.Error()
}

// newRecorder returns a metrics recorder when --metrics-file is set.
func newRecorder() *metrics.Recorder {
	if metricsFile == "" {
		return nil
	}
	return metrics.New()
}

// flushMetrics writes the recorder to --metrics-file. A failed write is
// logged and never fails the command.
func flushMetrics(rec *metrics.Recorder) {
	if err := rec.WriteTextfile(metricsFile); err != nil {
		logger.Error(err, "metrics not written", "path", metricsFile)
	}
}
