package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options holds the persistent flags shared by every command.
type Options struct {
	LogLevel    string
	LogDev      bool
	MetricsFile string
}

var (
	logger      = logr.Discard()
	metricsFile string

	// logOutput is where log lines go. Stdout is reserved for command
	// output such as the Ansible module result.
	logOutput io.Writer = os.Stderr
)

// Setup builds the process logger and records the metrics destination.
// It runs before every command.
func Setup(opts Options) error {
	log, err := NewLogger(opts.LogLevel, opts.LogDev, logOutput)
	if err != nil {
		return err
	}
	ctrllog.SetLogger(log)
	logger = log
	metricsFile = opts.MetricsFile
	return nil
}

// NewLogger returns a zap backed logr.Logger. level is a zap level name;
// "debug" enables V(1) output.
func NewLogger(level string, development bool, w io.Writer) (logr.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zap.New(
		zap.UseDevMode(development),
		zap.Level(lvl),
		zap.WriteTo(w),
	), nil
}
