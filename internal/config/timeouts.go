package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the waits and retry settings of a run.
// These values can be customized via environment variables.
type Timeouts struct {
	Rollout           time.Duration // Wait for a deployment rollout to finish
	Delete            time.Duration // Per-manifest delete timeout during reset
	OperatorSettle    time.Duration // Pause after the operator rollout before applying the cluster
	ApplyInterval     time.Duration // Pause between the other manifests
	Fetch             time.Duration // Per-request template download timeout
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - ROOKCTL_TIMEOUT_ROLLOUT (default: 10m)
//   - ROOKCTL_TIMEOUT_DELETE (default: 30s)
//   - ROOKCTL_OPERATOR_SETTLE (default: 60s)
//   - ROOKCTL_APPLY_INTERVAL (default: 1s)
//   - ROOKCTL_TIMEOUT_FETCH (default: 30s)
//   - ROOKCTL_RETRY_MAX_ATTEMPTS (default: 5)
//   - ROOKCTL_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Rollout:           parseDuration("ROOKCTL_TIMEOUT_ROLLOUT", 10*time.Minute),
		Delete:            parseDuration("ROOKCTL_TIMEOUT_DELETE", 30*time.Second),
		OperatorSettle:    parseDuration("ROOKCTL_OPERATOR_SETTLE", 60*time.Second),
		ApplyInterval:     parseDuration("ROOKCTL_APPLY_INTERVAL", 1*time.Second),
		Fetch:             parseDuration("ROOKCTL_TIMEOUT_FETCH", 30*time.Second),
		RetryMaxAttempts:  parseInt("ROOKCTL_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("ROOKCTL_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration reads a duration from envVar, falling back to defaultVal
// when it is unset, unparsable or negative.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
