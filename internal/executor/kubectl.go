package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/imamik/rookctl/internal/util/retry"
)

// CommandRunner runs name with args, feeding stdin, and returns the
// combined output.
type CommandRunner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- arguments are built by Kubectl
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	return cmd.CombinedOutput()
}

// Kubectl implements Executor with the kubectl binary. Manifests are
// passed on stdin.
type Kubectl struct {
	// Binary defaults to "kubectl".
	Binary string
	// Kubeconfig is passed as --kubeconfig when set.
	Kubeconfig string
	// Run defaults to ExecRunner.
	Run CommandRunner
	// Retry configures attempts for transient API server failures.
	Retry []retry.Option
}

var _ Executor = (*Kubectl)(nil)

// NewKubectl returns a Kubectl using kubeconfig, or kubectl's own default
// when kubeconfig is empty.
func NewKubectl(kubeconfig string, opts ...retry.Option) *Kubectl {
	return &Kubectl{Kubeconfig: kubeconfig, Retry: opts}
}

// Apply runs kubectl apply --server-side on manifest.
func (k *Kubectl) Apply(ctx context.Context, name string, manifest []byte) error {
	_, err := k.run(ctx, manifest,
		"apply", "--server-side", "--force-conflicts", "--field-manager="+FieldManager, "-f", "-")
	if err != nil {
		return fmt.Errorf("kubectl apply failed for %s: %w", name, err)
	}
	return nil
}

// Delete runs kubectl delete on manifest. Missing objects are ignored.
func (k *Kubectl) Delete(ctx context.Context, name string, manifest []byte, timeout time.Duration) error {
	_, err := k.run(ctx, manifest,
		"delete", "--ignore-not-found", "--timeout="+timeout.String(), "-f", "-")
	if err != nil {
		return fmt.Errorf("kubectl delete failed for %s: %w", name, err)
	}
	return nil
}

// RolloutStatus runs kubectl rollout status on the deployment.
func (k *Kubectl) RolloutStatus(ctx context.Context, namespace, deployment string, timeout time.Duration) error {
	_, err := k.run(ctx, nil,
		"-n", namespace, "rollout", "status", "deploy/"+deployment, "--timeout="+timeout.String())
	if err != nil {
		return fmt.Errorf("rollout of %s/%s did not complete: %w", namespace, deployment, err)
	}
	return nil
}

// SetDefaultStorageClass patches the default class annotation onto name.
func (k *Kubectl) SetDefaultStorageClass(ctx context.Context, name string) error {
	patch, err := defaultClassPatch()
	if err != nil {
		return err
	}
	if _, err := k.run(ctx, nil, "patch", "storageclass", name, "-p", string(patch)); err != nil {
		return fmt.Errorf("failed to mark storage class %s as default: %w", name, err)
	}
	return nil
}

// Args returns the full argument list for a kubectl invocation.
func (k *Kubectl) Args(args ...string) []string {
	if k.Kubeconfig == "" {
		return args
	}
	return append([]string{"--kubeconfig", k.Kubeconfig}, args...)
}

func (k *Kubectl) run(ctx context.Context, stdin []byte, args ...string) (string, error) {
	binary := k.Binary
	if binary == "" {
		binary = "kubectl"
	}
	runner := k.Run
	if runner == nil {
		runner = ExecRunner
	}
	full := k.Args(args...)

	var output string
	err := retry.WithExponentialBackoff(ctx, func() error {
		out, err := runner(ctx, stdin, binary, full...)
		output = string(out)
		if err == nil {
			return nil
		}
		cmdErr := fmt.Errorf("%w\nOutput: %s", err, strings.TrimSpace(output))
		if !isTransient(output) {
			return retry.Fatal(cmdErr)
		}
		return cmdErr
	}, k.Retry...)
	return output, err
}

// isTransient reports kubectl output that indicates the API server was
// briefly unreachable.
func isTransient(output string) bool {
	for _, marker := range []string{
		"EOF",
		"connection refused",
		"Unable to connect",
		"connection reset",
		"TLS handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

func defaultClassPatch() ([]byte, error) {
	patch := map[string]interface{}{
		"metadata": map[string]interface{}{
			"annotations": map[string]string{DefaultClassAnnotation: "true"},
		},
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage class patch: %w", err)
	}
	return data, nil
}
