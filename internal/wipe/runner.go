package wipe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a shell command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ExecFunc runs a program with arguments and returns its combined output.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// LocalRunner runs commands with bash on the current host.
type LocalRunner struct {
	// Sudo prefixes every command with sudo.
	Sudo bool
	// Exec defaults to os/exec.
	Exec ExecFunc
}

// NewLocalRunner returns a LocalRunner using os/exec.
func NewLocalRunner(sudo bool) *LocalRunner {
	return &LocalRunner{Sudo: sudo, Exec: execCombined}
}

// Run implements Runner.
func (r *LocalRunner) Run(ctx context.Context, command string) (string, error) {
	run := r.Exec
	if run == nil {
		run = execCombined
	}
	out, err := run(ctx, "/bin/bash", "-c", withSudo(r.Sudo, command))
	if err != nil {
		return string(out), fmt.Errorf("%q failed: %w: %s", command, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// RemoteExecutor runs a command on a remote host. Implemented by
// internal/platform/ssh.Client.
type RemoteExecutor interface {
	Execute(ctx context.Context, command string) (string, error)
	Host() string
}

// SSHRunner runs commands on a remote host.
type SSHRunner struct {
	Client RemoteExecutor
	Sudo   bool
}

// Run implements Runner.
func (r *SSHRunner) Run(ctx context.Context, command string) (string, error) {
	out, err := r.Client.Execute(ctx, withSudo(r.Sudo, command))
	if err != nil {
		return out, fmt.Errorf("%q on %s failed: %w", command, r.Client.Host(), err)
	}
	return out, nil
}

// withSudo prefixes the first command of a && chain, so the trailing sync
// runs unprivileged.
func withSudo(sudo bool, command string) string {
	if !sudo {
		return command
	}
	return "sudo " + command
}
