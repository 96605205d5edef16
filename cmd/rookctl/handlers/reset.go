package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/platform/ssh"
	"github.com/imamik/rookctl/internal/provisioning"
	"github.com/imamik/rookctl/internal/util/prerequisites"
	"github.com/imamik/rookctl/internal/wipe"
)

// ErrResetDeclined is returned when the operator does not confirm a reset.
var ErrResetDeclined = errors.New("reset not confirmed")

// EnvSSHPassphrase holds the passphrase of an encrypted --ssh-key.
const EnvSSHPassphrase = "ROOKCTL_SSH_PASSPHRASE"

// ResetOptions selects the storage host a reset cleans up.
type ResetOptions struct {
	// Host is the node name whose volumes are wiped. It defaults to the
	// local hostname, or to SSHAddress when wiping over SSH.
	Host string

	// SSHAddress enables remote cleanup. Empty runs commands locally.
	SSHAddress     string
	SSHPort        int
	SSHUser        string
	SSHKeyPath     string
	KnownHostsFile string

	// Yes skips the confirmation prompt.
	Yes bool
}

// Remote reports whether cleanup runs over SSH.
func (o ResetOptions) Remote() bool {
	return o.SSHAddress != ""
}

// Factory function variables for reset - can be replaced in tests.
var (
	newSSHClient   = newSSHExecutor
	newLocalRunner = func(sudo bool) wipe.Runner { return wipe.NewLocalRunner(sudo) }
	geteuid        = os.Geteuid
	confirmReset   = promptReset
)

func newSSHExecutor(cfg *ssh.Config) (wipe.RemoteExecutor, error) {
	client, err := ssh.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Reset handles the reset command.
//
// It deletes the staged Rook manifests from the cluster, then removes
// ceph device-mapper state and wipes the host's volumes. Wiping is
// irreversible, so an interactive confirmation is required unless
// opts.Yes is set.
func Reset(ctx context.Context, configPath string, opts ResetOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	host, err := resolveHost(opts)
	if err != nil {
		return err
	}

	if !opts.Yes {
		ok, err := confirmReset(ctx, host, cfg.Rook.StagingDir)
		if err != nil {
			return err
		}
		if !ok {
			return ErrResetDeclined
		}
	}

	runner, closeRunner, err := buildRunner(opts)
	if err != nil {
		return err
	}
	defer closeRunner()

	return runReset(ctx, cfg, host, runner)
}

func runReset(ctx context.Context, cfg *config.Config, host string, runner wipe.Runner) error {
	pCtx := newProvisioningContext(ctx, cfg, logger)
	pCtx.Metrics = newRecorder()
	defer flushMetrics(pCtx.Metrics)

	exec, err := newExecutor(cfg, pCtx.Timeouts)
	if err != nil {
		return err
	}
	pCtx.Executor = exec
	pCtx.Runner = runner
	pCtx.Host = host

	// Missing staged files are fetched again when the version is known.
	if cfg.Rook.Version != "" {
		src, err := newSource(ctx, cfg, pCtx.Timeouts)
		if err != nil {
			return err
		}
		pCtx.Source = src
	}

	if err := provisioning.Reset(pCtx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	logger.Info("rook-ceph reset", "host", host, "undeployed", pCtx.State.Undeployed, "volumes", pCtx.State.Volumes)
	return nil
}

func resolveHost(opts ResetOptions) (string, error) {
	if opts.Host != "" {
		return opts.Host, nil
	}
	if opts.Remote() {
		return opts.SSHAddress, nil
	}
	name, err := hostname()
	if err != nil {
		return "", fmt.Errorf("failed to determine hostname, pass --host: %w", err)
	}
	return name, nil
}

// buildRunner returns the command runner for the cleanup and a function
// releasing it.
func buildRunner(opts ResetOptions) (wipe.Runner, func(), error) {
	if !opts.Remote() {
		if err := requireTools(prerequisites.WipeTools()); err != nil {
			return nil, nil, err
		}
		return newLocalRunner(geteuid() != 0), func() {}, nil
	}

	if opts.SSHUser == "" || opts.SSHKeyPath == "" {
		return nil, nil, errors.New("--ssh-user and --ssh-key are required with --ssh")
	}
	key, err := os.ReadFile(opts.SSHKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read ssh key: %w", err)
	}
	client, err := newSSHClient(&ssh.Config{
		Host:           opts.SSHAddress,
		Port:           opts.SSHPort,
		User:           opts.SSHUser,
		PrivateKey:     key,
		Passphrase:     []byte(os.Getenv(EnvSSHPassphrase)),
		KnownHostsFile: opts.KnownHostsFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create ssh client: %w", err)
	}

	release := func() {}
	if c, ok := client.(interface{ Close() error }); ok {
		release = func() {
			if err := c.Close(); err != nil {
				logger.V(1).Info("ssh close failed", "error", err.Error())
			}
		}
	}
	return &wipe.SSHRunner{Client: client, Sudo: opts.SSHUser != "root"}, release, nil
}
