package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/executor"
	"github.com/imamik/rookctl/internal/provisioning"
	"github.com/imamik/rookctl/internal/util/prerequisites"
	"github.com/imamik/rookctl/internal/wipe"
)

// releaseDir holds a trimmed Rook 1.5.12 release laid out for DirSource.
const releaseDir = "../../../internal/provisioning/testdata"

const clusterConfig = `rook:
  version: 1.5.12
  source:
    dir: %s
  stagingDir: %s
ceph:
  image:
    version: 15.2.7
  nodes:
    - name: n1
      metadata: /dev/sdb
      volumes: [/dev/sdc, /dev/sdd]
    - name: n2
      volumes: [/dev/sdc]
`

// writeConfig writes clusterConfig into a temp dir and returns its path
// and staging directory.
func writeConfig(t *testing.T) (path, stagingDir string) {
	t.Helper()
	dir := t.TempDir()
	stagingDir = filepath.Join(dir, "staging")
	path = filepath.Join(dir, "cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(clusterConfig, releaseDir, stagingDir)), 0o600))
	return path, stagingDir
}

type fakeExecutor struct {
	mu      sync.Mutex
	calls   []string
	failOn  string
	applied map[string][]byte
}

func (f *fakeExecutor) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return fmt.Errorf("%s: connection refused", call)
	}
	return nil
}

func (f *fakeExecutor) Apply(_ context.Context, name string, data []byte) error {
	f.mu.Lock()
	if f.applied == nil {
		f.applied = map[string][]byte{}
	}
	f.applied[name] = data
	f.mu.Unlock()
	return f.record("apply " + name)
}

func (f *fakeExecutor) Delete(_ context.Context, name string, _ []byte, _ time.Duration) error {
	return f.record("delete " + name)
}

func (f *fakeExecutor) RolloutStatus(_ context.Context, namespace, deployment string, _ time.Duration) error {
	return f.record("rollout " + namespace + "/" + deployment)
}

func (f *fakeExecutor) SetDefaultStorageClass(_ context.Context, name string) error {
	return f.record("default " + name)
}

type fakeRunner struct {
	commands []string
}

func (r *fakeRunner) Run(_ context.Context, command string) (string, error) {
	r.commands = append(r.commands, command)
	return "", nil
}

// stubFactories replaces the handler factories with in-memory fakes and
// restores them when the test ends.
func stubFactories(t *testing.T) (*fakeExecutor, *fakeRunner) {
	t.Helper()

	origLoad := loadConfig
	origCtx := newProvisioningContext
	origSource := newSource
	origExec := newExecutor
	origBucket := newBucket
	origCheck := checkTools
	origHostname := hostname
	origSSH := newSSHClient
	origLocal := newLocalRunner
	origEuid := geteuid
	origConfirm := confirmReset
	origLogger := logger
	origMetrics := metricsFile
	t.Cleanup(func() {
		loadConfig = origLoad
		newProvisioningContext = origCtx
		newSource = origSource
		newExecutor = origExec
		newBucket = origBucket
		checkTools = origCheck
		hostname = origHostname
		newSSHClient = origSSH
		newLocalRunner = origLocal
		geteuid = origEuid
		confirmReset = origConfirm
		logger = origLogger
		metricsFile = origMetrics
	})

	exec := &fakeExecutor{}
	runner := &fakeRunner{}

	newProvisioningContext = func(ctx context.Context, cfg *config.Config, log logr.Logger) *provisioning.Context {
		pCtx := provisioning.NewContext(ctx, cfg, log)
		pCtx.Sleep = func(context.Context, time.Duration) error { return nil }
		return pCtx
	}
	newExecutor = func(*config.Config, *config.Timeouts) (executor.Executor, error) { return exec, nil }
	newLocalRunner = func(bool) wipe.Runner { return runner }
	checkTools = func(tools []prerequisites.Tool) *prerequisites.CheckResults {
		return prerequisites.CheckWith(func(name string) (string, error) { return "/usr/bin/" + name, nil }, tools)
	}
	hostname = func() (string, error) { return "n1", nil }
	confirmReset = func(context.Context, string, string) (bool, error) {
		t.Fatal("unexpected confirmation prompt")
		return false, nil
	}
	logger = logr.Discard()
	metricsFile = ""
	return exec, runner
}
