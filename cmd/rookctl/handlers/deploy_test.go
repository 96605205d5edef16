package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/executor"
	"github.com/imamik/rookctl/internal/templates"
)

func TestDeploy(t *testing.T) {
	exec, _ := stubFactories(t)
	path, stagingDir := writeConfig(t)
	metricsFile = filepath.Join(t.TempDir(), "rookctl.prom")

	require.NoError(t, Deploy(context.Background(), path))

	assert.Equal(t, []string{
		"apply crds.yaml",
		"apply common.yaml",
		"apply operator.yaml",
		"rollout rook-ceph/rook-ceph-operator",
		"apply cluster.yaml",
		"apply storageclass.yaml",
		"apply toolbox.yaml",
		"rollout rook-ceph/rook-ceph-tools",
		"default rook-ceph-block",
	}, exec.calls)

	staged, err := os.ReadFile(filepath.Join(stagingDir, templates.Cluster))
	require.NoError(t, err)
	assert.Equal(t, staged, exec.applied[templates.Cluster])
	assert.Contains(t, string(staged), "ceph/ceph:v15.2.7")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `rookctl_phase_total{operation="deploy",phase="apply",result="success"} 1`)
}

func TestDeploy_Failures(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		stubFactories(t)
		err := Deploy(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("executor unavailable", func(t *testing.T) {
		stubFactories(t)
		path, _ := writeConfig(t)
		newExecutor = func(*config.Config, *config.Timeouts) (executor.Executor, error) {
			return nil, assert.AnError
		}
		err := Deploy(context.Background(), path)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("apply error", func(t *testing.T) {
		exec, _ := stubFactories(t)
		exec.failOn = "apply cluster.yaml"
		path, _ := writeConfig(t)

		err := Deploy(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deploy failed: apply phase failed")
		assert.NotContains(t, exec.calls, "apply storageclass.yaml")
	})
}

func TestRender(t *testing.T) {
	stubFactories(t)
	newExecutor = func(*config.Config, *config.Timeouts) (executor.Executor, error) {
		t.Fatal("render must not build an executor")
		return nil, nil
	}
	path, stagingDir := writeConfig(t)
	out := filepath.Join(t.TempDir(), "rendered")

	require.NoError(t, Render(context.Background(), path, out))

	for _, f := range templates.Files {
		assert.FileExists(t, filepath.Join(out, f.Name))
	}
	assert.NoDirExists(t, stagingDir, "the staging directory is left alone")

	cluster, err := os.ReadFile(filepath.Join(out, templates.Cluster))
	require.NoError(t, err)
	assert.Contains(t, string(cluster), "/dev/sdd")
}
