package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePhase(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObservePhase("deploy", "apply", 12.5, nil)
	r.ObservePhase("deploy", "apply", 3, errors.New("rollout timed out"))

	assert.Equal(t, float64(1), testutil.ToFloat64(r.phaseTotal.WithLabelValues("deploy", "apply", ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.phaseTotal.WithLabelValues("deploy", "apply", ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.phaseDuration))
}

func TestObserveCounters(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObserveManifest("operator.yaml", "apply", nil)
	r.ObserveManifest("cluster.yaml", "delete", errors.New("timeout"))
	r.ObserveFetch("https://raw.githubusercontent.com/rook/rook", nil)
	r.ObserveWipeCommand(nil)
	r.ObserveWipeCommand(nil)
	r.ObserveWipeCommand(errors.New("exit status 1"))

	assert.Equal(t, float64(1), testutil.ToFloat64(r.manifestOps.WithLabelValues("operator.yaml", "apply", ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.manifestOps.WithLabelValues("cluster.yaml", "delete", ResultError)))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.wipeCommands.WithLabelValues(ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.wipeCommands.WithLabelValues(ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.fetchTotal))
}

func TestSetPlan(t *testing.T) {
	t.Parallel()

	r := New()
	r.SetPlan(3, 3)

	expected := `
# HELP rookctl_plan_mon_count Monitor count of the last storage plan
# TYPE rookctl_plan_mon_count gauge
rookctl_plan_mon_count 3
# HELP rookctl_plan_nodes Node count of the last storage plan
# TYPE rookctl_plan_nodes gauge
rookctl_plan_nodes 3
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected),
		"rookctl_plan_nodes", "rookctl_plan_mon_count"))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObservePhase("reset", "wipe", 1, nil)
	r.MarkRun("reset", nil)

	path := filepath.Join(t.TempDir(), "rookctl.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rookctl_phase_total{operation="reset",phase="wipe",result="success"} 1`)
	assert.Contains(t, string(data), `rookctl_last_run_timestamp_seconds{operation="reset",result="success"}`)

	err = r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "rookctl.prom"))
	assert.ErrorContains(t, err, "failed to write metrics")
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObservePhase("deploy", "fetch", 1, nil)
		r.ObserveManifest("crds.yaml", "apply", nil)
		r.ObserveFetch("dir", nil)
		r.ObserveWipeCommand(nil)
		r.SetPlan(1, 1)
		r.MarkRun("deploy", nil)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile("/nonexistent/metrics.prom"))
}
