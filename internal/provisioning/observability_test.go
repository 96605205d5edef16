package provisioning

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lines = append(s.lines, strings.TrimSpace(prefix+" "+args))
	}, funcr.Options{Verbosity: 1})
}

func (s *lineSink) joined() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines, "\n")
}

func TestLogObserver_Event(t *testing.T) {
	t.Parallel()

	sink := &lineSink{}
	observer := NewLogObserver(sink.logger())

	observer.Event(Event{
		Type:     EventManifestApplied,
		Phase:    "apply",
		Resource: "operator.yaml",
		Message:  "manifest applied",
		Fields:   map[string]string{"version": "1.5.12"},
	})

	out := sink.joined()
	assert.Contains(t, out, `"msg"="manifest applied"`)
	assert.Contains(t, out, `"event"="manifest.applied"`)
	assert.Contains(t, out, `"phase"="apply"`)
	assert.Contains(t, out, `"resource"="operator.yaml"`)
	assert.Contains(t, out, `"version"="1.5.12"`)
}

func TestLogObserver_FailuresAreErrors(t *testing.T) {
	t.Parallel()

	sink := &lineSink{}
	observer := NewLogObserver(sink.logger())
	LogPhaseFailed(observer, "apply", errors.New("rollout timed out"))

	out := sink.joined()
	assert.Contains(t, out, `"error"=null`)
	assert.Contains(t, out, "failed: rollout timed out")
}

func TestLogObserver_WithFields(t *testing.T) {
	t.Parallel()

	sink := &lineSink{}
	base := NewLogObserver(sink.logger())
	scoped := base.WithFields(map[string]string{"host": "n1"})

	scoped.Event(Event{Type: EventPhaseStarted, Phase: "wipe", Message: "starting"})
	base.Event(Event{Type: EventPhaseStarted, Phase: "stage", Message: "starting"})

	lines := strings.Split(sink.joined(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"host"="n1"`)
	assert.NotContains(t, lines[1], `"host"`, "parent observer is not modified")

	scoped.Logger().Info("free form")
	assert.Contains(t, sink.joined(), `"msg"="free form" "host"="n1"`)
}

func TestLogObserver_Progress(t *testing.T) {
	t.Parallel()

	sink := &lineSink{}
	observer := NewLogObserver(sink.logger())
	observer.Progress("apply", 3, 6)
	observer.Progress("apply", 0, 0)

	out := sink.joined()
	assert.Contains(t, out, `"percent"="50"`)
	assert.Contains(t, out, `"current"="0" "total"="0"`)
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()

	observer := newRecordingObserver(t)
	LogPhaseStart(observer, "fetch")
	LogPhaseComplete(observer, "fetch", 1500*time.Millisecond)
	LogManifestApplied(observer, "apply", "crds.yaml")
	LogManifestDeleted(observer, "undeploy", "crds.yaml")
	LogManifestDeleteFailed(observer, "undeploy", "cluster.yaml", errors.New("timeout"))
	LogRolloutWaiting(observer, "apply", "rook-ceph", "rook-ceph-operator", time.Minute)
	LogRolloutReady(observer, "apply", "rook-ceph", "rook-ceph-operator")
	LogValidationWarning(observer, "ceph.nodes", "capped")
	LogValidationError(observer, "rook.version", "required")

	tests := []struct {
		typ      EventType
		resource string
		message  string
	}{
		{EventPhaseStarted, "", "starting"},
		{EventPhaseCompleted, "", "completed in 1.5s"},
		{EventManifestApplied, "crds.yaml", "manifest applied"},
		{EventManifestDeleted, "crds.yaml", "manifest deleted"},
		{EventManifestDeleteFailed, "cluster.yaml", "delete failed, continuing: timeout"},
		{EventRolloutWaiting, "rook-ceph/rook-ceph-operator", "waiting for rollout"},
		{EventRolloutReady, "rook-ceph/rook-ceph-operator", "rollout complete"},
		{EventValidationWarning, "", "capped"},
		{EventValidationError, "", "required"},
	}

	require.Len(t, observer.events, len(tests))
	for i, tt := range tests {
		e := observer.events[i]
		assert.Equal(t, tt.typ, e.Type)
		assert.Equal(t, tt.resource, e.Resource)
		assert.Equal(t, tt.message, e.Message)
	}
	assert.Equal(t, "1m0s", observer.events[5].Fields["timeout"])
}
