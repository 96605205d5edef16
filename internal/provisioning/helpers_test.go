package provisioning

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/metrics"
	"github.com/imamik/rookctl/internal/templates"
)

const testVersion = "1.5.12"

const testConfig = `
rook:
  version: 1.5.12
ceph:
  image:
    version: 15.2.7
  nodes:
    - name: n1
      metadata: /dev/sdb
      volumes: [/dev/sdc, sdd]
    - name: n2
      volumes: [/dev/sdc]
    - name: n3
`

// recordingObserver records events and logs through testr. Fields passed
// to WithFields accumulate on the same observer.
type recordingObserver struct {
	mu     sync.Mutex
	log    logr.Logger
	events []Event
	fields map[string]string
}

func newRecordingObserver(t *testing.T) *recordingObserver {
	return &recordingObserver{log: testr.New(t)}
}

func (o *recordingObserver) Event(event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) Progress(phase string, current, total int) {
	o.Event(Event{Type: EventProgress, Phase: phase, Message: fmt.Sprintf("%d/%d", current, total)})
}

func (o *recordingObserver) WithFields(fields map[string]string) Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fields == nil {
		o.fields = map[string]string{}
	}
	for k, v := range fields {
		o.fields[k] = v
	}
	return o
}

func (o *recordingObserver) field(key string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fields[key]
}

func (o *recordingObserver) Logger() logr.Logger { return o.log }

func (o *recordingObserver) ofType(typ EventType) []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Event
	for _, e := range o.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// callLog is shared by the fake executor, runner and sleep so tests can
// assert on the interleaving.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeExecutor struct {
	log     *callLog
	applied map[string][]byte

	failApply   map[string]error
	failDelete  map[string]error
	failRollout map[string]error
}

func (f *fakeExecutor) Apply(_ context.Context, name string, data []byte) error {
	f.log.add("apply %s", name)
	if f.applied == nil {
		f.applied = map[string][]byte{}
	}
	f.applied[name] = data
	return f.failApply[name]
}

func (f *fakeExecutor) Delete(_ context.Context, name string, _ []byte, timeout time.Duration) error {
	f.log.add("delete %s %s", name, timeout)
	return f.failDelete[name]
}

func (f *fakeExecutor) RolloutStatus(_ context.Context, namespace, deployment string, timeout time.Duration) error {
	f.log.add("rollout %s/%s %s", namespace, deployment, timeout)
	return f.failRollout[deployment]
}

func (f *fakeExecutor) SetDefaultStorageClass(_ context.Context, name string) error {
	f.log.add("default %s", name)
	return nil
}

type fakeRunner struct {
	log     *callLog
	outputs map[string]string
	fail    map[string]error
}

func (r *fakeRunner) Run(_ context.Context, command string) (string, error) {
	r.log.add("run %s", command)
	return r.outputs[command], r.fail[command]
}

type harness struct {
	ctx      *Context
	log      *callLog
	exec     *fakeExecutor
	runner   *fakeRunner
	observer *recordingObserver
	metrics  *metrics.Recorder
}

func newHarness(t *testing.T, rawConfig string) *harness {
	t.Helper()

	cfg, err := config.LoadBytes([]byte(rawConfig))
	require.NoError(t, err)
	cfg.Rook.StagingDir = t.TempDir()

	log := &callLog{}
	h := &harness{
		log:      log,
		exec:     &fakeExecutor{log: log},
		runner:   &fakeRunner{log: log},
		observer: newRecordingObserver(t),
		metrics:  metrics.New(),
	}

	ctx := NewContext(context.Background(), cfg, logr.Discard())
	ctx.Source = &templates.DirSource{Dir: "testdata"}
	ctx.Executor = h.exec
	ctx.Runner = h.runner
	ctx.Observer = h.observer
	ctx.Metrics = h.metrics
	ctx.Timeouts = &config.Timeouts{
		Rollout:        10 * time.Minute,
		Delete:         30 * time.Second,
		OperatorSettle: 60 * time.Second,
		ApplyInterval:  time.Second,
	}
	ctx.Sleep = func(_ context.Context, d time.Duration) error {
		log.add("sleep %s", d)
		return nil
	}
	h.ctx = ctx
	return h
}

// stageAll stages the unpatched test release.
func (h *harness) stageAll(t *testing.T) {
	t.Helper()
	bundle, err := templates.FetchAll(context.Background(), &templates.DirSource{Dir: "testdata"}, testVersion)
	require.NoError(t, err)
	require.NoError(t, h.ctx.Store.WriteBundle(bundle))
}
