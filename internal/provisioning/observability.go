package provisioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer

	// Logger returns the underlying logger for free-form messages.
	Logger() logr.Logger
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "apply", "wipe")
	Message   string            // Human-readable message
	Resource  string            // Manifest, deployment or device if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventManifestApplied indicates a staged manifest was applied.
	EventManifestApplied EventType = "manifest.applied"
	// EventManifestDeleted indicates a staged manifest was deleted from the cluster.
	EventManifestDeleted EventType = "manifest.deleted"
	// EventManifestDeleteFailed indicates a delete failed and was ignored.
	EventManifestDeleteFailed EventType = "manifest.delete_failed"
	// EventManifestMissing indicates a staged manifest is absent.
	EventManifestMissing EventType = "manifest.missing"

	// EventRolloutWaiting indicates a wait for a deployment rollout.
	EventRolloutWaiting EventType = "rollout.waiting"
	// EventRolloutReady indicates a deployment finished rolling out.
	EventRolloutReady EventType = "rollout.ready"

	// EventNodeSkipped indicates a configured node contributed no devices.
	EventNodeSkipped EventType = "node.skipped"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Logger implements Observer.
func (o *LogObserver) Logger() logr.Logger {
	return o.log.WithValues(keyValues(o.contextFields)...)
}

// Event implements Observer. Failures and validation errors are logged as
// errors; everything else at info level.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	for k, v := range o.contextFields {
		fields[k] = v
	}
	for k, v := range event.Fields {
		fields[k] = v
	}

	kv := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, keyValues(fields)...)

	switch event.Type {
	case EventPhaseFailed, EventValidationError:
		o.log.Error(nil, event.Message, kv...)
	case EventProgress:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	fields := map[string]string{
		"current": fmt.Sprint(current),
		"total":   fmt.Sprint(total),
	}
	if total > 0 {
		fields["percent"] = fmt.Sprint((current * 100) / total)
	}
	o.Event(Event{Type: EventProgress, Phase: phase, Message: "progress", Fields: fields})
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &LogObserver{log: o.log, contextFields: newFields}
}

// keyValues flattens fields into sorted logr key/value pairs.
func keyValues(fields map[string]string) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogManifestApplied logs a successful apply of a staged file.
func LogManifestApplied(observer Observer, phase, file string) {
	observer.Event(Event{
		Type:     EventManifestApplied,
		Phase:    phase,
		Resource: file,
		Message:  "manifest applied",
	})
}

// LogManifestDeleted logs the removal of a staged file's objects.
func LogManifestDeleted(observer Observer, phase, file string) {
	observer.Event(Event{
		Type:     EventManifestDeleted,
		Phase:    phase,
		Resource: file,
		Message:  "manifest deleted",
	})
}

// LogManifestDeleteFailed logs an ignored delete failure.
func LogManifestDeleteFailed(observer Observer, phase, file string, err error) {
	observer.Event(Event{
		Type:     EventManifestDeleteFailed,
		Phase:    phase,
		Resource: file,
		Message:  fmt.Sprintf("delete failed, continuing: %v", err),
	})
}

// LogRolloutWaiting logs the start of a rollout wait.
func LogRolloutWaiting(observer Observer, phase, namespace, deployment string, timeout time.Duration) {
	observer.Event(Event{
		Type:     EventRolloutWaiting,
		Phase:    phase,
		Resource: namespace + "/" + deployment,
		Message:  "waiting for rollout",
		Fields: map[string]string{
			"timeout": timeout.String(),
		},
	})
}

// LogRolloutReady logs a completed rollout.
func LogRolloutReady(observer Observer, phase, namespace, deployment string) {
	observer.Event(Event{
		Type:     EventRolloutReady,
		Phase:    phase,
		Resource: namespace + "/" + deployment,
		Message:  "rollout complete",
	})
}

// LogValidationWarning logs a validation warning.
func LogValidationWarning(observer Observer, field, message string) {
	observer.Event(Event{
		Type:    EventValidationWarning,
		Phase:   "validation",
		Message: message,
		Fields: map[string]string{
			"field": field,
		},
	})
}

// LogValidationError logs a validation error.
func LogValidationError(observer Observer, field, message string) {
	observer.Event(Event{
		Type:    EventValidationError,
		Phase:   "validation",
		Message: message,
		Fields: map[string]string{
			"field": field,
		},
	})
}
