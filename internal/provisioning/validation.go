package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/rookctl/internal/topology"
)

// Validation severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	var errs []string
	for _, ve := range Validate(ctx) {
		if ve.IsError() {
			LogValidationError(ctx.Observer, ve.Field, ve.Message)
			errs = append(errs, ve.Error())
			continue
		}
		LogValidationWarning(ctx.Observer, ve.Field, ve.Message)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: configuration validation failed:\n  %s", topology.ErrInvalidSpec, strings.Join(errs, "\n  "))
	}
	return nil
}

// Validate runs the pre-flight checks for ctx.Operation and returns any
// errors or warnings.
func Validate(ctx *Context) []ValidationError {
	var errs []ValidationError
	cfg := ctx.Config

	// --- Configuration ---

	if cfg == nil {
		return []ValidationError{{Field: "config", Message: "configuration is required", Severity: SeverityError}}
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "config", Message: err.Error(), Severity: SeverityError})
	}

	// --- Collaborators ---

	if ctx.Executor == nil && ctx.Operation != OperationRender {
		errs = append(errs, ValidationError{Field: "rook.executor", Message: "no executor configured", Severity: SeverityError})
	}
	if ctx.Store == nil {
		errs = append(errs, ValidationError{Field: "rook.stagingDir", Message: "no staging store configured", Severity: SeverityError})
	}

	switch ctx.Operation {
	case OperationDeploy, OperationRender:
		if err := cfg.ValidateDeploy(); err != nil {
			errs = append(errs, ValidationError{Field: "rook.version", Message: err.Error(), Severity: SeverityError})
		}
		if ctx.Source == nil {
			errs = append(errs, ValidationError{Field: "rook.source", Message: "no template source configured", Severity: SeverityError})
		}
		if cfg.Ceph.ForceCleanup {
			errs = append(errs, ValidationError{
				Field:    "ceph.forceCleanup",
				Message:  "forceCleanup only affects reset",
				Severity: SeverityWarning,
			})
		}
	case OperationReset:
		if ctx.Runner == nil {
			errs = append(errs, ValidationError{Field: "host", Message: "no command runner configured", Severity: SeverityError})
		}
		if len(cfg.Ceph.Nodes) > 0 && ctx.Host == "" {
			errs = append(errs, ValidationError{
				Field:    "host",
				Message:  "target host is required when ceph nodes are configured",
				Severity: SeverityError,
			})
		}
	}

	// --- Topology ---

	seen := make(map[string]bool, len(cfg.Ceph.Nodes))
	withVolumes := 0
	for i, node := range cfg.Ceph.Nodes {
		field := fmt.Sprintf("ceph.nodes[%d]", i)
		if seen[node.Name] {
			errs = append(errs, ValidationError{
				Field:    field + ".name",
				Message:  fmt.Sprintf("node %q is listed more than once", node.Name),
				Severity: SeverityWarning,
			})
		}
		seen[node.Name] = true

		if len(node.Volumes) == 0 {
			errs = append(errs, ValidationError{
				Field:    field + ".volumes",
				Message:  fmt.Sprintf("node %q has no volumes and will be skipped", node.Name),
				Severity: SeverityWarning,
			})
			continue
		}
		withVolumes++

		for _, v := range node.Volumes {
			if node.Metadata != "" && v == node.Metadata {
				errs = append(errs, ValidationError{
					Field:    field + ".metadata",
					Message:  fmt.Sprintf("metadata device %s is also listed as a volume", v),
					Severity: SeverityWarning,
				})
			}
		}
	}

	if withVolumes > topology.MaxNodeCount {
		errs = append(errs, ValidationError{
			Field:    "ceph.nodes",
			Message:  fmt.Sprintf("%d nodes have volumes, replication and quorum are capped at %d", withVolumes, topology.MaxNodeCount),
			Severity: SeverityWarning,
		})
	}

	// --- Version formats ---

	if v := cfg.Ceph.Image.Version; strings.HasPrefix(v, "v") {
		errs = append(errs, ValidationError{
			Field:    "ceph.image.version",
			Message:  "version should not start with 'v' (e.g., '15.2.7')",
			Severity: SeverityWarning,
		})
	}

	return errs
}
