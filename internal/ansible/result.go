package ansible

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/imamik/rookctl/internal/manifest"
	"github.com/imamik/rookctl/internal/templates"
	"github.com/imamik/rookctl/internal/topology"
	"github.com/imamik/rookctl/internal/wipe"
)

// Result is the JSON document a module prints on exit.
type Result struct {
	Changed      bool                   `json:"changed"`
	Failed       bool                   `json:"failed"`
	Msg          string                 `json:"msg,omitempty"`
	AnsibleFacts map[string]interface{} `json:"ansible_facts"`
}

// NewResult returns an unchanged, successful result with no facts.
func NewResult() *Result {
	return &Result{AnsibleFacts: map[string]interface{}{}}
}

// Fail marks r failed with the message "<Kind>: <err>".
func (r *Result) Fail(err error) {
	r.Failed = true
	r.Msg = fmt.Sprintf("%s: %v", ErrorKind(err), err)
}

// Write encodes r as a single JSON line.
func (r *Result) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to write module result: %w", err)
	}
	return nil
}

var errorKinds = []struct {
	target error
	kind   string
}{
	{topology.ErrUnsupportedMode, "UnsupportedMode"},
	{topology.ErrInvalidSpec, "InvalidSpec"},
	{manifest.ErrFieldMissing, "FieldMissing"},
	{manifest.ErrNotMap, "FieldMissing"},
	{manifest.ErrParse, "ParseError"},
	{templates.ErrNotFound, "NotFound"},
	{wipe.ErrNodeNotFound, "NodeNotFound"},
	{context.DeadlineExceeded, "Timeout"},
	{context.Canceled, "Canceled"},
}

// ErrorKind names the class of err for the failure message.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "Error"
}
