package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMode is matched by every *UnsupportedModeError.
	ErrUnsupportedMode = errors.New("unsupported mode")

	// ErrInvalidSpec marks a structurally malformed ClusterSpec.
	ErrInvalidSpec = errors.New("invalid cluster spec")
)

// UnsupportedModeError is returned when a spec requests a mode the planner
// cannot build. Reason is the user-facing message.
type UnsupportedModeError struct {
	Mode   Mode
	Reason string
}

func (e *UnsupportedModeError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrUnsupportedMode) hold.
func (e *UnsupportedModeError) Is(target error) bool {
	return target == ErrUnsupportedMode
}

func invalidSpec(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}
