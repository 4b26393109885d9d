package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// A TimeoutError is returned when a resource does not reach the desired
// status before the wait timeout. The change that was waited on may still
// have been accepted by the provider.
type TimeoutError struct {
	Resource string        // Resource description, such as: environment "foo".
	Want     string        // Desired status.
	Last     string        // Last observed status, empty if not observed.
	Timeout  time.Duration // Time waited.
}

func (e *TimeoutError) Error() string {
	last := e.Last
	if last == "" {
		last = "unknown"
	}
	return fmt.Sprintf("timed out after %s waiting for %s to be %s, last status: %s", e.Timeout, e.Resource, e.Want, last)
}

// An UpdateNotAppliedError is returned when an environment update was
// accepted, but the environment still differs from the desired state once it
// settled.
type UpdateNotAppliedError struct {
	Environment string
	Updates     []Update
}

func (e *UpdateNotAppliedError) Error() string {
	fields := make([]string, len(e.Updates))
	for i, u := range e.Updates {
		fields[i] = fmt.Sprintf("%s (%q, want %q)", u.Field, u.Old, u.New)
	}
	return fmt.Sprintf("update not applied to environment %q: %s", e.Environment, strings.Join(fields, ", "))
}
