package cmd

import (
	"testing"

	"github.com/func/beanstalk/config"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Generic", errors.New("boom"), exitError},
		{"Usage", usagef("bad flag"), exitConfig},
		{"Validation", &config.ValidationError{Resource: `application "x"`, Fields: []config.FieldError{{Field: "name", Reason: "required"}}}, exitConfig},
		{"WrappedValidation", errors.Wrap(&config.ValidationError{Resource: `application "x"`}, "reconcile"), exitConfig},
		{"Diagnostics", hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "x"}}, exitConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug"); err != nil {
		t.Errorf("newLogger(debug) error = %v", err)
	}
	_, err := newLogger("verbose")
	if err == nil {
		t.Fatal("Want error for unknown level")
	}
	if exitCode(err) != exitConfig {
		t.Errorf("exitCode() = %d, want %d", exitCode(err), exitConfig)
	}
}
