package provider_test

import (
	"fmt"
	"testing"

	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	notFound := provider.NotFound("DescribeApplications", "No Application named %q found.", "foo")
	throttled := &provider.Error{Kind: provider.KindThrottling, Op: "DescribeEnvironments", Code: "Throttling", Message: "Rate exceeded"}

	tests := []struct {
		name      string
		err       error
		want      provider.Kind
		retryable bool
	}{
		{"Nil", nil, provider.KindUnknown, false},
		{"Plain", fmt.Errorf("boom"), provider.KindUnknown, false},
		{"Direct", notFound, provider.KindNotFound, false},
		{"Wrapped", errors.Wrap(notFound, "describe"), provider.KindNotFound, false},
		{"WrappedTwice", errors.Wrap(errors.Wrap(throttled, "poll"), "wait"), provider.KindThrottling, true},
		{"Transient", &provider.Error{Kind: provider.KindTransient}, provider.KindTransient, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := provider.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() got = %v, want = %v", got, tt.want)
			}
			if got := provider.IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() got = %t, want = %t", got, tt.retryable)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := &provider.Error{Op: "CreateApplication", Code: "InvalidParameterValue", Message: "Application Sample App already exists."}
	want := "CreateApplication: InvalidParameterValue: Application Sample App already exists."
	if got := err.Error(); got != want {
		t.Errorf("Error() got = %q, want = %q", got, want)
	}

	err = &provider.Error{Op: "DeleteBundle", Message: "access denied"}
	want = "DeleteBundle: access denied"
	if got := err.Error(); got != want {
		t.Errorf("Error() got = %q, want = %q", got, want)
	}
}
