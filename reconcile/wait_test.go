package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/func/beanstalk/provider"
	"github.com/func/beanstalk/provider/fake"
	"github.com/func/beanstalk/reconcile"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
)

// flaky fails DescribeEnvironments with err for the first n calls.
type flaky struct {
	provider.Client
	n   int
	err error
}

func (f *flaky) DescribeEnvironments(ctx context.Context, app string, names ...string) ([]provider.Environment, error) {
	if f.n > 0 {
		f.n--
		return nil, f.err
	}
	return f.Client.DescribeEnvironments(ctx, app, names...)
}

func TestWaiter_Wait(t *testing.T) {
	throttled := &provider.Error{Kind: provider.KindThrottling, Op: "DescribeEnvironments", Code: "Throttling"}
	denied := &provider.Error{Kind: provider.KindAuth, Op: "DescribeEnvironments", Code: "AccessDenied"}

	tests := []struct {
		name        string
		transitions int
		failures    int
		err         error
		target      reconcile.Target
		wantErr     func(error) bool
	}{
		{
			name:   "ReadyImmediately",
			target: reconcile.Target{Status: provider.StatusReady},
		},
		{
			name:        "ReadyAfterTransitions",
			transitions: 3,
			target:      reconcile.Target{Status: provider.StatusReady, VersionLabel: "v1"},
		},
		{
			name:     "RetryThrottling",
			failures: 2,
			err:      throttled,
			target:   reconcile.Target{Status: provider.StatusReady},
		},
		{
			name:     "AbortOnOtherErrors",
			failures: 1,
			err:      denied,
			target:   reconcile.Target{Status: provider.StatusReady},
			wantErr: func(err error) bool {
				return errors.Cause(err) == denied
			},
		},
		{
			name:        "Timeout",
			transitions: -1,
			target:      reconcile.Target{Status: provider.StatusReady},
			wantErr: func(err error) bool {
				_, ok := err.(*reconcile.TimeoutError)
				return ok
			},
		},
		{
			name:   "WrongVersion",
			target: reconcile.Target{Status: provider.StatusReady, VersionLabel: "v2"},
			wantErr: func(err error) bool {
				_, ok := err.(*reconcile.TimeoutError)
				return ok
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fake.Provider{Transitions: tt.transitions}
			p.SeedApplication(provider.Application{Name: "app"})
			p.SeedVersion(provider.ApplicationVersion{ApplicationName: "app", VersionLabel: "v1"})
			err := p.CreateEnvironment(context.Background(), provider.CreateEnvironmentInput{
				ApplicationName: "app",
				EnvironmentName: "app-env",
				VersionLabel:    "v1",
			})
			if err != nil {
				t.Fatalf("CreateEnvironment() error = %v", err)
			}

			w := &reconcile.Waiter{
				Client:   &flaky{Client: p, n: tt.failures, err: tt.err},
				Interval: time.Millisecond,
				Logger:   zaptest.NewLogger(t),
			}
			env, err := w.Wait(context.Background(), "app", "app-env", tt.target, 200*time.Millisecond)
			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("Wait() error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
			if env == nil || env.Status != provider.StatusReady {
				t.Errorf("Wait() env = %+v, want Ready", env)
			}
		})
	}
}

func TestWaiter_Wait_terminated(t *testing.T) {
	p := &fake.Provider{Transitions: 1}
	p.SeedEnvironment(provider.Environment{Name: "app-env", ApplicationName: "app", Status: provider.StatusReady})
	if err := p.TerminateEnvironment(context.Background(), "app-env"); err != nil {
		t.Fatalf("TerminateEnvironment() error = %v", err)
	}

	w := &reconcile.Waiter{Client: p, Interval: time.Millisecond}
	env, err := w.Wait(context.Background(), "app", "app-env", reconcile.Target{Status: provider.StatusTerminated}, time.Second)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if env == nil || env.Status != provider.StatusTerminated {
		t.Errorf("Wait() env = %+v, want Terminated", env)
	}
}

func TestWaiter_Wait_canceled(t *testing.T) {
	p := &fake.Provider{Transitions: -1}
	p.SeedApplication(provider.Application{Name: "app"})
	if err := p.CreateEnvironment(context.Background(), provider.CreateEnvironmentInput{ApplicationName: "app", EnvironmentName: "app-env"}); err != nil {
		t.Fatalf("CreateEnvironment() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	w := &reconcile.Waiter{Client: p, Interval: time.Millisecond}
	_, err := w.Wait(ctx, "app", "app-env", reconcile.Target{Status: provider.StatusReady}, time.Minute)
	if err != context.Canceled {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}
