package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultPollInterval is the default interval between environment status
// checks.
const DefaultPollInterval = 15 * time.Second

// A Target is the state an environment is waited on to reach.
type Target struct {
	Status       string // provider.StatusReady or provider.StatusTerminated.
	VersionLabel string // If set, the version must be deployed.
}

func (t Target) String() string {
	if t.VersionLabel == "" {
		return t.Status
	}
	return fmt.Sprintf("%s with version %q", t.Status, t.VersionLabel)
}

// reached reports whether the target has been reached. Live is the live
// environment, if any. Gone is a terminating or terminated environment with
// the same name, if any.
func (t Target) reached(live, gone *provider.Environment) bool {
	if t.Status == provider.StatusTerminated {
		return live == nil && (gone == nil || gone.Status == provider.StatusTerminated)
	}
	if live == nil || live.Status != t.Status {
		return false
	}
	return t.VersionLabel == "" || live.VersionLabel == t.VersionLabel
}

// A Waiter polls an environment until it reaches a target status.
type Waiter struct {
	Client provider.Beanstalk

	// Interval between polls. If not set, DefaultPollInterval is used.
	Interval time.Duration

	// Logger logs status changes. If not set, logs are discarded.
	Logger *zap.Logger
}

type pendingError struct {
	status string
}

func (e *pendingError) Error() string { return "status " + e.status }

// Wait polls the named environment until it reaches the target. Throttling
// and transient provider errors are retried, other errors abort the wait.
//
// If the target is not reached within timeout, a *TimeoutError is returned.
//
// The last observed environment is returned. When waiting for termination,
// the terminated environment is returned if the provider still lists it.
func (w *Waiter) Wait(ctx context.Context, app, name string, target Target, timeout time.Duration) (*provider.Environment, error) {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("env", name), zap.Stringer("target", target))

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	retries := uint64(timeout/interval) + 1
	algo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), retries),
		waitCtx,
	)

	var (
		last   *provider.Environment
		status string
	)
	op := func() error {
		envs, err := w.Client.DescribeEnvironments(waitCtx, app)
		if err != nil {
			if provider.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(errors.Wrap(err, "describe environments"))
		}
		live, gone := lookupEnvironment(envs, name)
		if live != nil {
			last = live
		} else if gone != nil {
			last = gone
		}
		current := provider.StatusTerminated
		switch {
		case live != nil:
			current = live.Status
		case gone != nil:
			current = gone.Status
		}
		if current != status {
			logger.Debug("Status", zap.String("status", current))
			status = current
		}
		if target.reached(live, gone) {
			return nil
		}
		return &pendingError{status: current}
	}
	notify := func(err error, dur time.Duration) {
		if _, ok := err.(*pendingError); ok {
			return
		}
		logger.Info("Retrying", zap.Error(err), zap.Duration("duration", dur))
	}

	err := backoff.RetryNotify(op, algo, notify)
	if err == nil {
		logger.Info("Reached target", zap.String("status", status))
		return last, nil
	}
	if ctx.Err() != nil {
		return last, ctx.Err()
	}
	if _, pending := err.(*pendingError); pending || waitCtx.Err() != nil {
		return last, &TimeoutError{
			Resource: fmt.Sprintf("environment %q", name),
			Want:     target.String(),
			Last:     status,
			Timeout:  timeout,
		}
	}
	return last, err
}

// lookupEnvironment finds the environment with the given name. Names are
// matched case-insensitively. The live environment is returned if one exists.
// Otherwise a terminating environment, or the most recently updated
// terminated environment, is returned as gone.
func lookupEnvironment(envs []provider.Environment, name string) (live, gone *provider.Environment) {
	for i := range envs {
		e := &envs[i]
		if !strings.EqualFold(e.Name, name) {
			continue
		}
		if !e.Terminated() {
			return e, nil
		}
		switch {
		case gone == nil:
			gone = e
		case gone.Status == provider.StatusTerminating:
		case e.Status == provider.StatusTerminating || e.Updated.After(gone.Updated):
			gone = e
		}
	}
	return nil, gone
}
