package reconcile

import (
	"time"

	"github.com/func/beanstalk/provider"
	"go.uber.org/zap"
)

// A Reconciler reconciles Elastic Beanstalk resources.
type Reconciler struct {
	Client provider.Client

	// Check enables check mode. Lookups and diffs are performed, but no
	// mutating call is made. Results report the change that would be made.
	Check bool

	// Logger logs reconciliation progress. If not set, logs are discarded.
	Logger *zap.Logger

	// PollInterval is the interval used when waiting for environments. If
	// not set, DefaultPollInterval is used.
	PollInterval time.Duration

	// Now returns the current time, used for version cleanup. If not set,
	// time.Now is used.
	Now func() time.Time
}

func (r *Reconciler) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reconciler) waiter(logger *zap.Logger) *Waiter {
	return &Waiter{
		Client:   r.Client,
		Interval: r.PollInterval,
		Logger:   logger,
	}
}
