package reconcile_test

import (
	"testing"
	"time"

	"github.com/func/beanstalk/provider/fake"
	"github.com/func/beanstalk/reconcile"
	"go.uber.org/zap/zaptest"
)

// newReconciler returns a reconciler that records calls to p. Environment
// status is polled every millisecond.
func newReconciler(t *testing.T, p *fake.Provider) (*reconcile.Reconciler, *fake.Recorder) {
	t.Helper()
	rec := &fake.Recorder{Client: p}
	r := &reconcile.Reconciler{
		Client:       rec,
		Logger:       zaptest.NewLogger(t),
		PollInterval: time.Millisecond,
	}
	return r, rec
}
