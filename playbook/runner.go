package playbook

import (
	"context"
	"time"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/func/beanstalk/provider"
	"github.com/func/beanstalk/reconcile"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A ClientFactory returns a provider client for a region. An empty region
// means the default region.
type ClientFactory func(ctx context.Context, region string) (provider.Client, error)

// A Journal records step outcomes.
type Journal interface {
	Append(ctx context.Context, e *journal.Entry) error
}

// A Runner runs playbooks.
type Runner struct {
	Clients ClientFactory

	// Check enables check mode for every step.
	Check bool

	// Logger logs progress. If not set, logs are discarded.
	Logger *zap.Logger

	// Journal, if set, receives an entry for every step that ran.
	Journal Journal

	// PollInterval is passed to the reconcilers. If not set, the reconciler
	// default is used.
	PollInterval time.Duration
}

// A Result is the outcome of a single step.
type Result struct {
	Kind        string       `json:"kind"`
	Name        string       `json:"name"`
	Application string       `json:"app"`
	Region      string       `json:"region,omitempty"`
	State       config.State `json:"state"`
	Changed     bool         `json:"changed"`
	Output      string       `json:"output,omitempty"`
	Detail      interface{}  `json:"result,omitempty"`
}

// Run plans and runs the playbook. Results are returned for every step that
// completed; if a step fails, the results so far are returned together with
// the error.
func (r *Runner) Run(ctx context.Context, pb *config.Playbook) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	steps, err := Plan(pb)
	if err != nil {
		return nil, err
	}

	runID := journal.NewRunID()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("Run playbook", zap.Int("steps", len(steps)), zap.Bool("check", r.Check))

	clients := make(map[string]provider.Client)
	var results []Result
	for _, s := range steps {
		client, ok := clients[s.Region]
		if !ok {
			client, err = r.Clients(ctx, s.Region)
			if err != nil {
				return results, errors.Wrapf(err, "create client for region %q", s.Region)
			}
			clients[s.Region] = client
		}

		rec := &reconcile.Reconciler{
			Client:       client,
			Check:        r.Check,
			Logger:       logger,
			PollInterval: r.PollInterval,
		}
		res, err := r.runStep(ctx, rec, s)
		if jerr := r.record(ctx, runID, s, res, err); jerr != nil {
			logger.Warn("Could not write journal", zap.Error(jerr))
		}
		if err != nil {
			return results, errors.Wrap(err, s.String())
		}
		results = append(results, *res)
	}

	changed := 0
	for _, res := range results {
		if res.Changed {
			changed++
		}
	}
	logger.Info("Done", zap.Int("steps", len(results)), zap.Int("changed", changed))
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, rec *reconcile.Reconciler, s *Step) (*Result, error) {
	out := &Result{
		Kind:        s.Kind,
		Name:        s.Name,
		Application: s.Application,
		Region:      s.Region,
		State:       s.State,
	}
	switch cfg := s.Config.(type) {
	case config.Application:
		res, err := rec.Application(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.Changed, out.Output, out.Detail = res.Changed, res.Output, res
	case config.Version:
		res, err := rec.Version(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.Changed, out.Output, out.Detail = res.Changed, res.Output, res
	case config.Template:
		res, err := rec.Template(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.Changed, out.Output, out.Detail = res.Changed, res.Output, res
	case config.Environment:
		res, err := rec.Environment(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.Changed, out.Output, out.Detail = res.Changed, res.Output, res
	default:
		return nil, errors.Errorf("unsupported block %T", s.Config)
	}
	return out, nil
}

func (r *Runner) record(ctx context.Context, runID string, s *Step, res *Result, err error) error {
	if r.Journal == nil {
		return nil
	}
	e := &journal.Entry{
		RunID:       runID,
		Kind:        s.Kind,
		Name:        s.Name,
		Application: s.Application,
		Region:      s.Region,
		State:       string(s.State),
		Check:       r.Check,
	}
	if res != nil {
		e.Changed = res.Changed
		e.Output = res.Output
	}
	if err != nil {
		e.Error = err.Error()
	}
	return r.Journal.Append(ctx, e)
}
