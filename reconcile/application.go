package reconcile

import (
	"context"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ApplicationResult is the result of reconciling an application.
type ApplicationResult struct {
	Changed bool                   `json:"changed"`
	App     *provider.Application  `json:"app,omitempty"`
	Apps    []provider.Application `json:"apps,omitempty"`
	Output  string                 `json:"output,omitempty"`
}

// Application reconciles an application.
func (r *Reconciler) Application(ctx context.Context, cfg config.Application) (*ApplicationResult, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger().With(zap.String("app", cfg.Name), zap.String("state", string(cfg.State)))
	logger.Debug("Reconcile application")

	if cfg.State == config.StateList {
		var names []string
		if cfg.Name != "" {
			names = append(names, cfg.Name)
		}
		apps, err := r.Client.DescribeApplications(ctx, names...)
		if err != nil {
			return nil, errors.Wrap(err, "list applications")
		}
		return &ApplicationResult{Apps: apps}, nil
	}

	app, err := r.describeApplication(ctx, cfg.Name)
	if err != nil {
		return nil, err
	}

	if cfg.State == config.StateAbsent {
		if app == nil {
			return &ApplicationResult{Output: "Application not found"}, nil
		}
		if r.Check {
			return &ApplicationResult{Changed: true, App: app, Output: "Application would be deleted"}, nil
		}
		logger.Info("Delete application")
		if err := r.Client.DeleteApplication(ctx, cfg.Name); err != nil {
			if provider.IsNotFound(err) {
				return &ApplicationResult{Output: "Application not found"}, nil
			}
			return nil, errors.Wrapf(err, "delete application %q", cfg.Name)
		}
		return &ApplicationResult{Changed: true, App: app, Output: "Application deleted"}, nil
	}

	if app == nil {
		if r.Check {
			return &ApplicationResult{Changed: true, Output: "Application would be created"}, nil
		}
		logger.Info("Create application")
		if err := r.Client.CreateApplication(ctx, cfg.Name, cfg.Description); err != nil {
			return nil, errors.Wrapf(err, "create application %q", cfg.Name)
		}
		app, err = r.describeApplication(ctx, cfg.Name)
		if err != nil {
			return nil, err
		}
		return &ApplicationResult{Changed: true, App: app, Output: "Application created"}, nil
	}

	if app.Description == cfg.Description {
		return &ApplicationResult{App: app, Output: "Application is up-to-date"}, nil
	}
	if r.Check {
		return &ApplicationResult{Changed: true, App: app, Output: "Application would be updated"}, nil
	}
	logger.Info("Update application", zap.String("description", cfg.Description))
	if err := r.Client.UpdateApplication(ctx, cfg.Name, cfg.Description); err != nil {
		return nil, errors.Wrapf(err, "update application %q", cfg.Name)
	}
	app, err = r.describeApplication(ctx, cfg.Name)
	if err != nil {
		return nil, err
	}
	return &ApplicationResult{Changed: true, App: app, Output: "Application updated"}, nil
}

// describeApplication returns the named application, or nil if it does not
// exist.
func (r *Reconciler) describeApplication(ctx context.Context, name string) (*provider.Application, error) {
	apps, err := r.Client.DescribeApplications(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "describe application %q", name)
	}
	for i := range apps {
		if apps[i].Name == name {
			return &apps[i], nil
		}
	}
	return nil, nil
}
