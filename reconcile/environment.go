package reconcile

import (
	"context"
	"strings"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EnvironmentResult is the result of reconciling an environment.
type EnvironmentResult struct {
	Changed  bool                            `json:"changed"`
	Env      *provider.Environment           `json:"env,omitempty"`
	EnvList  []provider.Environment          `json:"env_list,omitempty"`
	Settings *provider.ConfigurationSettings `json:"settings,omitempty"`
	Updates  []Update                        `json:"updates,omitempty"`
	Output   string                          `json:"output,omitempty"`
}

// Environment reconciles an environment.
//
// Environments are matched by name, ignoring case. Terminated and terminating
// environments are treated as if they do not exist.
func (r *Reconciler) Environment(ctx context.Context, cfg config.Environment) (*EnvironmentResult, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger().With(
		zap.String("app", cfg.ApplicationName),
		zap.String("env", cfg.Name),
		zap.String("state", string(cfg.State)),
	)
	logger.Debug("Reconcile environment")

	switch cfg.State {
	case config.StateList:
		envs, err := r.liveEnvironments(ctx, cfg.ApplicationName)
		if err != nil {
			return nil, err
		}
		var out []provider.Environment
		for _, e := range envs {
			if cfg.Name == "" || strings.EqualFold(e.Name, cfg.Name) {
				out = append(out, e)
			}
		}
		return &EnvironmentResult{EnvList: out}, nil
	case config.StateDetails:
		env, err := r.describeEnvironment(ctx, cfg.ApplicationName, cfg.Name)
		if err != nil {
			return nil, err
		}
		if env == nil {
			return &EnvironmentResult{Output: "Environment not found"}, nil
		}
		settings, err := r.environmentSettings(ctx, cfg.ApplicationName, env.Name)
		if err != nil {
			return nil, err
		}
		return &EnvironmentResult{Env: env, Settings: settings}, nil
	}

	env, err := r.describeEnvironment(ctx, cfg.ApplicationName, cfg.Name)
	if err != nil {
		return nil, err
	}

	if cfg.State == config.StateAbsent {
		if env == nil {
			return &EnvironmentResult{Output: "Environment not found"}, nil
		}
		return r.terminateEnvironment(ctx, cfg, env, logger)
	}

	if env == nil {
		return r.createEnvironment(ctx, cfg, logger)
	}
	return r.updateEnvironment(ctx, cfg, env, logger)
}

func (r *Reconciler) terminateEnvironment(ctx context.Context, cfg config.Environment, env *provider.Environment, logger *zap.Logger) (*EnvironmentResult, error) {
	if r.Check {
		return &EnvironmentResult{Changed: true, Env: env, Output: "Environment would be terminated"}, nil
	}
	logger.Info("Terminate environment")
	if err := r.Client.TerminateEnvironment(ctx, env.Name); err != nil {
		if provider.IsNotFound(err) {
			return &EnvironmentResult{Output: "Environment not found"}, nil
		}
		return nil, errors.Wrapf(err, "terminate environment %q", env.Name)
	}
	if !cfg.ShouldWait() {
		return &EnvironmentResult{Changed: true, Env: env, Output: "Environment terminating"}, nil
	}
	target := Target{Status: provider.StatusTerminated}
	last, err := r.waiter(logger).Wait(ctx, cfg.ApplicationName, env.Name, target, cfg.Timeout())
	if err != nil {
		return nil, err
	}
	if last != nil {
		env = last
	}
	return &EnvironmentResult{Changed: true, Env: env, Output: "Environment terminated"}, nil
}

func (r *Reconciler) createEnvironment(ctx context.Context, cfg config.Environment, logger *zap.Logger) (*EnvironmentResult, error) {
	if r.Check {
		return &EnvironmentResult{Changed: true, Output: "Environment would be created"}, nil
	}
	logger.Info("Create environment", zap.String("version", cfg.VersionLabel))
	err := r.Client.CreateEnvironment(ctx, provider.CreateEnvironmentInput{
		ApplicationName:   cfg.ApplicationName,
		EnvironmentName:   cfg.Name,
		Description:       cfg.Description,
		VersionLabel:      cfg.VersionLabel,
		TemplateName:      cfg.TemplateName,
		SolutionStackName: cfg.SolutionStackName,
		CNAMEPrefix:       cfg.CNAMEPrefix,
		Tier:              cfg.Tier,
		OptionSettings:    UniqueOptions(cfg.OptionSettings),
	})
	if err != nil {
		if provider.KindOf(err) == provider.KindValidation && strings.Contains(errors.Cause(err).Error(), "already exists") {
			return nil, errors.Errorf("environment %q already exists in another application", cfg.Name)
		}
		return nil, errors.Wrapf(err, "create environment %q", cfg.Name)
	}

	var env *provider.Environment
	if cfg.ShouldWait() {
		target := Target{Status: provider.StatusReady, VersionLabel: cfg.VersionLabel}
		env, err = r.waiter(logger).Wait(ctx, cfg.ApplicationName, cfg.Name, target, cfg.Timeout())
	} else {
		env, err = r.describeEnvironment(ctx, cfg.ApplicationName, cfg.Name)
	}
	if err != nil {
		return nil, err
	}
	return &EnvironmentResult{Changed: true, Env: env, Output: "Environment created"}, nil
}

func (r *Reconciler) updateEnvironment(ctx context.Context, cfg config.Environment, env *provider.Environment, logger *zap.Logger) (*EnvironmentResult, error) {
	updates, options, err := r.diffEnvironment(ctx, cfg, env)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return &EnvironmentResult{Env: env, Output: "Environment is up-to-date"}, nil
	}
	if r.Check {
		return &EnvironmentResult{Changed: true, Env: env, Updates: updates, Output: "Environment would be updated"}, nil
	}

	in := provider.UpdateEnvironmentInput{
		ApplicationName: cfg.ApplicationName,
		EnvironmentName: env.Name,
		OptionSettings:  options,
	}
	for _, u := range updates {
		switch u.Field {
		case "VersionLabel":
			in.VersionLabel = u.New
		case "TemplateName":
			in.TemplateName = u.New
		}
	}
	if cfg.Description != env.Description {
		in.Description = cfg.Description
	}

	logger.Info("Update environment", zap.Int("updates", len(updates)))
	if err := r.Client.UpdateEnvironment(ctx, in); err != nil {
		return nil, errors.Wrapf(err, "update environment %q", env.Name)
	}

	if !cfg.ShouldWait() {
		return &EnvironmentResult{Changed: true, Env: env, Updates: updates, Output: "Environment updating"}, nil
	}

	target := Target{Status: provider.StatusReady, VersionLabel: cfg.VersionLabel}
	if _, err := r.waiter(logger).Wait(ctx, cfg.ApplicationName, env.Name, target, cfg.Timeout()); err != nil {
		return nil, err
	}

	after, err := r.describeEnvironment(ctx, cfg.ApplicationName, env.Name)
	if err != nil {
		return nil, err
	}
	if after == nil {
		return nil, provider.NotFound("DescribeEnvironments", "environment %q disappeared after update", env.Name)
	}
	remaining, _, err := r.diffEnvironment(ctx, cfg, after)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, &UpdateNotAppliedError{Environment: env.Name, Updates: remaining}
	}
	return &EnvironmentResult{Changed: true, Env: after, Updates: updates, Output: "Environment updated"}, nil
}

// diffEnvironment compares the desired state to an existing environment. The
// option settings that differ are returned with the updates.
func (r *Reconciler) diffEnvironment(ctx context.Context, cfg config.Environment, env *provider.Environment) ([]Update, []provider.OptionSetting, error) {
	var updates []Update
	if cfg.VersionLabel != "" && env.VersionLabel != cfg.VersionLabel {
		updates = append(updates, Update{Field: "VersionLabel", Old: env.VersionLabel, New: cfg.VersionLabel})
	}
	if cfg.TemplateName != "" && env.TemplateName != cfg.TemplateName {
		updates = append(updates, Update{Field: "TemplateName", Old: env.TemplateName, New: cfg.TemplateName})
	}
	if len(cfg.OptionSettings) == 0 {
		return updates, nil, nil
	}
	settings, err := r.environmentSettings(ctx, cfg.ApplicationName, env.Name)
	if err != nil {
		return nil, nil, err
	}
	optUpdates, options := DiffOptions(settings.OptionSettings, cfg.OptionSettings)
	return append(updates, optUpdates...), options, nil
}

// describeEnvironment returns the live environment with the given name, or
// nil if no live environment exists.
func (r *Reconciler) describeEnvironment(ctx context.Context, app, name string) (*provider.Environment, error) {
	envs, err := r.Client.DescribeEnvironments(ctx, app)
	if err != nil {
		return nil, errors.Wrapf(err, "describe environment %q", name)
	}
	live, _ := lookupEnvironment(envs, name)
	return live, nil
}

func (r *Reconciler) liveEnvironments(ctx context.Context, app string) ([]provider.Environment, error) {
	envs, err := r.Client.DescribeEnvironments(ctx, app)
	if err != nil {
		return nil, errors.Wrapf(err, "list environments of %q", app)
	}
	var out []provider.Environment
	for _, e := range envs {
		if !e.Terminated() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Reconciler) environmentSettings(ctx context.Context, app, env string) (*provider.ConfigurationSettings, error) {
	settings, err := r.Client.DescribeConfigurationSettings(ctx, app, env, "")
	if err != nil {
		return nil, errors.Wrapf(err, "describe configuration of %q", env)
	}
	if len(settings) == 0 {
		return nil, provider.NotFound("DescribeConfigurationSettings", "no configuration found for environment %q", env)
	}
	return &settings[0], nil
}
