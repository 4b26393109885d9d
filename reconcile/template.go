package reconcile

import (
	"context"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TemplateResult is the result of reconciling a configuration template.
type TemplateResult struct {
	Changed   bool                             `json:"changed"`
	Template  *provider.ConfigurationSettings  `json:"template,omitempty"`
	Templates []provider.ConfigurationSettings `json:"templates,omitempty"`
	Updates   []Update                         `json:"updates,omitempty"`
	Output    string                           `json:"output,omitempty"`
}

// Template reconciles a configuration template.
//
// The solution stack of an existing template cannot be changed. A differing
// solution stack is reported as an error before any change is made.
func (r *Reconciler) Template(ctx context.Context, cfg config.Template) (*TemplateResult, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger().With(
		zap.String("app", cfg.ApplicationName),
		zap.String("template", cfg.Name),
		zap.String("state", string(cfg.State)),
	)
	logger.Debug("Reconcile template")

	if cfg.State == config.StateList {
		all, err := r.Client.DescribeConfigurationSettings(ctx, cfg.ApplicationName, "", "")
		if err != nil {
			return nil, errors.Wrapf(err, "list templates of %q", cfg.ApplicationName)
		}
		var out []provider.ConfigurationSettings
		for _, t := range all {
			if cfg.Name == "" || t.TemplateName == cfg.Name {
				out = append(out, t)
			}
		}
		return &TemplateResult{Templates: out}, nil
	}

	tmpl, err := r.describeTemplate(ctx, cfg.ApplicationName, cfg.Name)
	if err != nil {
		return nil, err
	}

	switch cfg.State {
	case config.StateDetails:
		if tmpl == nil {
			return &TemplateResult{Output: "Template not found"}, nil
		}
		return &TemplateResult{Template: tmpl}, nil
	case config.StateAbsent:
		if tmpl == nil {
			return &TemplateResult{Output: "Template not found"}, nil
		}
		if r.Check {
			return &TemplateResult{Changed: true, Template: tmpl, Output: "Template would be deleted"}, nil
		}
		logger.Info("Delete template")
		if err := r.Client.DeleteConfigurationTemplate(ctx, cfg.ApplicationName, cfg.Name); err != nil {
			if provider.IsNotFound(err) {
				return &TemplateResult{Output: "Template not found"}, nil
			}
			return nil, errors.Wrapf(err, "delete template %q", cfg.Name)
		}
		return &TemplateResult{Changed: true, Template: tmpl, Output: "Template deleted"}, nil
	}

	in := provider.TemplateInput{
		ApplicationName:   cfg.ApplicationName,
		TemplateName:      cfg.Name,
		Description:       cfg.Description,
		SolutionStackName: cfg.SolutionStackName,
		OptionSettings:    UniqueOptions(cfg.OptionSettings),
		Tags:              cfg.Tags,
	}

	if tmpl == nil {
		if r.Check {
			return &TemplateResult{Changed: true, Output: "Template would be created"}, nil
		}
		logger.Info("Create template")
		if err := r.Client.CreateConfigurationTemplate(ctx, in); err != nil {
			return nil, errors.Wrapf(err, "create template %q", cfg.Name)
		}
		tmpl, err = r.describeTemplate(ctx, cfg.ApplicationName, cfg.Name)
		if err != nil {
			return nil, err
		}
		return &TemplateResult{Changed: true, Template: tmpl, Output: "Template created"}, nil
	}

	var updates []Update
	if cfg.SolutionStackName != "" && tmpl.SolutionStackName != cfg.SolutionStackName {
		return nil, errors.Errorf(
			"template %q: solution stack cannot be changed from %q to %q",
			cfg.Name, tmpl.SolutionStackName, cfg.SolutionStackName,
		)
	}
	if cfg.Description != "" && tmpl.Description != cfg.Description {
		updates = append(updates, Update{Field: "Description", Old: tmpl.Description, New: cfg.Description})
	}
	optUpdates, options := DiffOptions(tmpl.OptionSettings, cfg.OptionSettings)
	updates = append(updates, optUpdates...)

	if len(updates) == 0 {
		return &TemplateResult{Template: tmpl, Output: "Template is up-to-date"}, nil
	}
	if r.Check {
		return &TemplateResult{Changed: true, Template: tmpl, Updates: updates, Output: "Template would be updated"}, nil
	}

	in.SolutionStackName = ""
	in.Tags = nil
	in.OptionSettings = options
	logger.Info("Update template", zap.Int("updates", len(updates)))
	if err := r.Client.UpdateConfigurationTemplate(ctx, in); err != nil {
		return nil, errors.Wrapf(err, "update template %q", cfg.Name)
	}
	tmpl, err = r.describeTemplate(ctx, cfg.ApplicationName, cfg.Name)
	if err != nil {
		return nil, err
	}
	return &TemplateResult{Changed: true, Template: tmpl, Updates: updates, Output: "Template updated"}, nil
}

// describeTemplate returns the named template, or nil if it does not exist.
func (r *Reconciler) describeTemplate(ctx context.Context, app, name string) (*provider.ConfigurationSettings, error) {
	settings, err := r.Client.DescribeConfigurationSettings(ctx, app, "", name)
	if err != nil {
		if provider.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "describe template %q", name)
	}
	if len(settings) == 0 {
		return nil, nil
	}
	return &settings[0], nil
}
