package reconcile_test

import (
	"context"
	"testing"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
	"github.com/func/beanstalk/provider/fake"
	"github.com/func/beanstalk/reconcile"
	"github.com/google/go-cmp/cmp"
)

func TestReconciler_Template(t *testing.T) {
	base := provider.ConfigurationSettings{
		ApplicationName:   "Sample App",
		TemplateName:      "base",
		SolutionStackName: sampleStack,
		Description:       "Base template",
		OptionSettings:    []provider.OptionSetting{opt("aws:autoscaling:asg", "MaxSize", "4")},
	}
	tests := []struct {
		name          string
		existing      *provider.ConfigurationSettings
		cfg           config.Template
		wantChanged   bool
		wantUpdates   []reconcile.Update
		wantMutations []string
	}{
		{
			name: "Create",
			cfg: config.Template{
				SolutionStackName: sampleStack,
				OptionSettings:    []provider.OptionSetting{opt("aws:autoscaling:asg", "MaxSize", "4")},
				Tags:              map[string]string{"team": "web"},
			},
			wantChanged:   true,
			wantMutations: []string{"CreateConfigurationTemplate(Sample App/base)"},
		},
		{
			name:     "UpToDate",
			existing: &base,
			cfg: config.Template{
				SolutionStackName: sampleStack,
				OptionSettings:    []provider.OptionSetting{opt("aws:autoscaling:asg", "MaxSize", "4")},
			},
		},
		{
			name:     "Update",
			existing: &base,
			cfg: config.Template{
				Description:    "Bigger",
				OptionSettings: []provider.OptionSetting{opt("aws:autoscaling:asg", "MaxSize", "8")},
			},
			wantChanged: true,
			wantUpdates: []reconcile.Update{
				{Field: "Description", Old: "Base template", New: "Bigger"},
				{Field: "aws:autoscaling:asg:MaxSize", Old: "4", New: "8"},
			},
			wantMutations: []string{"UpdateConfigurationTemplate(Sample App/base)"},
		},
		{
			name:          "Delete",
			existing:      &base,
			cfg:           config.Template{State: config.StateAbsent},
			wantChanged:   true,
			wantMutations: []string{"DeleteConfigurationTemplate(Sample App/base)"},
		},
		{
			name: "DeleteMissing",
			cfg:  config.Template{State: config.StateAbsent},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fake.Provider{}
			p.SeedApplication(provider.Application{Name: "Sample App"})
			if tt.existing != nil {
				p.SeedTemplate(*tt.existing)
			}
			r, rec := newReconciler(t, p)

			cfg := tt.cfg
			cfg.ApplicationName = "Sample App"
			cfg.Name = "base"
			res, err := r.Template(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Template() error = %v", err)
			}
			if res.Changed != tt.wantChanged {
				t.Errorf("Changed = %t, want = %t", res.Changed, tt.wantChanged)
			}
			if diff := cmp.Diff(res.Updates, tt.wantUpdates); diff != "" {
				t.Errorf("Updates (-got, +want)\n%s", diff)
			}
			if diff := rec.Events.Mutations().Diff(tt.wantMutations); diff != "" {
				t.Errorf("Mutations (-got, +want)\n%s", diff)
			}

			rec.Reset()
			res, err = r.Template(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Template() second call error = %v", err)
			}
			if res.Changed {
				t.Errorf("Second call changed = true, updates = %v", res.Updates)
			}
		})
	}
}

func TestReconciler_Template_stackChange(t *testing.T) {
	p := &fake.Provider{}
	p.SeedApplication(provider.Application{Name: "Sample App"})
	p.SeedTemplate(provider.ConfigurationSettings{ApplicationName: "Sample App", TemplateName: "base", SolutionStackName: "old"})
	r, rec := newReconciler(t, p)

	_, err := r.Template(context.Background(), config.Template{
		ApplicationName:   "Sample App",
		Name:              "base",
		SolutionStackName: "new",
	})
	if err == nil {
		t.Fatal("Template() want error when changing solution stack")
	}
	if muts := rec.Events.Mutations(); len(muts) > 0 {
		t.Errorf("Mutations: %s", muts)
	}
}

func TestReconciler_Template_list(t *testing.T) {
	p := &fake.Provider{}
	p.SeedApplication(provider.Application{Name: "Sample App"})
	p.SeedTemplate(provider.ConfigurationSettings{ApplicationName: "Sample App", TemplateName: "a"})
	p.SeedTemplate(provider.ConfigurationSettings{ApplicationName: "Sample App", TemplateName: "b"})
	r, _ := newReconciler(t, p)

	res, err := r.Template(context.Background(), config.Template{ApplicationName: "Sample App", State: config.StateList})
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	var names []string
	for _, tmpl := range res.Templates {
		names = append(names, tmpl.TemplateName)
	}
	if diff := cmp.Diff(names, []string{"a", "b"}); diff != "" {
		t.Errorf("Templates (-got, +want)\n%s", diff)
	}
}
