package config_test

import (
	"strings"
	"testing"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
)

type validator interface {
	SetDefaults()
	Validate() error
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   validator
		wantErr []string
	}{
		{
			"AppOK",
			&config.Application{Name: "sample"},
			nil,
		},
		{
			"AppList",
			&config.Application{State: config.StateList},
			nil,
		},
		{
			"AppNoName",
			&config.Application{},
			[]string{"name: required"},
		},
		{
			"AppCleanup",
			&config.Application{Name: "sample", State: config.StateCleanup},
			[]string{"state: must be one of: [present absent list]"},
		},
		{
			"AppLongDescription",
			&config.Application{Name: "sample", Description: strings.Repeat("x", 201)},
			[]string{"description: must be at most 200 characters"},
		},
		{
			"VersionPresent",
			&config.Version{VersionLabel: "v1", ApplicationName: "sample", S3Bucket: "b", S3Key: "k"},
			nil,
		},
		{
			"VersionNoBundle",
			&config.Version{VersionLabel: "v1", ApplicationName: "sample"},
			[]string{"s3_bucket: required", "s3_key: required"},
		},
		{
			"VersionAbsent",
			&config.Version{VersionLabel: "v1", ApplicationName: "sample", State: config.StateAbsent},
			nil,
		},
		{
			"VersionNoApp",
			&config.Version{VersionLabel: "v1", State: config.StateAbsent},
			[]string{"application: required"},
		},
		{
			"CleanupNoLimits",
			&config.Version{ApplicationName: "sample", State: config.StateCleanup},
			[]string{"days_to_store"},
		},
		{
			"CleanupNegative",
			&config.Version{ApplicationName: "sample", State: config.StateCleanup, VersionsToStore: -1},
			[]string{"versions_to_store: must be at least 0"},
		},
		{
			"CleanupOK",
			&config.Version{ApplicationName: "sample", State: config.StateCleanup, DaysToStore: 30},
			nil,
		},
		{
			"EnvOK",
			&config.Environment{Name: "sample-env", ApplicationName: "sample"},
			nil,
		},
		{
			"EnvShortName",
			&config.Environment{Name: "abc", ApplicationName: "sample"},
			[]string{"name: must be 4 to 40 characters"},
		},
		{
			"EnvHyphen",
			&config.Environment{Name: "-sample", ApplicationName: "sample"},
			[]string{"name: must be 4 to 40 characters"},
		},
		{
			"EnvTier",
			&config.Environment{Name: "sample-env", ApplicationName: "sample", Tier: "Batch"},
			[]string{"tier: must be one of: [WebServer Worker]"},
		},
		{
			"EnvTemplateAndStack",
			&config.Environment{Name: "sample-env", ApplicationName: "sample", TemplateName: "t", SolutionStackName: "s"},
			[]string{"template_name: cannot be set together with solution_stack_name"},
		},
		{
			"EnvOptionMissingNamespace",
			&config.Environment{
				Name:            "sample-env",
				ApplicationName: "sample",
				OptionSettings:  []provider.OptionSetting{{OptionName: "MinSize", Value: "1"}},
			},
			[]string{"option_setting[0].namespace: required"},
		},
		{
			"EnvList",
			&config.Environment{ApplicationName: "sample", State: config.StateList},
			nil,
		},
		{
			"EnvStateTypo",
			&config.Environment{Name: "sample-env", ApplicationName: "sample", State: "detail"},
			[]string{`did you mean "details"?`},
		},
		{
			"TemplateOK",
			&config.Template{Name: "base", ApplicationName: "sample", SolutionStackName: "stack"},
			nil,
		},
		{
			"TemplateNoName",
			&config.Template{ApplicationName: "sample"},
			[]string{"name: required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.SetDefaults()
			err := tt.input.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() want error")
			}
			if _, ok := err.(*config.ValidationError); !ok {
				t.Errorf("Validate() error type = %T, want *config.ValidationError", err)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error = %q, want it to contain %q", err, want)
				}
			}
		})
	}
}

func TestEnvironment_Defaults(t *testing.T) {
	e := &config.Environment{Name: "sample-env", ApplicationName: "sample"}
	e.SetDefaults()
	if e.Tier != "WebServer" {
		t.Errorf("Tier = %q, want WebServer", e.Tier)
	}
	if !e.ShouldWait() {
		t.Errorf("ShouldWait() = false, want true")
	}
	if e.Timeout() != config.DefaultWaitTimeout {
		t.Errorf("Timeout() = %v, want %v", e.Timeout(), config.DefaultWaitTimeout)
	}

	noWait := false
	e = &config.Environment{Wait: &noWait, WaitTimeout: 10}
	e.SetDefaults()
	if e.ShouldWait() {
		t.Errorf("ShouldWait() = true, want false")
	}
	if got := e.Timeout().Seconds(); got != 10 {
		t.Errorf("Timeout() = %vs, want 10s", got)
	}
}
