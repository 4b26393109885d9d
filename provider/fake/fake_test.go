package fake_test

import (
	"context"
	"testing"

	"github.com/func/beanstalk/provider"
	"github.com/func/beanstalk/provider/fake"
	"github.com/google/go-cmp/cmp"
)

func TestProvider_environmentLifecycle(t *testing.T) {
	ctx := context.Background()
	p := &fake.Provider{Transitions: 1}
	p.SeedApplication(provider.Application{Name: "app"})

	status := func() string {
		t.Helper()
		envs, err := p.DescribeEnvironments(ctx, "app", "env")
		if err != nil {
			t.Fatalf("DescribeEnvironments() error = %v", err)
		}
		if len(envs) != 1 {
			t.Fatalf("DescribeEnvironments() got %d environments, want 1", len(envs))
		}
		return envs[0].Status
	}

	if err := p.CreateEnvironment(ctx, provider.CreateEnvironmentInput{ApplicationName: "app", EnvironmentName: "env"}); err != nil {
		t.Fatalf("CreateEnvironment() error = %v", err)
	}
	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, status())
	}
	want := []string{provider.StatusLaunching, provider.StatusReady, provider.StatusReady}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Status sequence (-got, +want)\n%s", diff)
	}

	if err := p.TerminateEnvironment(ctx, "ENV"); err != nil {
		t.Fatalf("TerminateEnvironment() error = %v", err)
	}
	got = []string{status(), status()}
	want = []string{provider.StatusTerminating, provider.StatusTerminated}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Status sequence (-got, +want)\n%s", diff)
	}

	err := p.TerminateEnvironment(ctx, "env")
	if !provider.IsNotFound(err) {
		t.Errorf("TerminateEnvironment() on terminated env error = %v, want not found", err)
	}
}

func TestProvider_updateMergesOptions(t *testing.T) {
	ctx := context.Background()
	p := &fake.Provider{}
	p.SeedEnvironment(
		provider.Environment{Name: "env", ApplicationName: "app", Status: provider.StatusReady},
		provider.OptionSetting{Namespace: "ns", OptionName: "A", Value: "1"},
		provider.OptionSetting{Namespace: "ns", OptionName: "B", Value: "2"},
	)

	err := p.UpdateEnvironment(ctx, provider.UpdateEnvironmentInput{
		EnvironmentName: "env",
		OptionSettings: []provider.OptionSetting{
			{Namespace: "ns", OptionName: "B", Value: "3"},
			{Namespace: "ns", OptionName: "C", Value: "4"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateEnvironment() error = %v", err)
	}

	ss, err := p.DescribeConfigurationSettings(ctx, "app", "env", "")
	if err != nil {
		t.Fatalf("DescribeConfigurationSettings() error = %v", err)
	}
	want := []provider.OptionSetting{
		{Namespace: "ns", OptionName: "A", Value: "1"},
		{Namespace: "ns", OptionName: "B", Value: "3"},
		{Namespace: "ns", OptionName: "C", Value: "4"},
	}
	if diff := cmp.Diff(ss[0].OptionSettings, want); diff != "" {
		t.Errorf("OptionSettings (-got, +want)\n%s", diff)
	}
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := &fake.Recorder{Client: &fake.Provider{}}

	_, _ = rec.DescribeApplications(ctx, "app")
	_ = rec.CreateApplication(ctx, "app", "desc")
	_ = rec.CreateApplication(ctx, "app", "desc")

	want := []string{
		"DescribeApplications(app)",
		"CreateApplication(app)",
		"CreateApplication(app)",
	}
	if diff := rec.Events.Diff(want); diff != "" {
		t.Errorf("Events (-got, +want)\n%s", diff)
	}
	if n := len(rec.Events.Mutations()); n != 2 {
		t.Errorf("Mutations() got %d events, want 2", n)
	}
	if rec.Events[2].Err == nil {
		t.Errorf("Second CreateApplication() did not record an error")
	}
}
