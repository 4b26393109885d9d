//go:build integration
// +build integration

package aws

import (
	"context"
	"os"
	"testing"

	"github.com/func/beanstalk/provider"
	"github.com/segmentio/ksuid"
)

// TestClient_applicationLifecycle runs against a real AWS account. Set
// AWS_REGION and credentials in the environment and run with
// -tags integration.
func TestClient_applicationLifecycle(t *testing.T) {
	cfg, err := Config(Options{Region: os.Getenv("AWS_REGION")})
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	cli := New(cfg)
	ctx := context.Background()

	name := "beanstalk-test-" + ksuid.New().String()
	if err := cli.CreateApplication(ctx, name, "integration test"); err != nil {
		t.Fatalf("CreateApplication() error = %v", err)
	}
	defer func() {
		if err := cli.DeleteApplication(ctx, name); err != nil {
			t.Errorf("DeleteApplication() error = %v", err)
		}
	}()

	apps, err := cli.DescribeApplications(ctx, name)
	if err != nil {
		t.Fatalf("DescribeApplications() error = %v", err)
	}
	if len(apps) != 1 || apps[0].Description != "integration test" {
		t.Fatalf("DescribeApplications() got = %+v", apps)
	}

	if err := cli.UpdateApplication(ctx, name, "updated"); err != nil {
		t.Fatalf("UpdateApplication() error = %v", err)
	}

	envs, err := cli.DescribeEnvironments(ctx, name, "missing-env")
	if err != nil {
		t.Fatalf("DescribeEnvironments() error = %v", err)
	}
	if len(envs) != 0 {
		t.Errorf("DescribeEnvironments() got %d environments, want 0", len(envs))
	}

	_, err = cli.DescribeConfigurationSettings(ctx, name, "", "missing-template")
	if !provider.IsNotFound(err) {
		t.Errorf("DescribeConfigurationSettings() missing template error = %v, want not found", err)
	}
}
