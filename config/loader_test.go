package config_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
	"github.com/google/go-cmp/cmp"
)

func TestLoader_Load(t *testing.T) {
	l := &config.Loader{}
	got, diags := l.Load("testdata/sample")
	if diags.HasErrors() {
		t.Fatalf("Load() diagnostics: %v", diags)
	}

	wait := true
	want := &config.Playbook{
		Region: "eu-west-1",
		Applications: []config.Application{
			{Name: "sample", Region: "eu-west-1", Description: "Sample application", State: config.StatePresent},
		},
		Versions: []config.Version{
			{
				VersionLabel:    "v1",
				ApplicationName: "sample",
				Region:          "eu-west-1",
				S3Bucket:        "sample-bundles",
				S3Key:           "sample/v1.zip",
				State:           config.StatePresent,
			},
		},
		Environments: []config.Environment{
			{
				Name:              "sample-web",
				ApplicationName:   "sample",
				Region:            "us-east-1",
				VersionLabel:      "v1",
				SolutionStackName: "64bit Amazon Linux 2 v3.1.0 running Go 1",
				Tier:              "WebServer",
				OptionSettings: []provider.OptionSetting{
					{Namespace: "aws:autoscaling:asg", OptionName: "MinSize", Value: "1"},
					{Namespace: "aws:autoscaling:asg", OptionName: "MaxSize", Value: "2"},
				},
				State:       config.StatePresent,
				Wait:        &wait,
				WaitTimeout: 60,
			},
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Load() (-got, +want)\n%s", diff)
	}

	files := l.Files()
	wantFiles := []string{"testdata/sample/app.hcl", "testdata/sample/envs/web.hcl"}
	if diff := cmp.Diff(files, wantFiles); diff != "" {
		t.Errorf("Files() (-got, +want)\n%s", diff)
	}
}

func TestLoader_Load_errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		contains []string
	}{
		{"NotFound", "testdata/nonexisting", []string{"no such file"}},
		{"Empty", "testdata/empty", []string{"No playbook found"}},
		{"Syntax", "testdata/syntax", []string{"testdata/syntax/syntax.hcl"}},
		{
			"Invalid",
			"testdata/invalid",
			[]string{
				`did you mean "present"?`,
				"s3_bucket: required",
				"environment \"x\": name: ",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &config.Loader{}
			pb, diags := l.Load(tt.path)
			if !diags.HasErrors() {
				t.Fatalf("Load() want error, got none")
			}
			if pb != nil {
				t.Errorf("Load() returned playbook with errors")
			}
			var lines []string
			for _, d := range diags {
				lines = append(lines, d.Summary, d.Detail)
				if d.Subject != nil {
					lines = append(lines, d.Subject.Filename)
				}
			}
			out := strings.Join(lines, "\n")
			for _, c := range tt.contains {
				if !strings.Contains(out, c) {
					t.Errorf("Diagnostics do not contain %q\n%s", c, out)
				}
			}
		})
	}
}

func TestPlaybook_Validate_duplicate(t *testing.T) {
	pb := &config.Playbook{
		Applications: []config.Application{{Name: "a"}, {Name: "a"}},
	}
	pb.SetDefaults()
	err := pb.Validate()
	if err == nil {
		t.Fatal("Validate() want error for duplicate application")
	}
	if !strings.Contains(err.Error(), `application "a" declared more than once`) {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoader_WriteDiagnostics(t *testing.T) {
	l := &config.Loader{}
	_, diags := l.Load("testdata/syntax")
	if !diags.HasErrors() {
		t.Fatal("Load() want error")
	}
	var buf bytes.Buffer
	l.WriteDiagnostics(&buf, diags)
	if !strings.Contains(buf.String(), "syntax.hcl") {
		t.Errorf("WriteDiagnostics() output does not reference source file\n%s", buf.String())
	}
}
