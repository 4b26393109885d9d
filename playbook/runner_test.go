package playbook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/func/beanstalk/playbook"
	"github.com/func/beanstalk/provider"
	"github.com/func/beanstalk/provider/fake"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (j *memJournal) Append(ctx context.Context, e *journal.Entry) error {
	j.mu.Lock()
	j.entries = append(j.entries, *e)
	j.mu.Unlock()
	return nil
}

func samplePlaybook() *config.Playbook {
	pb := &config.Playbook{
		Region: "eu-west-1",
		Applications: []config.Application{
			{Name: "Sample App", Description: "Hello World App"},
		},
		Versions: []config.Version{
			{ApplicationName: "Sample App", VersionLabel: "v1.0.0", S3Bucket: "sampleapp-versions", S3Key: "sample-app-1.0.0.zip"},
		},
		Environments: []config.Environment{
			{
				ApplicationName:   "Sample App",
				Name:              "sampleApp-env",
				VersionLabel:      "v1.0.0",
				SolutionStackName: "64bit Amazon Linux 2018.03 v2.12.14 running Docker 18.06.1-ce",
				OptionSettings: []provider.OptionSetting{
					{Namespace: "aws:elasticbeanstalk:application:environment", OptionName: "PARAM1", Value: "bar"},
				},
			},
		},
	}
	pb.SetDefaults()
	return pb
}

func newRunner(t *testing.T, p *fake.Provider) (*playbook.Runner, *fake.Recorder, *memJournal) {
	rec := &fake.Recorder{Client: p}
	j := &memJournal{}
	r := &playbook.Runner{
		Clients: func(ctx context.Context, region string) (provider.Client, error) {
			if region != "eu-west-1" {
				t.Errorf("Client requested for region %q", region)
			}
			return rec, nil
		},
		Logger:       zaptest.NewLogger(t),
		Journal:      j,
		PollInterval: time.Millisecond,
	}
	return r, rec, j
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	p := &fake.Provider{}
	p.SeedBundle(provider.SourceBundle{Bucket: "sampleapp-versions", Key: "sample-app-1.0.0.zip"})
	r, rec, j := newRunner(t, p)

	results, err := r.Run(ctx, samplePlaybook())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var changed []bool
	for _, res := range results {
		changed = append(changed, res.Changed)
	}
	if diff := cmp.Diff(changed, []bool{true, true, true}); diff != "" {
		t.Errorf("Changed (-got, +want)\n%s", diff)
	}
	want := []string{
		"CreateApplication(Sample App)",
		"CreateApplicationVersion(Sample App/v1.0.0)",
		"CreateEnvironment(Sample App/sampleApp-env)",
	}
	if diff := rec.Events.Mutations().Diff(want); diff != "" {
		t.Errorf("Mutations (-got, +want)\n%s", diff)
	}
	if len(j.entries) != 3 {
		t.Fatalf("Got %d journal entries, want 3", len(j.entries))
	}
	runID := j.entries[0].RunID
	for _, e := range j.entries {
		if e.RunID != runID || runID == "" {
			t.Errorf("Entry run id = %q, want %q", e.RunID, runID)
		}
	}

	// Second run changes nothing.
	rec.Reset()
	results, err = r.Run(ctx, samplePlaybook())
	if err != nil {
		t.Fatalf("Run() second call error = %v", err)
	}
	for _, res := range results {
		if res.Changed {
			t.Errorf("Second run changed %s %q: %s", res.Kind, res.Name, res.Output)
		}
	}
	if muts := rec.Events.Mutations(); len(muts) > 0 {
		t.Errorf("Second run mutations: %s", muts)
	}
}

func TestRunner_Run_check(t *testing.T) {
	p := &fake.Provider{}
	p.SeedBundle(provider.SourceBundle{Bucket: "sampleapp-versions", Key: "sample-app-1.0.0.zip"})
	p.SeedApplication(provider.Application{Name: "Sample App", Description: "Hello World App"})
	p.SeedVersion(provider.ApplicationVersion{ApplicationName: "Sample App", VersionLabel: "v1.0.0"})
	r, rec, j := newRunner(t, p)
	r.Check = true

	results, err := r.Run(context.Background(), samplePlaybook())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var changed []bool
	for _, res := range results {
		changed = append(changed, res.Changed)
	}
	if diff := cmp.Diff(changed, []bool{false, false, true}); diff != "" {
		t.Errorf("Changed (-got, +want)\n%s", diff)
	}
	if muts := rec.Events.Mutations(); len(muts) > 0 {
		t.Errorf("Check mode mutations: %s", muts)
	}
	for _, e := range j.entries {
		if !e.Check {
			t.Errorf("Journal entry not marked as check: %+v", e)
		}
	}
}

func TestRunner_Run_error(t *testing.T) {
	p := &fake.Provider{}
	r, rec, j := newRunner(t, p)

	results, err := r.Run(context.Background(), samplePlaybook())
	if err == nil {
		t.Fatal("Run() want error for missing source bundle")
	}
	if len(results) != 1 {
		t.Errorf("Got %d results, want 1", len(results))
	}
	if diff := rec.Events.Mutations().Diff([]string{"CreateApplication(Sample App)"}); diff != "" {
		t.Errorf("Mutations (-got, +want)\n%s", diff)
	}
	if len(j.entries) != 2 || j.entries[1].Error == "" {
		t.Errorf("Journal entries = %+v, want failed version entry", j.entries)
	}
}
