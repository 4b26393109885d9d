package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/func/beanstalk/provider"
	"github.com/google/go-cmp/cmp"
)

// A Recorder acts as a wrapper to a client. It records all calls made to the
// client for test or debugging purposes.
type Recorder struct {
	Client provider.Client

	mu     sync.Mutex
	Events Events
}

// Events is a collection of recorded calls.
type Events []Event

// An Event is a recorded call.
type Event struct {
	Method string // Called method.
	Target string // Resource the call targets.
	Err    error  // Error that was returned from call.
}

func (ev Event) String() string {
	s := ev.Method + "(" + ev.Target + ")"
	if ev.Err != nil {
		s += " -> " + ev.Err.Error()
	}
	return s
}

var readOnly = map[string]bool{
	"DescribeApplications":          true,
	"DescribeApplicationVersions":   true,
	"DescribeEnvironments":          true,
	"DescribeConfigurationSettings": true,
}

// Mutations returns the events that changed provider state.
func (ee Events) Mutations() Events {
	var out Events
	for _, ev := range ee {
		if !readOnly[ev.Method] {
			out = append(out, ev)
		}
	}
	return out
}

// Methods returns the called methods with their targets, formatted as
// Method(target).
func (ee Events) Methods() []string {
	if len(ee) == 0 {
		return nil
	}
	out := make([]string, len(ee))
	for i, ev := range ee {
		out[i] = ev.Method + "(" + ev.Target + ")"
	}
	return out
}

// Diff returns a diff of the called methods. Returns an empty string if the
// same methods were called with the same targets.
func (ee Events) Diff(want []string) string {
	return cmp.Diff(ee.Methods(), want)
}

// String returns a string of all events that have occurred.
//
// If no events have been recorded, returns
//
//	<no events>
func (ee Events) String() string {
	if len(ee) == 0 {
		return "<no events>"
	}
	ss := make([]string, len(ee))
	for i, e := range ee {
		ss[i] = e.String()
	}
	return fmt.Sprintf("%v", ss)
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.Events = nil
	r.mu.Unlock()
}

func (r *Recorder) record(method string, target []string, err error) {
	r.mu.Lock()
	r.Events = append(r.Events, Event{
		Method: method,
		Target: strings.Join(target, "/"),
		Err:    err,
	})
	r.mu.Unlock()
}

// DescribeApplications calls the underlying client and records the event.
func (r *Recorder) DescribeApplications(ctx context.Context, names ...string) ([]provider.Application, error) {
	out, err := r.Client.DescribeApplications(ctx, names...)
	r.record("DescribeApplications", names, err)
	return out, err
}

// CreateApplication calls the underlying client and records the event.
func (r *Recorder) CreateApplication(ctx context.Context, name, description string) error {
	err := r.Client.CreateApplication(ctx, name, description)
	r.record("CreateApplication", []string{name}, err)
	return err
}

// UpdateApplication calls the underlying client and records the event.
func (r *Recorder) UpdateApplication(ctx context.Context, name, description string) error {
	err := r.Client.UpdateApplication(ctx, name, description)
	r.record("UpdateApplication", []string{name}, err)
	return err
}

// DeleteApplication calls the underlying client and records the event.
func (r *Recorder) DeleteApplication(ctx context.Context, name string) error {
	err := r.Client.DeleteApplication(ctx, name)
	r.record("DeleteApplication", []string{name}, err)
	return err
}

// DescribeApplicationVersions calls the underlying client and records the event.
func (r *Recorder) DescribeApplicationVersions(ctx context.Context, app string, labels ...string) ([]provider.ApplicationVersion, error) {
	out, err := r.Client.DescribeApplicationVersions(ctx, app, labels...)
	r.record("DescribeApplicationVersions", append([]string{app}, labels...), err)
	return out, err
}

// CreateApplicationVersion calls the underlying client and records the event.
func (r *Recorder) CreateApplicationVersion(ctx context.Context, v provider.ApplicationVersion) error {
	err := r.Client.CreateApplicationVersion(ctx, v)
	r.record("CreateApplicationVersion", []string{v.ApplicationName, v.VersionLabel}, err)
	return err
}

// DeleteApplicationVersion calls the underlying client and records the event.
func (r *Recorder) DeleteApplicationVersion(ctx context.Context, app, label string) error {
	err := r.Client.DeleteApplicationVersion(ctx, app, label)
	r.record("DeleteApplicationVersion", []string{app, label}, err)
	return err
}

// DescribeEnvironments calls the underlying client and records the event.
func (r *Recorder) DescribeEnvironments(ctx context.Context, app string, names ...string) ([]provider.Environment, error) {
	out, err := r.Client.DescribeEnvironments(ctx, app, names...)
	r.record("DescribeEnvironments", append([]string{app}, names...), err)
	return out, err
}

// CreateEnvironment calls the underlying client and records the event.
func (r *Recorder) CreateEnvironment(ctx context.Context, in provider.CreateEnvironmentInput) error {
	err := r.Client.CreateEnvironment(ctx, in)
	r.record("CreateEnvironment", []string{in.ApplicationName, in.EnvironmentName}, err)
	return err
}

// UpdateEnvironment calls the underlying client and records the event.
func (r *Recorder) UpdateEnvironment(ctx context.Context, in provider.UpdateEnvironmentInput) error {
	err := r.Client.UpdateEnvironment(ctx, in)
	r.record("UpdateEnvironment", []string{in.EnvironmentName}, err)
	return err
}

// TerminateEnvironment calls the underlying client and records the event.
func (r *Recorder) TerminateEnvironment(ctx context.Context, name string) error {
	err := r.Client.TerminateEnvironment(ctx, name)
	r.record("TerminateEnvironment", []string{name}, err)
	return err
}

// DescribeConfigurationSettings calls the underlying client and records the event.
func (r *Recorder) DescribeConfigurationSettings(ctx context.Context, app, env, template string) ([]provider.ConfigurationSettings, error) {
	out, err := r.Client.DescribeConfigurationSettings(ctx, app, env, template)
	target := []string{app}
	if env != "" {
		target = append(target, env)
	}
	if template != "" {
		target = append(target, template)
	}
	r.record("DescribeConfigurationSettings", target, err)
	return out, err
}

// CreateConfigurationTemplate calls the underlying client and records the event.
func (r *Recorder) CreateConfigurationTemplate(ctx context.Context, in provider.TemplateInput) error {
	err := r.Client.CreateConfigurationTemplate(ctx, in)
	r.record("CreateConfigurationTemplate", []string{in.ApplicationName, in.TemplateName}, err)
	return err
}

// UpdateConfigurationTemplate calls the underlying client and records the event.
func (r *Recorder) UpdateConfigurationTemplate(ctx context.Context, in provider.TemplateInput) error {
	err := r.Client.UpdateConfigurationTemplate(ctx, in)
	r.record("UpdateConfigurationTemplate", []string{in.ApplicationName, in.TemplateName}, err)
	return err
}

// DeleteConfigurationTemplate calls the underlying client and records the event.
func (r *Recorder) DeleteConfigurationTemplate(ctx context.Context, app, template string) error {
	err := r.Client.DeleteConfigurationTemplate(ctx, app, template)
	r.record("DeleteConfigurationTemplate", []string{app, template}, err)
	return err
}

// DeleteBundle calls the underlying client and records the event.
func (r *Recorder) DeleteBundle(ctx context.Context, b provider.SourceBundle) error {
	err := r.Client.DeleteBundle(ctx, b)
	r.record("DeleteBundle", []string{b.String()}, err)
	return err
}

var _ provider.Client = (*Recorder)(nil)
