package config

import (
	"time"

	"github.com/func/beanstalk/provider"
)

// A State is the desired state of a resource, or a read-only mode.
type State string

// States.
const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
	StateList    State = "list"
	StateDetails State = "details" // Environments and templates only.
	StateCleanup State = "cleanup" // Versions only.
)

// Mutating returns true if the state may change provider resources.
func (s State) Mutating() bool {
	return s == StatePresent || s == StateAbsent || s == StateCleanup
}

// DefaultWaitTimeout is the default time to wait for an environment to reach
// the desired status.
const DefaultWaitTimeout = 900 * time.Second

// Application is the desired state of an application.
type Application struct {
	Name        string `hcl:"name,label" validate:"max=100"`
	Region      string `hcl:"region,optional"`
	Description string `hcl:"description,optional" validate:"max=200"`
	State       State  `hcl:"state,optional"`
}

// SetDefaults sets the default values for options that have not been set.
func (a *Application) SetDefaults() {
	if a.State == "" {
		a.State = StatePresent
	}
}

// Version is the desired state of an application version.
type Version struct {
	VersionLabel       string `hcl:"label,label" validate:"max=100"`
	ApplicationName    string `hcl:"application"`
	Region             string `hcl:"region,optional"`
	Description        string `hcl:"description,optional" validate:"max=200"`
	S3Bucket           string `hcl:"s3_bucket,optional"`
	S3Key              string `hcl:"s3_key,optional"`
	State              State  `hcl:"state,optional"`
	DeleteSourceBundle bool   `hcl:"delete_source_bundle,optional"`

	// Cleanup limits. Versions deployed to a live environment are kept
	// regardless of the limits.
	DaysToStore     int `hcl:"days_to_store,optional" validate:"min=0"`
	VersionsToStore int `hcl:"versions_to_store,optional" validate:"min=0"`
}

// SetDefaults sets the default values for options that have not been set.
func (v *Version) SetDefaults() {
	if v.State == "" {
		v.State = StatePresent
	}
}

// SourceBundle returns the source bundle of the version.
func (v *Version) SourceBundle() provider.SourceBundle {
	return provider.SourceBundle{Bucket: v.S3Bucket, Key: v.S3Key}
}

// Environment is the desired state of an environment.
type Environment struct {
	Name              string                   `hcl:"name,label" validate:"omitempty,ebname"`
	ApplicationName   string                   `hcl:"application"`
	Region            string                   `hcl:"region,optional"`
	Description       string                   `hcl:"description,optional" validate:"max=200"`
	VersionLabel      string                   `hcl:"version_label,optional"`
	TemplateName      string                   `hcl:"template_name,optional"`
	SolutionStackName string                   `hcl:"solution_stack_name,optional"`
	CNAMEPrefix       string                   `hcl:"cname_prefix,optional" validate:"omitempty,min=4,max=63"`
	Tier              string                   `hcl:"tier,optional" validate:"omitempty,oneof=WebServer Worker"`
	OptionSettings    []provider.OptionSetting `hcl:"option_setting,block"`
	State             State                    `hcl:"state,optional"`

	// Wait controls whether to wait for the environment to settle after a
	// change. Defaults to true.
	Wait *bool `hcl:"wait,optional"`

	// WaitTimeout is the number of seconds to wait. Defaults to 900.
	WaitTimeout int `hcl:"wait_timeout,optional" validate:"min=0"`
}

// SetDefaults sets the default values for options that have not been set.
func (e *Environment) SetDefaults() {
	if e.State == "" {
		e.State = StatePresent
	}
	if e.Tier == "" {
		e.Tier = "WebServer"
	}
	if e.Wait == nil {
		wait := true
		e.Wait = &wait
	}
	if e.WaitTimeout == 0 {
		e.WaitTimeout = int(DefaultWaitTimeout / time.Second)
	}
}

// ShouldWait returns true if changes should be waited on.
func (e *Environment) ShouldWait() bool {
	return e.Wait == nil || *e.Wait
}

// Timeout returns the wait timeout as a duration.
func (e *Environment) Timeout() time.Duration {
	if e.WaitTimeout == 0 {
		return DefaultWaitTimeout
	}
	return time.Duration(e.WaitTimeout) * time.Second
}

// Template is the desired state of a configuration template.
type Template struct {
	Name              string                   `hcl:"name,label" validate:"max=100"`
	ApplicationName   string                   `hcl:"application"`
	Region            string                   `hcl:"region,optional"`
	Description       string                   `hcl:"description,optional" validate:"max=200"`
	SolutionStackName string                   `hcl:"solution_stack_name,optional"`
	OptionSettings    []provider.OptionSetting `hcl:"option_setting,block"`
	Tags              map[string]string        `hcl:"tags,optional"`
	State             State                    `hcl:"state,optional"`
}

// SetDefaults sets the default values for options that have not been set.
func (t *Template) SetDefaults() {
	if t.State == "" {
		t.State = StatePresent
	}
}
