// Package provider defines the contract between the reconcilers and the
// platform that hosts Elastic Beanstalk resources.
//
// The descriptors in this package are transient copies of provider state. They
// are never persisted and are only used for comparison within a single
// invocation.
package provider

import (
	"context"
	"time"
)

// Environment status values reported by the provider.
const (
	StatusLaunching   = "Launching"
	StatusUpdating    = "Updating"
	StatusReady       = "Ready"
	StatusTerminating = "Terminating"
	StatusTerminated  = "Terminated"
)

// Beanstalk manages applications, application versions, environments and
// configuration templates.
//
// Implementations return *Error for failures reported by the provider.
type Beanstalk interface {
	// DescribeApplications returns the applications matching the given names.
	// All applications are returned if no names are given.
	DescribeApplications(ctx context.Context, names ...string) ([]Application, error)
	CreateApplication(ctx context.Context, name, description string) error
	UpdateApplication(ctx context.Context, name, description string) error
	DeleteApplication(ctx context.Context, name string) error

	// DescribeApplicationVersions returns versions of an application. All
	// versions are returned if no labels are given.
	DescribeApplicationVersions(ctx context.Context, app string, labels ...string) ([]ApplicationVersion, error)
	CreateApplicationVersion(ctx context.Context, v ApplicationVersion) error
	// DeleteApplicationVersion deletes a version. The source bundle is never
	// deleted by the call; see BundleStore.
	DeleteApplicationVersion(ctx context.Context, app, label string) error

	// DescribeEnvironments returns the environments of an application,
	// including environments that are terminating or recently terminated.
	// All environments of the application are returned if no names are given.
	DescribeEnvironments(ctx context.Context, app string, names ...string) ([]Environment, error)
	CreateEnvironment(ctx context.Context, in CreateEnvironmentInput) error
	UpdateEnvironment(ctx context.Context, in UpdateEnvironmentInput) error
	TerminateEnvironment(ctx context.Context, name string) error

	// DescribeConfigurationSettings returns the settings of either an
	// environment or a configuration template. If both env and template are
	// empty, all templates of the application are returned.
	DescribeConfigurationSettings(ctx context.Context, app, env, template string) ([]ConfigurationSettings, error)
	CreateConfigurationTemplate(ctx context.Context, in TemplateInput) error
	UpdateConfigurationTemplate(ctx context.Context, in TemplateInput) error
	DeleteConfigurationTemplate(ctx context.Context, app, template string) error
}

// BundleStore provides access to the objects that back application versions.
type BundleStore interface {
	// DeleteBundle removes the object. No-op if it does not exist.
	DeleteBundle(ctx context.Context, b SourceBundle) error
}

// A Client is a Beanstalk with access to the version source bundles.
type Client interface {
	Beanstalk
	BundleStore
}

// Application is a top-level grouping of versions and environments.
type Application struct {
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Versions               []string  `json:"versions,omitempty"`
	ConfigurationTemplates []string  `json:"configuration_templates,omitempty"`
	Created                time.Time `json:"created"`
	Updated                time.Time `json:"updated"`
}

// SourceBundle points to a source archive stored in S3.
type SourceBundle struct {
	Bucket string `json:"s3_bucket"`
	Key    string `json:"s3_key"`
}

func (b SourceBundle) String() string { return "s3://" + b.Bucket + "/" + b.Key }

// Empty returns true if neither bucket nor key is set.
func (b SourceBundle) Empty() bool { return b.Bucket == "" && b.Key == "" }

// ApplicationVersion is an immutable, labelled pointer to a source bundle.
type ApplicationVersion struct {
	ApplicationName string       `json:"app_name"`
	VersionLabel    string       `json:"version_label"`
	Description     string       `json:"description"`
	SourceBundle    SourceBundle `json:"source_bundle"`
	Status          string       `json:"status,omitempty"`
	Created         time.Time    `json:"created"`
	Updated         time.Time    `json:"updated"`
}

// Environment is a running deployment of an application version.
type Environment struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ApplicationName   string    `json:"app_name"`
	Description       string    `json:"description,omitempty"`
	VersionLabel      string    `json:"version_label,omitempty"`
	TemplateName      string    `json:"template_name,omitempty"`
	SolutionStackName string    `json:"solution_stack_name,omitempty"`
	Status            string    `json:"status"`
	Health            string    `json:"health,omitempty"`
	CNAME             string    `json:"cname,omitempty"`
	Tier              string    `json:"tier,omitempty"`
	Updated           time.Time `json:"updated"`
}

// Terminated returns true if the environment is terminated or terminating.
func (e Environment) Terminated() bool {
	return e.Status == StatusTerminated || e.Status == StatusTerminating
}

// An OptionSetting overrides a single configuration option.
type OptionSetting struct {
	Namespace  string `json:"Namespace" hcl:"namespace"`
	OptionName string `json:"OptionName" hcl:"option_name"`
	Value      string `json:"Value" hcl:"value"`
}

// Key returns the namespace and option name, joined by a colon.
func (o OptionSetting) Key() string { return o.Namespace + ":" + o.OptionName }

// ConfigurationSettings describes the settings of an environment or a
// configuration template.
type ConfigurationSettings struct {
	ApplicationName   string          `json:"app_name"`
	EnvironmentName   string          `json:"env_name,omitempty"`
	TemplateName      string          `json:"template_name,omitempty"`
	SolutionStackName string          `json:"solution_stack_name,omitempty"`
	Description       string          `json:"description,omitempty"`
	DeploymentStatus  string          `json:"deployment_status,omitempty"`
	OptionSettings    []OptionSetting `json:"option_settings"`
}

// CreateEnvironmentInput contains the parameters for launching an environment.
type CreateEnvironmentInput struct {
	ApplicationName   string
	EnvironmentName   string
	Description       string
	VersionLabel      string
	TemplateName      string
	SolutionStackName string
	CNAMEPrefix       string
	Tier              string // WebServer or Worker
	OptionSettings    []OptionSetting
}

// UpdateEnvironmentInput contains the changes to apply to an environment.
// Empty fields are left unchanged.
type UpdateEnvironmentInput struct {
	ApplicationName string
	EnvironmentName string
	Description     string
	VersionLabel    string
	TemplateName    string
	OptionSettings  []OptionSetting
}

// TemplateInput contains the parameters for creating or updating a
// configuration template. Tags are only applied on create.
type TemplateInput struct {
	ApplicationName   string
	TemplateName      string
	Description       string
	SolutionStackName string
	OptionSettings    []OptionSetting
	Tags              map[string]string
}
