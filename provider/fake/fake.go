// Package fake provides an in-memory provider for tests.
package fake

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/func/beanstalk/provider"
)

// Provider is an in-memory implementation of provider.Client. All data is
// stored in memory.
//
// Environments move through transitional statuses (Launching, Updating,
// Terminating) and settle after Transitions calls to DescribeEnvironments.
//
// The zero value is ready to use.
type Provider struct {
	// Transitions is the number of DescribeEnvironments calls an environment
	// remains in a transitional status. If negative, environments never
	// settle.
	Transitions int

	// RevertUpdates causes environment updates to be accepted but never
	// applied.
	RevertUpdates bool

	// DefaultOptions are included in the configuration of every new
	// environment, in addition to the requested option settings.
	DefaultOptions []provider.OptionSetting

	// Errors injects errors, keyed by method name. The error is returned
	// instead of performing the operation.
	Errors map[string]error

	// Now returns the current time. If not set, time.Now is used.
	Now func() time.Time

	mu        sync.Mutex
	apps      map[string]*provider.Application
	versions  map[string]map[string]*provider.ApplicationVersion
	envs      []*env
	templates map[string]map[string]*provider.ConfigurationSettings
	bundles   map[provider.SourceBundle]bool
	nextID    int
}

type env struct {
	desc     provider.Environment
	options  []provider.OptionSetting
	pending  int
	settleTo string
}

func (p *Provider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Provider) fail(method string) error {
	return p.Errors[method]
}

func (p *Provider) init() {
	if p.apps == nil {
		p.apps = make(map[string]*provider.Application)
		p.versions = make(map[string]map[string]*provider.ApplicationVersion)
		p.templates = make(map[string]map[string]*provider.ConfigurationSettings)
		p.bundles = make(map[provider.SourceBundle]bool)
	}
}

// SeedApplication adds an application.
func (p *Provider) SeedApplication(app provider.Application) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	p.apps[app.Name] = &app
}

// SeedVersion adds an application version. The application is created if it
// does not exist.
func (p *Provider) SeedVersion(v provider.ApplicationVersion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	if _, ok := p.apps[v.ApplicationName]; !ok {
		p.apps[v.ApplicationName] = &provider.Application{Name: v.ApplicationName}
	}
	p.putVersion(v)
}

// SeedEnvironment adds an environment with the given option settings. The
// status is kept as given.
func (p *Provider) SeedEnvironment(e provider.Environment, options ...provider.OptionSetting) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	if e.ID == "" {
		e.ID = p.newID()
	}
	p.envs = append(p.envs, &env{desc: e, options: mergeOptions(nil, options)})
}

// SeedTemplate adds a configuration template.
func (p *Provider) SeedTemplate(s provider.ConfigurationSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	p.putTemplate(s)
}

// SeedBundle adds a source bundle object.
func (p *Provider) SeedBundle(b provider.SourceBundle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	p.bundles[b] = true
}

// Bundles returns all stored source bundles, sorted.
func (p *Provider) Bundles() []provider.SourceBundle {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]provider.SourceBundle, 0, len(p.bundles))
	for b := range p.bundles {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (p *Provider) newID() string {
	p.nextID++
	return "e-" + strconv.Itoa(p.nextID)
}

func (p *Provider) putVersion(v provider.ApplicationVersion) {
	if p.versions[v.ApplicationName] == nil {
		p.versions[v.ApplicationName] = make(map[string]*provider.ApplicationVersion)
	}
	p.versions[v.ApplicationName][v.VersionLabel] = &v
}

func (p *Provider) putTemplate(s provider.ConfigurationSettings) {
	if p.templates[s.ApplicationName] == nil {
		p.templates[s.ApplicationName] = make(map[string]*provider.ConfigurationSettings)
	}
	s.OptionSettings = mergeOptions(nil, s.OptionSettings)
	p.templates[s.ApplicationName][s.TemplateName] = &s
}

// DescribeApplications returns applications by name, sorted by name.
func (p *Provider) DescribeApplications(ctx context.Context, names ...string) ([]provider.Application, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("DescribeApplications"); err != nil {
		return nil, err
	}
	p.init()
	var out []provider.Application
	for name, app := range p.apps {
		if len(names) > 0 && !contains(names, name) {
			continue
		}
		a := *app
		a.Versions = nil
		for label := range p.versions[name] {
			a.Versions = append(a.Versions, label)
		}
		sort.Strings(a.Versions)
		a.ConfigurationTemplates = nil
		for tmpl := range p.templates[name] {
			a.ConfigurationTemplates = append(a.ConfigurationTemplates, tmpl)
		}
		sort.Strings(a.ConfigurationTemplates)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateApplication creates an application.
func (p *Provider) CreateApplication(ctx context.Context, name, description string) error {
	const op = "CreateApplication"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.apps[name]; ok {
		return provider.Invalid(op, "Application %s already exists.", name)
	}
	now := p.now()
	p.apps[name] = &provider.Application{
		Name:        name,
		Description: description,
		Created:     now,
		Updated:     now,
	}
	return nil
}

// UpdateApplication sets the description of an application.
func (p *Provider) UpdateApplication(ctx context.Context, name, description string) error {
	const op = "UpdateApplication"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	app, ok := p.apps[name]
	if !ok {
		return provider.NotFound(op, "No Application named '%s' found.", name)
	}
	app.Description = description
	app.Updated = p.now()
	return nil
}

// DeleteApplication deletes an application with its versions and templates.
// Fails if the application has live environments.
func (p *Provider) DeleteApplication(ctx context.Context, name string) error {
	const op = "DeleteApplication"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.apps[name]; !ok {
		return provider.NotFound(op, "No Application named '%s' found.", name)
	}
	for _, e := range p.envs {
		if e.desc.ApplicationName == name && !e.desc.Terminated() {
			return provider.Invalid(op, "Unable to delete application %s because it has running environments.", name)
		}
	}
	delete(p.apps, name)
	delete(p.versions, name)
	delete(p.templates, name)
	return nil
}

// DescribeApplicationVersions returns versions of an application, sorted by
// label.
func (p *Provider) DescribeApplicationVersions(ctx context.Context, app string, labels ...string) ([]provider.ApplicationVersion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("DescribeApplicationVersions"); err != nil {
		return nil, err
	}
	p.init()
	var out []provider.ApplicationVersion
	for label, v := range p.versions[app] {
		if len(labels) > 0 && !contains(labels, label) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionLabel < out[j].VersionLabel })
	return out, nil
}

// CreateApplicationVersion creates a version.
func (p *Provider) CreateApplicationVersion(ctx context.Context, v provider.ApplicationVersion) error {
	const op = "CreateApplicationVersion"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.apps[v.ApplicationName]; !ok {
		return provider.NotFound(op, "No Application named '%s' found.", v.ApplicationName)
	}
	if _, ok := p.versions[v.ApplicationName][v.VersionLabel]; ok {
		return provider.Invalid(op, "Application Version %s already exists.", v.VersionLabel)
	}
	now := p.now()
	v.Status = "UNPROCESSED"
	v.Created = now
	v.Updated = now
	p.putVersion(v)
	return nil
}

// DeleteApplicationVersion deletes a version. Fails if the version is
// deployed to a live environment.
func (p *Provider) DeleteApplicationVersion(ctx context.Context, app, label string) error {
	const op = "DeleteApplicationVersion"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.versions[app][label]; !ok {
		return provider.NotFound(op, "No Application Version named '%s' found.", label)
	}
	for _, e := range p.envs {
		if e.desc.ApplicationName == app && e.desc.VersionLabel == label && !e.desc.Terminated() {
			return provider.Invalid(op, "Unable to delete application version %s because it is being used by environment %s.", label, e.desc.Name)
		}
	}
	delete(p.versions[app], label)
	return nil
}

// DescribeEnvironments returns the environments of an application, including
// terminated ones. Transitional environments advance one step per call.
func (p *Provider) DescribeEnvironments(ctx context.Context, app string, names ...string) ([]provider.Environment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("DescribeEnvironments"); err != nil {
		return nil, err
	}
	var out []provider.Environment
	for _, e := range p.envs {
		if e.desc.ApplicationName != app {
			continue
		}
		if len(names) > 0 && !contains(names, e.desc.Name) {
			continue
		}
		p.advance(e)
		out = append(out, e.desc)
	}
	return out, nil
}

func (p *Provider) advance(e *env) {
	if e.settleTo == "" || p.Transitions < 0 {
		return
	}
	if e.pending > 0 {
		e.pending--
		return
	}
	e.desc.Status = e.settleTo
	e.desc.Updated = p.now()
	e.settleTo = ""
}

func (p *Provider) transition(e *env, status, settleTo string) {
	e.desc.Status = status
	e.desc.Updated = p.now()
	e.settleTo = settleTo
	e.pending = p.Transitions
}

func (p *Provider) live(name string) *env {
	for _, e := range p.envs {
		if strings.EqualFold(e.desc.Name, name) && !e.desc.Terminated() {
			return e
		}
	}
	return nil
}

// CreateEnvironment launches an environment.
func (p *Provider) CreateEnvironment(ctx context.Context, in provider.CreateEnvironmentInput) error {
	const op = "CreateEnvironment"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.apps[in.ApplicationName]; !ok {
		return provider.NotFound(op, "No Application named '%s' found.", in.ApplicationName)
	}
	if p.live(in.EnvironmentName) != nil {
		return provider.Invalid(op, "Environment %s already exists.", in.EnvironmentName)
	}
	if in.VersionLabel != "" {
		if _, ok := p.versions[in.ApplicationName][in.VersionLabel]; !ok {
			return provider.Invalid(op, "No Application Version named '%s' found.", in.VersionLabel)
		}
	}
	options := mergeOptions(nil, p.DefaultOptions)
	if in.TemplateName != "" {
		tmpl, ok := p.templates[in.ApplicationName][in.TemplateName]
		if !ok {
			return provider.Invalid(op, "No Configuration Template named '%s/%s' found.", in.ApplicationName, in.TemplateName)
		}
		options = mergeOptions(options, tmpl.OptionSettings)
	}
	options = mergeOptions(options, in.OptionSettings)

	tier := in.Tier
	if tier == "" {
		tier = "WebServer"
	}
	e := &env{
		desc: provider.Environment{
			ID:                p.newID(),
			Name:              in.EnvironmentName,
			ApplicationName:   in.ApplicationName,
			Description:       in.Description,
			VersionLabel:      in.VersionLabel,
			TemplateName:      in.TemplateName,
			SolutionStackName: in.SolutionStackName,
			Health:            "Grey",
			CNAME:             cname(in),
			Tier:              tier,
		},
		options: options,
	}
	p.transition(e, provider.StatusLaunching, provider.StatusReady)
	p.envs = append(p.envs, e)
	return nil
}

func cname(in provider.CreateEnvironmentInput) string {
	prefix := in.CNAMEPrefix
	if prefix == "" {
		prefix = in.EnvironmentName
	}
	return strings.ToLower(prefix) + ".elasticbeanstalk.com"
}

// UpdateEnvironment applies changes to a live environment.
func (p *Provider) UpdateEnvironment(ctx context.Context, in provider.UpdateEnvironmentInput) error {
	const op = "UpdateEnvironment"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	e := p.live(in.EnvironmentName)
	if e == nil {
		return provider.NotFound(op, "No Environment found for EnvironmentName = '%s'.", in.EnvironmentName)
	}
	if e.desc.Status != provider.StatusReady {
		return provider.Invalid(op, "Environment named %s is in an invalid state for this operation. Must be Ready.", e.desc.Name)
	}
	if in.VersionLabel != "" {
		if _, ok := p.versions[e.desc.ApplicationName][in.VersionLabel]; !ok {
			return provider.Invalid(op, "No Application Version named '%s' found.", in.VersionLabel)
		}
	}
	p.transition(e, provider.StatusUpdating, provider.StatusReady)
	if p.RevertUpdates {
		return nil
	}
	if in.VersionLabel != "" {
		e.desc.VersionLabel = in.VersionLabel
	}
	if in.TemplateName != "" {
		e.desc.TemplateName = in.TemplateName
	}
	if in.Description != "" {
		e.desc.Description = in.Description
	}
	e.options = mergeOptions(e.options, in.OptionSettings)
	return nil
}

// TerminateEnvironment terminates a live environment.
func (p *Provider) TerminateEnvironment(ctx context.Context, name string) error {
	const op = "TerminateEnvironment"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	e := p.live(name)
	if e == nil {
		return provider.NotFound(op, "No Environment found for EnvironmentName = '%s'.", name)
	}
	p.transition(e, provider.StatusTerminating, provider.StatusTerminated)
	return nil
}

// DescribeConfigurationSettings returns environment or template settings.
func (p *Provider) DescribeConfigurationSettings(ctx context.Context, app, envName, template string) ([]provider.ConfigurationSettings, error) {
	const op = "DescribeConfigurationSettings"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return nil, err
	}
	p.init()
	switch {
	case envName != "":
		e := p.live(envName)
		if e == nil || e.desc.ApplicationName != app {
			return nil, provider.NotFound(op, "No Environment found for EnvironmentName = '%s'.", envName)
		}
		return []provider.ConfigurationSettings{{
			ApplicationName:   app,
			EnvironmentName:   e.desc.Name,
			TemplateName:      e.desc.TemplateName,
			SolutionStackName: e.desc.SolutionStackName,
			Description:       e.desc.Description,
			DeploymentStatus:  "deployed",
			OptionSettings:    append([]provider.OptionSetting(nil), e.options...),
		}}, nil
	case template != "":
		s, ok := p.templates[app][template]
		if !ok {
			return nil, provider.NotFound(op, "No Configuration Template named '%s/%s' found.", app, template)
		}
		out := *s
		out.OptionSettings = append([]provider.OptionSetting(nil), s.OptionSettings...)
		return []provider.ConfigurationSettings{out}, nil
	default:
		if _, ok := p.apps[app]; !ok {
			return nil, provider.NotFound(op, "No Application named '%s' found.", app)
		}
		var out []provider.ConfigurationSettings
		for _, s := range p.templates[app] {
			out = append(out, *s)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].TemplateName < out[j].TemplateName })
		return out, nil
	}
}

// CreateConfigurationTemplate creates a configuration template.
func (p *Provider) CreateConfigurationTemplate(ctx context.Context, in provider.TemplateInput) error {
	const op = "CreateConfigurationTemplate"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.apps[in.ApplicationName]; !ok {
		return provider.NotFound(op, "No Application named '%s' found.", in.ApplicationName)
	}
	if _, ok := p.templates[in.ApplicationName][in.TemplateName]; ok {
		return provider.Invalid(op, "Configuration Template %s already exists.", in.TemplateName)
	}
	p.putTemplate(provider.ConfigurationSettings{
		ApplicationName:   in.ApplicationName,
		TemplateName:      in.TemplateName,
		SolutionStackName: in.SolutionStackName,
		Description:       in.Description,
		OptionSettings:    mergeOptions(mergeOptions(nil, p.DefaultOptions), in.OptionSettings),
	})
	return nil
}

// UpdateConfigurationTemplate updates a configuration template.
func (p *Provider) UpdateConfigurationTemplate(ctx context.Context, in provider.TemplateInput) error {
	const op = "UpdateConfigurationTemplate"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	s, ok := p.templates[in.ApplicationName][in.TemplateName]
	if !ok {
		return provider.NotFound(op, "No Configuration Template named '%s/%s' found.", in.ApplicationName, in.TemplateName)
	}
	if in.Description != "" {
		s.Description = in.Description
	}
	s.OptionSettings = mergeOptions(s.OptionSettings, in.OptionSettings)
	return nil
}

// DeleteConfigurationTemplate deletes a configuration template.
func (p *Provider) DeleteConfigurationTemplate(ctx context.Context, app, template string) error {
	const op = "DeleteConfigurationTemplate"
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(op); err != nil {
		return err
	}
	p.init()
	if _, ok := p.templates[app][template]; !ok {
		return provider.NotFound(op, "No Configuration Template named '%s/%s' found.", app, template)
	}
	delete(p.templates[app], template)
	return nil
}

// DeleteBundle deletes a bundle. No-op if it does not exist.
func (p *Provider) DeleteBundle(ctx context.Context, b provider.SourceBundle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("DeleteBundle"); err != nil {
		return err
	}
	delete(p.bundles, b)
	return nil
}

// mergeOptions returns base with the given settings applied. Settings are
// keyed by namespace and option name; the last write wins.
func mergeOptions(base, settings []provider.OptionSetting) []provider.OptionSetting {
	out := append([]provider.OptionSetting(nil), base...)
	for _, s := range settings {
		replaced := false
		for i := range out {
			if out[i].Key() == s.Key() {
				out[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ provider.Client = (*Provider)(nil)
