package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// A Playbook is the root structure of a playbook, collecting the desired state
// of every resource it manages.
type Playbook struct {
	// Region is the default region for blocks that do not set one.
	Region string `hcl:"region,optional"`

	Applications []Application `hcl:"application,block"`
	Versions     []Version     `hcl:"version,block"`
	Environments []Environment `hcl:"environment,block"`
	Templates    []Template    `hcl:"template,block"`
}

// Len returns the number of blocks in the playbook.
func (p *Playbook) Len() int {
	return len(p.Applications) + len(p.Versions) + len(p.Environments) + len(p.Templates)
}

// SetDefaults sets defaults for every block. Blocks without a region inherit
// the playbook region.
func (p *Playbook) SetDefaults() {
	for i := range p.Applications {
		a := &p.Applications[i]
		a.SetDefaults()
		if a.Region == "" {
			a.Region = p.Region
		}
	}
	for i := range p.Versions {
		v := &p.Versions[i]
		v.SetDefaults()
		if v.Region == "" {
			v.Region = p.Region
		}
	}
	for i := range p.Environments {
		e := &p.Environments[i]
		e.SetDefaults()
		if e.Region == "" {
			e.Region = p.Region
		}
	}
	for i := range p.Templates {
		t := &p.Templates[i]
		t.SetDefaults()
		if t.Region == "" {
			t.Region = p.Region
		}
	}
}

// Validate validates every block and checks that no resource is declared
// twice. All errors are returned.
func (p *Playbook) Validate() error {
	var err error
	seen := make(map[string]bool)
	dup := func(kind, key string) {
		k := kind + "\x00" + key
		if seen[k] {
			err = multierr.Append(err, fmt.Errorf("%s %s declared more than once", kind, key))
		}
		seen[k] = true
	}
	for i := range p.Applications {
		a := &p.Applications[i]
		err = multierr.Append(err, a.Validate())
		dup("application", fmt.Sprintf("%q", a.Name))
	}
	for i := range p.Versions {
		v := &p.Versions[i]
		err = multierr.Append(err, v.Validate())
		dup("version", fmt.Sprintf("%q in application %q", v.VersionLabel, v.ApplicationName))
	}
	for i := range p.Environments {
		e := &p.Environments[i]
		err = multierr.Append(err, e.Validate())
		dup("environment", fmt.Sprintf("%q", e.Name))
	}
	for i := range p.Templates {
		t := &p.Templates[i]
		err = multierr.Append(err, t.Validate())
		dup("template", fmt.Sprintf("%q in application %q", t.Name, t.ApplicationName))
	}
	return err
}
