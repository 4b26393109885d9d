package playbook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/func/beanstalk/config"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Block kinds.
const (
	KindApplication = "application"
	KindVersion     = "version"
	KindTemplate    = "template"
	KindEnvironment = "environment"
)

// A Step is a single playbook block to reconcile.
type Step struct {
	Kind        string
	Name        string
	Application string
	Region      string
	State       config.State

	// Config is one of config.Application, config.Version,
	// config.Environment or config.Template.
	Config interface{}
}

func (s *Step) String() string {
	return fmt.Sprintf("%s %q", s.Kind, s.Name)
}

type node struct {
	graph.Node
	step  *Step
	index int // Declaration order.
}

// Plan orders the blocks of a playbook. Blocks are ordered so that
// applications come before their versions, templates and environments, and
// versions and templates come before the environments that use them. Blocks
// that remove resources run last, in reverse order.
//
// Blocks without dependencies between them keep their declaration order,
// with applications first, then versions, templates and environments.
func Plan(pb *config.Playbook) ([]*Step, error) {
	g := simple.NewDirectedGraph()
	var nodes []*node
	add := func(s *Step) *node {
		n := &node{Node: g.NewNode(), step: s, index: len(nodes)}
		g.AddNode(n)
		nodes = append(nodes, n)
		return n
	}

	apps := make(map[string]*node)
	versions := make(map[string]*node)
	templates := make(map[string]*node)
	var envs []*node

	for _, a := range pb.Applications {
		apps[a.Name] = add(&Step{Kind: KindApplication, Name: a.Name, Application: a.Name, Region: a.Region, State: a.State, Config: a})
	}
	for _, v := range pb.Versions {
		versions[key(v.ApplicationName, v.VersionLabel)] = add(&Step{Kind: KindVersion, Name: v.VersionLabel, Application: v.ApplicationName, Region: v.Region, State: v.State, Config: v})
	}
	for _, t := range pb.Templates {
		templates[key(t.ApplicationName, t.Name)] = add(&Step{Kind: KindTemplate, Name: t.Name, Application: t.ApplicationName, Region: t.Region, State: t.State, Config: t})
	}
	for _, e := range pb.Environments {
		envs = append(envs, add(&Step{Kind: KindEnvironment, Name: e.Name, Application: e.ApplicationName, Region: e.Region, State: e.State, Config: e}))
	}

	edge := func(parent, child *node) {
		if parent == nil || parent == child {
			return
		}
		g.SetEdge(g.NewEdge(parent, child))
	}
	for _, n := range nodes {
		if n.step.Kind != KindApplication {
			edge(apps[n.step.Application], n)
		}
	}
	for _, n := range envs {
		e := n.step.Config.(config.Environment)
		if e.VersionLabel != "" {
			edge(versions[key(e.ApplicationName, e.VersionLabel)], n)
		}
		if e.TemplateName != "" {
			edge(templates[key(e.ApplicationName, e.TemplateName)], n)
		}
	}

	sorted, err := topo.SortStabilized(g, func(nn []graph.Node) {
		sort.Slice(nn, func(i, j int) bool {
			return nn[i].(*node).index < nn[j].(*node).index
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "order playbook blocks")
	}

	var steps, remove []*Step
	for _, n := range sorted {
		s := n.(*node).step
		if s.State == config.StateAbsent {
			remove = append(remove, s)
			continue
		}
		steps = append(steps, s)
	}
	for i := len(remove) - 1; i >= 0; i-- {
		steps = append(steps, remove[i])
	}
	return steps, nil
}

func key(parts ...string) string {
	return strings.Join(parts, "\x00")
}
