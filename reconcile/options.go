package reconcile

import (
	"sort"
	"strings"

	"github.com/func/beanstalk/provider"
)

// NewOption is reported as the previous value of an option that was not set.
const NewOption = "<NEW>"

// An Update describes a single difference between the desired and observed
// state.
type Update struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Options that hold comma separated lists. A desired list is satisfied if
// all of its items are present in the observed value.
var listOptions = map[string]bool{
	"aws:autoscaling:launchconfiguration:SecurityGroups": true,
	"aws:autoscaling:launchconfiguration:ELBSubnets":     true,
	"aws:autoscaling:launchconfiguration:Subnets":        true,
	"aws:ec2:vpc:SecurityGroups":                         true,
	"aws:ec2:vpc:ELBSubnets":                             true,
	"aws:ec2:vpc:Subnets":                                true,
}

// UniqueOptions returns the settings with duplicate keys removed. The last
// value for a key wins; the position of the first occurrence is kept.
func UniqueOptions(settings []provider.OptionSetting) []provider.OptionSetting {
	index := make(map[string]int, len(settings))
	var out []provider.OptionSetting
	for _, s := range settings {
		if i, ok := index[s.Key()]; ok {
			out[i] = s
			continue
		}
		index[s.Key()] = len(out)
		out = append(out, s)
	}
	return out
}

// DiffOptions compares desired option settings to the observed settings.
// Observed options that are not desired are ignored. The returned updates are
// sorted by field, and the changed settings are returned in desired order.
func DiffOptions(observed, desired []provider.OptionSetting) ([]Update, []provider.OptionSetting) {
	current := make(map[string]string, len(observed))
	for _, o := range observed {
		current[o.Key()] = o.Value
	}

	var (
		updates []Update
		changed []provider.OptionSetting
	)
	for _, want := range UniqueOptions(desired) {
		key := want.Key()
		got, ok := current[key]
		switch {
		case !ok:
			updates = append(updates, Update{Field: key, Old: NewOption, New: want.Value})
		case got == want.Value:
			continue
		case listOptions[key] && subset(want.Value, got):
			continue
		default:
			updates = append(updates, Update{Field: key, Old: got, New: want.Value})
		}
		changed = append(changed, want)
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].Field < updates[j].Field })
	return updates, changed
}

// subset returns true if every item in the comma separated list a is present
// in b.
func subset(a, b string) bool {
	have := make(map[string]bool)
	for _, s := range splitList(b) {
		have[s] = true
	}
	for _, s := range splitList(a) {
		if !have[s] {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
