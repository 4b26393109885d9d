package cmd

import (
	"strings"
	"time"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/func/beanstalk/provider"
	"github.com/spf13/cobra"
)

var (
	environmentFlags   config.Environment
	environmentOptions []string
	environmentNoWait  bool
	environmentTimeout time.Duration
)

var environmentCommand = &cobra.Command{
	Use:     "environment",
	Aliases: []string{"env"},
	Short:   "Create, update, terminate or list environments",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			cfg := environmentFlags
			cfg.Region = global.region
			opts, err := parseOptions(environmentOptions)
			if err != nil {
				return err
			}
			cfg.OptionSettings = opts
			wait := !environmentNoWait
			cfg.Wait = &wait
			if environmentTimeout < time.Second {
				return usagef("wait timeout must be at least 1s")
			}
			cfg.WaitTimeout = int(environmentTimeout / time.Second)

			r, err := s.reconciler(cfg.Region)
			if err != nil {
				return err
			}
			res, err := r.Environment(s.ctx, cfg)
			entry := &journal.Entry{Kind: "environment", Name: cfg.Name, Application: cfg.ApplicationName, Region: cfg.Region, State: stateOf(cfg.State)}
			if err != nil {
				s.record(entry, false, "", err)
				return err
			}
			s.record(entry, res.Changed, res.Output, nil)
			return printJSON(res)
		})
	},
}

func init() {
	f := environmentCommand.Flags()
	f.StringVar(&environmentFlags.ApplicationName, "app-name", "", "Application name")
	f.StringVar(&environmentFlags.Name, "env-name", "", "Environment name")
	f.StringVar(&environmentFlags.Description, "description", "", "Environment description")
	f.StringVar(&environmentFlags.VersionLabel, "version-label", "", "Version to deploy")
	f.StringVar(&environmentFlags.TemplateName, "template-name", "", "Configuration template. Cannot be used with --solution-stack-name")
	f.StringVar(&environmentFlags.SolutionStackName, "solution-stack-name", "", "Solution stack. Cannot be used with --template-name")
	f.StringVar(&environmentFlags.CNAMEPrefix, "cname-prefix", "", "CNAME prefix")
	f.StringVar(&environmentFlags.Tier, "tier", "WebServer", "Environment tier: WebServer or Worker")
	f.StringArrayVar(&environmentOptions, "option", nil, "Option setting as Namespace:OptionName=Value. May be repeated")
	f.StringVar((*string)(&environmentFlags.State), "state", "present", "Desired state: present, absent, list or details")
	f.BoolVar(&environmentNoWait, "no-wait", false, "Do not wait for the environment to settle")
	f.DurationVar(&environmentTimeout, "wait-timeout", config.DefaultWaitTimeout, "Maximum time to wait for the environment to settle")

	Beanstalk.AddCommand(environmentCommand)
}

// parseOptions parses option settings given as Namespace:OptionName=Value.
// The namespace may itself contain colons; the option name follows the last
// colon before the equals sign.
func parseOptions(ss []string) ([]provider.OptionSetting, error) {
	var out []provider.OptionSetting
	for _, s := range ss {
		eq := strings.Index(s, "=")
		if eq < 0 {
			return nil, usagef("invalid option %q: want Namespace:OptionName=Value", s)
		}
		key, value := s[:eq], s[eq+1:]
		colon := strings.LastIndex(key, ":")
		if colon <= 0 || colon == len(key)-1 {
			return nil, usagef("invalid option %q: want Namespace:OptionName=Value", s)
		}
		out = append(out, provider.OptionSetting{
			Namespace:  key[:colon],
			OptionName: key[colon+1:],
			Value:      value,
		})
	}
	return out, nil
}
