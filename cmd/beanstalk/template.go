package cmd

import (
	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/spf13/cobra"
)

var (
	templateFlags   config.Template
	templateOptions []string
	templateTags    map[string]string
)

var templateCommand = &cobra.Command{
	Use:   "template",
	Short: "Create, update, delete or list configuration templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			cfg := templateFlags
			cfg.Region = global.region
			cfg.Tags = templateTags
			opts, err := parseOptions(templateOptions)
			if err != nil {
				return err
			}
			cfg.OptionSettings = opts

			r, err := s.reconciler(cfg.Region)
			if err != nil {
				return err
			}
			res, err := r.Template(s.ctx, cfg)
			entry := &journal.Entry{Kind: "template", Name: cfg.Name, Application: cfg.ApplicationName, Region: cfg.Region, State: stateOf(cfg.State)}
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
	f := templateCommand.Flags()
	f.StringVar(&templateFlags.ApplicationName, "app-name", "", "Application name")
	f.StringVar(&templateFlags.Name, "template-name", "", "Configuration template name")
	f.StringVar(&templateFlags.Description, "description", "", "Template description")
	f.StringVar(&templateFlags.SolutionStackName, "solution-stack-name", "", "Solution stack of the template")
	f.StringArrayVar(&templateOptions, "option", nil, "Option setting as Namespace:OptionName=Value. May be repeated")
	f.StringToStringVar(&templateTags, "tag", nil, "Tags to apply on create, as key=value")
	f.StringVar((*string)(&templateFlags.State), "state", "present", "Desired state: present, absent, list or details")

	Beanstalk.AddCommand(templateCommand)
}
