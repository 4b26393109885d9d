package cmd

import (
	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/spf13/cobra"
)

var applicationFlags config.Application

var applicationCommand = &cobra.Command{
	Use:     "application",
	Aliases: []string{"app"},
	Short:   "Create, update, delete or list applications",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			cfg := applicationFlags
			cfg.Region = global.region
			r, err := s.reconciler(cfg.Region)
			if err != nil {
				return err
			}
			res, err := r.Application(s.ctx, cfg)
			entry := &journal.Entry{Kind: "application", Name: cfg.Name, Application: cfg.Name, Region: cfg.Region, State: stateOf(cfg.State)}
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
	f := applicationCommand.Flags()
	f.StringVar(&applicationFlags.Name, "app-name", "", "Application name")
	f.StringVar(&applicationFlags.Description, "description", "", "Application description")
	f.StringVar((*string)(&applicationFlags.State), "state", "present", "Desired state: present, absent or list")

	Beanstalk.AddCommand(applicationCommand)
}

// stateOf returns the state to record, defaulting to present.
func stateOf(s config.State) string {
	if s == "" {
		return string(config.StatePresent)
	}
	return string(s)
}
