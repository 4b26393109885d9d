package cmd

import (
	"context"
	"os"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/playbook"
	"github.com/func/beanstalk/provider"
	"github.com/spf13/cobra"
)

var applyCommand = &cobra.Command{
	Use:   "apply [dir]",
	Short: "Reconcile all resources declared in a playbook",
	Long: `Apply loads every .hcl file in dir (default current directory) and
reconciles the declared applications, templates, versions and environments in
dependency order.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		loader := &config.Loader{}
		pb, diags := loader.Load(dir)
		if diags.HasErrors() {
			loader.WriteDiagnostics(os.Stderr, diags)
			os.Exit(exitConfig)
		}

		run(func(s *session) error {
			runner := &playbook.Runner{
				Clients: func(ctx context.Context, region string) (provider.Client, error) {
					return s.client(ctx, region)
				},
				Check:  global.check,
				Logger: s.logger,
			}
			if s.journal != nil {
				runner.Journal = s.journal
			}
			results, err := runner.Run(s.ctx, pb)
			if perr := printJSON(results); perr != nil && err == nil {
				err = perr
			}
			return err
		})
	},
}

func init() {
	Beanstalk.AddCommand(applyCommand)
}
