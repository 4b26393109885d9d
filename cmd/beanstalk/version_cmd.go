package cmd

import (
	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/spf13/cobra"
)

var versionFlags config.Version

var applicationVersionCommand = &cobra.Command{
	Use:     "version",
	Aliases: []string{"ver"},
	Short:   "Create, delete, list or clean up application versions",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			cfg := versionFlags
			cfg.Region = global.region
			r, err := s.reconciler(cfg.Region)
			if err != nil {
				return err
			}
			res, err := r.Version(s.ctx, cfg)
			entry := &journal.Entry{Kind: "version", Name: cfg.VersionLabel, Application: cfg.ApplicationName, Region: cfg.Region, State: stateOf(cfg.State)}
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
	f := applicationVersionCommand.Flags()
	f.StringVar(&versionFlags.ApplicationName, "app-name", "", "Application name")
	f.StringVar(&versionFlags.VersionLabel, "version-label", "", "Version label")
	f.StringVar(&versionFlags.Description, "description", "", "Version description")
	f.StringVar(&versionFlags.S3Bucket, "s3-bucket", "", "S3 bucket of the source bundle")
	f.StringVar(&versionFlags.S3Key, "s3-key", "", "S3 key of the source bundle")
	f.StringVar((*string)(&versionFlags.State), "state", "present", "Desired state: present, absent, list or cleanup")
	f.BoolVar(&versionFlags.DeleteSourceBundle, "delete-source-bundle", false, "Delete the source bundle from S3 when deleting versions")
	f.IntVar(&versionFlags.DaysToStore, "days-to-store", 0, "Cleanup: delete versions not updated for this many days")
	f.IntVar(&versionFlags.VersionsToStore, "versions-to-store", 0, "Cleanup: keep this many of the newest versions")

	Beanstalk.AddCommand(applicationVersionCommand)
}
