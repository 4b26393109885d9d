// Package cmd contains the beanstalk command line interface.
package cmd

import (
	"github.com/func/beanstalk/journal"
	"github.com/spf13/cobra"
)

// Beanstalk is the root command.
var Beanstalk = &cobra.Command{
	Use:           "beanstalk",
	Short:         "Manage Elastic Beanstalk applications, versions and environments",
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var global struct {
	region   string
	profile  string
	check    bool
	logLevel string
	journal  string
}

func init() {
	journalFile, _ := journal.DefaultFile() // Journal is disabled if home dir can't be determined.

	f := Beanstalk.PersistentFlags()
	f.StringVar(&global.region, "region", "", "AWS region. If not set, the region is resolved from the AWS environment")
	f.StringVar(&global.profile, "profile", "", "AWS shared config profile")
	f.BoolVar(&global.check, "check", false, "Report changes without making them")
	f.StringVar(&global.logLevel, "log-level", "error", "Log level: debug, info, warn or error")
	f.StringVar(&global.journal, "journal", journalFile, "Journal file. Set to empty to disable the journal")
}
