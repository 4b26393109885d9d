package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version contains the current version.
	// Set in build using -ldflags "-X github.com/func/beanstalk/cmd/beanstalk.Version=<value>".
	Version = "dev"

	// BuildDate contains a string with the build date.
	BuildDate = "unknown"
)

var versionCommand = &cobra.Command{
	Use:   "build-info",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("beanstalk\n")
		fmt.Printf("  Version:     %s\n", Version)
		fmt.Printf("  Built:       %s\n", BuildDate)
		fmt.Printf("  Go version:  %s\n", runtime.Version())
	},
}

func init() {
	Beanstalk.AddCommand(versionCommand)
}
