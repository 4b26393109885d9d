package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/func/beanstalk/journal"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	filter journal.Filter
	json   bool
}

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Show recorded reconciler runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if global.journal == "" {
			fatal(usagef("journal is disabled"))
		}
		run(func(s *session) error {
			if s.journal == nil {
				return errors.Errorf("journal %s could not be opened", global.journal)
			}
			entries, err := s.journal.List(s.ctx, historyFlags.filter)
			if err != nil {
				return err
			}
			if historyFlags.json {
				return printJSON(entries)
			}
			return writeHistory(os.Stdout, entries)
		})
	},
}

func init() {
	f := historyCommand.Flags()
	f.StringVar(&historyFlags.filter.Application, "app", "", "Only show entries for the application")
	f.StringVar(&historyFlags.filter.RunID, "run", "", "Only show entries from the playbook run")
	f.IntVar(&historyFlags.filter.Limit, "limit", 20, "Maximum number of entries. 0 shows all entries")
	f.BoolVar(&historyFlags.json, "json", false, "Output as JSON")

	Beanstalk.AddCommand(historyCommand)
}

// writeHistory writes entries as a table, newest first.
func writeHistory(w io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries")
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tAPP\tNAME\tSTATE\tRESULT")
	for _, e := range entries {
		result := faint("ok")
		switch {
		case e.Error != "":
			result = red("error: " + e.Error)
		case e.Changed && e.Check:
			result = green("would change")
		case e.Changed:
			result = green("changed")
		}
		if e.Output != "" && e.Error == "" {
			result += " " + faint(e.Output)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Time.Local().Format("2006-01-02 15:04:05"),
			e.Kind, e.Application, e.Name, e.State, result,
		)
	}
	return tw.Flush()
}
