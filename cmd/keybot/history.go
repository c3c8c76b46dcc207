package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keybot/internal/history"
)

var (
	historyLimit int
	historyPath  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyPath, "history", "", "SQLite history database")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := historyPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.History.Path
	}
	if path == "" {
		return errors.New("no history database configured (set history.path, KEYBOT_HISTORY or --history)")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return outputHistory(cmd, runs)
}

func outputHistory(cmd *cobra.Command, runs []history.Run) error {
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	s := newStyles()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tMETHOD\tEVENTS\tELAPSED\tSCRIPT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.Started.Format(time.DateTime),
			s.status(r.Status),
			s.method.Sprint(r.Method),
			r.Events,
			r.Elapsed().Round(time.Millisecond),
			r.Script,
		)
		if r.Error != "" {
			fmt.Fprintf(w, "\t\t%s\n", s.failed.Sprint(r.Error))
		}
	}
	return w.Flush()
}
