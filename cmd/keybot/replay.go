package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keybot/internal/config"
)

var replayBackend string

var replayCmd = &cobra.Command{
	Use:   "replay SCHEDULE",
	Short: "Replay a schedule written by check --format yaml|json",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayBackend, "backend", "b", "", "Dispatch backend: uinput, log, lua, terminal")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	application, err := newApp(cmd, func(cfg *config.Config) error {
		if cmd.Flags().Changed("backend") {
			return cfg.Set("dispatch.backend", replayBackend)
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	n, err := application.ReplaySchedule(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d events\n", newStyles().status("ok"), n)
	return nil
}
