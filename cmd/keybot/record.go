package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/keybot/internal/input/macro"
	"github.com/dshills/keybot/internal/interpreter"
)

var recordMethod string

var recordCmd = &cobra.Command{
	Use:   "record OUTPUT",
	Short: "Record key presses from the terminal into a script",
	Long: `Capture key presses typed into the terminal, with their timing, and write
them to OUTPUT as a script. Press Escape or Ctrl+C to stop recording.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordMethod, "method", "m", interpreter.MainMethod, "Name of the recorded method")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := args[0]
	if !strings.HasSuffix(path, interpreter.FileExtension) {
		return fmt.Errorf("%w: %s (expected extension %s)", interpreter.ErrInvalidFile, path, interpreter.FileExtension)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	rec := macro.NewRecorder()
	err = macro.Capture(cmd.Context(), screen, rec)
	screen.Fini()
	if err != nil {
		return err
	}

	presses := rec.Presses()
	err = macro.Save(path, presses, macro.FormatOptions{
		Method:  recordMethod,
		TapHold: cfg.Compiler.TapHold.Std(),
		Start:   rec.Started(),
		Comment: "recorded " + rec.Started().Format(time.DateTime),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d presses to %s\n", newStyles().status("ok"), len(presses), path)
	return nil
}
