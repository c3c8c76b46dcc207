package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keybot/internal/config"
	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/interpreter"
)

var (
	runMethod  string
	runBackend string
	runLuaHook string
	runEcho    bool
	runWatch   bool
	runHistory string
)

var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Run a method of a script",
	Long: `Compile SCRIPT and replay one of its methods (main by default) through
the configured dispatch backend. Press Ctrl-C to stop.`,
	Example: `  keybot run jump.bot.lisp
  keybot run --backend log --method idle jump.bot.lisp
  keybot run --backend lua --lua-hook hook.lua jump.bot.lisp
  keybot run --watch --backend terminal jump.bot.lisp`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runMethod, "method", "m", interpreter.MainMethod, "Method to run")
	runCmd.Flags().StringVarP(&runBackend, "backend", "b", "", "Dispatch backend: uinput, log, lua, terminal")
	runCmd.Flags().StringVar(&runLuaHook, "lua-hook", "", "Lua hook script for the lua backend")
	runCmd.Flags().BoolVar(&runEcho, "echo", false, "Also log every dispatched event")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run whenever the script changes")
	runCmd.Flags().StringVar(&runHistory, "history", "", "Record runs in this SQLite database")
}

func runRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	application, err := newApp(cmd, func(cfg *config.Config) error {
		return applyRunFlags(cmd, cfg)
	})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	if runWatch {
		return application.WatchScript(cmd.Context(), args[0], runMethod)
	}

	report, err := application.RunScript(cmd.Context(), args[0], runMethod)
	if err != nil {
		return err
	}

	s := newStyles()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d events in %s %s\n",
		s.status(report.Status()),
		s.method.Sprint(report.Method),
		report.Events,
		report.Elapsed().Round(time.Millisecond),
		s.dim.Sprintf("(run %s)", report.ID),
	)
	return nil
}

// applyRunFlags applies only the flags the user set, so config and
// environment values survive otherwise.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		if err := cfg.Set("dispatch.backend", runBackend); err != nil {
			return err
		}
	}
	if flags.Changed("lua-hook") {
		cfg.Dispatch.LuaHook = runLuaHook
		if !flags.Changed("backend") {
			cfg.Dispatch.Backend = dispatch.BackendLua
		}
	}
	if flags.Changed("echo") {
		cfg.Dispatch.Echo = runEcho
	}
	if flags.Changed("history") {
		cfg.History.Path = runHistory
	}
	return nil
}
