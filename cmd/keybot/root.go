package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/keybot/internal/app"
	"github.com/dshills/keybot/internal/config"
)

var (
	configPath string
	logLevel   string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "keybot",
	Short: "keybot - timed keyboard macro runner",
	Long: `keybot compiles .bot.lisp scripts describing timed key presses into a
schedule and replays it through a virtual keyboard.

A script is a list of methods:

  ; hop right
  def main
    down right
    tap space 100 50ms
    up right 1s
  end`,
	SilenceErrors:     true,
	PersistentPreRunE: setupColor,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: $XDG_CONFIG_HOME/keybot/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupColor(cmd *cobra.Command, args []string) error {
	color.NoColor = noColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))
	return nil
}

// loadConfig loads the configuration the same way the application does,
// for commands that do not need a dispatch backend.
func loadConfig() (*config.Config, error) {
	path := configPath
	required := path != ""
	if !required {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(config.Options{Path: path, Required: required})
	if err != nil {
		return nil, err
	}
	if err := applyGlobalFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyGlobalFlags(cfg *config.Config) error {
	if logLevel != "" {
		return cfg.Set("logging.level", logLevel)
	}
	return nil
}

// newApp creates the application with global flags applied after the
// config file and environment, followed by configure.
func newApp(cmd *cobra.Command, configure func(*config.Config) error) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath: configPath,
		LogOutput:  cmd.ErrOrStderr(),
		Configure: func(cfg *config.Config) error {
			if err := applyGlobalFlags(cfg); err != nil {
				return err
			}
			if configure != nil {
				return configure(cfg)
			}
			return nil
		},
	})
}
