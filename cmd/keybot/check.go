package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keybot/internal/interpreter"
	"github.com/dshills/keybot/internal/timeline"
)

var (
	checkMethod string
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check SCRIPT",
	Short: "Compile a script and show its schedule without dispatching",
	Long: `Compile SCRIPT and report its methods. With --method, print the schedule
that method would produce. The yaml and json formats write a schedule document
that "keybot replay" accepts.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkMethod, "method", "m", "", "Show the schedule of this method")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "Output format: text, yaml, json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in := interpreter.New(nil, interpreter.WithCompileOptions(cfg.Compiler.Options()))
	if err := in.Load(args[0]); err != nil {
		return err
	}

	if checkFormat == "text" {
		return outputCheckText(cmd, in)
	}

	format, err := timeline.ParseFormat(checkFormat)
	if err != nil {
		return err
	}
	method := checkMethod
	if method == "" {
		method = interpreter.MainMethod
	}
	entries, err := in.Schedule(method)
	if err != nil {
		return err
	}
	return timeline.Export(cmd.OutOrStdout(), method, entries, format)
}

func outputCheckText(cmd *cobra.Command, in *interpreter.Interpreter) error {
	out := cmd.OutOrStdout()
	s := newStyles()

	if checkMethod == "" {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tEVENTS\tDURATION")
		for _, name := range in.Environment().Methods() {
			entries, err := in.Schedule(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", s.method.Sprint(name), len(entries), total(entries))
		}
		return w.Flush()
	}

	entries, err := in.Schedule(checkMethod)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d events over %s\n", s.method.Sprint(checkMethod), len(entries), total(entries))
	var at time.Duration
	for _, e := range entries {
		at += e.Gap
		fmt.Fprintf(out, "  %s %s %s\n", s.offset.Sprintf("%10s", at), s.key.Sprint(e.Key), e.Toggle)
	}
	return nil
}

func total(entries []timeline.Entry) time.Duration {
	var d time.Duration
	for _, e := range entries {
		d += e.Gap
	}
	return d
}
