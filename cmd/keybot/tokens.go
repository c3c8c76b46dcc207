package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/keybot/internal/script/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens SCRIPT",
	Short: "Print the tokens of a script",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(string(src), path)
	if err != nil {
		return err
	}

	s := newStyles()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, tok := range tokens {
		text := fmt.Sprintf("%q", tok.Text)
		if tok.Kind == lexer.Comment {
			text = s.dim.Sprint(text)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.offset.Sprint(tok.Location), tok.Kind, text)
	}
	return w.Flush()
}
