package cli

import (
	"fmt"
	"os"

	"github.com/kiliankoe/calculecrit/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	flagLang string
	flagDB   string
)

func NewRootCmd() *cobra.Command {
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "calcul",
		Short: "Practice counting, addition and subtraction with marbles in the terminal",
	}

	cmd.PersistentFlags().StringVar(&flagLang, "lang", cfg.Language, "narration language (fr, en)")
	cmd.PersistentFlags().StringVar(&flagDB, "db", cfg.ResultsDB, "SQLite file finished sessions are archived to")

	cmd.AddCommand(newPlayCmd(cfg))
	cmd.AddCommand(newLevelsCmd())
	cmd.AddCommand(newResultsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "calcul "+Version)
		},
	}
}
