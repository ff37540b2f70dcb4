package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/kiliankoe/calculecrit/internal/game"
	"github.com/kiliankoe/calculecrit/internal/store"
	"github.com/spf13/cobra"
)

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List modules and levels",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LEVEL\tMODULE\tMARBLES\tSUBTRACTION\tDIAGRAM")
			for _, l := range game.Levels() {
				fmt.Fprintf(w, "%d\t%d\t%d-%d\t%s\t%s\n", l.ID, l.Module, l.Min, l.Max, yesNo(l.AllowsSubtract), yesNo(l.UsesDiagram))
			}
			w.Flush()
		},
	}
}

func newResultsCmd() *cobra.Command {
	var (
		level int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show archived sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagDB == "" {
				return fmt.Errorf("no results database: set --db or RESULTS_DB")
			}
			db, err := store.NewSQLite(flagDB)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := db.Recent(cmd.Context(), level, limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No finished sessions yet.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FINISHED\tCODE\tLEVEL\tSCORE\tPOINTS\tBEST STREAK")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d\t%d\n",
					r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Code, r.Level,
					r.Score, r.TotalQuestions, r.Points, r.BestStreak)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&level, "level", 0, "only show this level")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of sessions")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
