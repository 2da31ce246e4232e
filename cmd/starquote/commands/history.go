package commands

import (
	"fmt"
	"starquote/internal/components/serviceutil"

	"github.com/spf13/cobra"
)

var historyLimit *int

func init() {
	historyLimit = historyCmd.Flags().IntP("limit", "n", 20, "The number of runs to list.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--limit N]",
	Short: "Lists the most recent recorded runs.",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer a.Close()

		if a.store == nil {
			serviceutil.Fatal("history is not enabled", fmt.Errorf("pass --db or set history in the config"))
		}
		runs, err := a.store.List(cmd.Context(), *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(a.out, "No runs recorded yet.")
			return
		}
		renderHistory(a.out, runs)
	},
}
