package commands

import (
	"context"
	"starquote/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	historyDb  *string
	sendMail   *bool
)

var rootCmd = &cobra.Command{
	Use:   "starquote",
	Short: "starquote fetches health insurance premium quotes for an applicant or a family.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", "starquote.json5", "The config file to read.")
	verbose = flags.BoolP("verbose", "v", false, "Enable verbose logging.")
	historyDb = flags.String("db", "", "Record runs into this sqlite database, overrides the history config.")
	sendMail = flags.Bool("mail", false, "Email the summary of every run when smtp is configured.")
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
