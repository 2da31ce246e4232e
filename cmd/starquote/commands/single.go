package commands

import (
	"context"
	"fmt"
	"starquote/internal/components/serviceutil"
	"starquote/internal/quote"

	"github.com/spf13/cobra"
)

var (
	singleDob *string
	singleOut *string
)

func init() {
	singleDob = singleCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD), defaults to subject.dob of the config.")
	singleOut = singleCmd.Flags().String("out", quote.DefaultSingleFile, "The file to write the report to.")
	rootCmd.AddCommand(singleCmd)
}

func quoteSingle(ctx context.Context, a *app, dob, out string) (quote.Report, error) {
	if dob == "" {
		return nil, fmt.Errorf("no date of birth given, pass --dob or set subject.dob in the config")
	}
	fmt.Fprintf(a.out, "Quoting DOB %s\n", dob)
	return a.execute(ctx, out, func(run *quote.Run) (quote.Report, error) {
		return run.Single(ctx, dob)
	})
}

var singleCmd = &cobra.Command{
	Use:   "single [--dob YYYY-MM-DD] [--out quotes.json]",
	Short: "Fetches the four plan premiums for a single applicant.",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer a.Close()

		dob := *singleDob
		if dob == "" {
			dob = a.cfg.Subject.DOB
		}
		_, err = quoteSingle(cmd.Context(), a, dob, *singleOut)
		if err != nil {
			serviceutil.Fatal("failed to quote", err)
		}
	},
}
