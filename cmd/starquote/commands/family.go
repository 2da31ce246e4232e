package commands

import (
	"context"
	"fmt"
	"starquote/internal/components/serviceutil"
	"starquote/internal/quote"

	"github.com/spf13/cobra"
)

var (
	familyMembers *[]string
	familyOut     *string
)

func init() {
	familyMembers = familyCmd.Flags().StringArrayP(
		"member", "m", nil,
		"A family member as Name:YYYY-MM-DD[:role], repeat for every member. Defaults to the family of the config.",
	)
	familyOut = familyCmd.Flags().String("out", quote.DefaultFamilyFile, "The file to write the report to.")
	rootCmd.AddCommand(familyCmd)
}

func parseMembers(specs []string) ([]quote.Person, error) {
	people := make([]quote.Person, len(specs))
	for i, spec := range specs {
		person, err := quote.ParseMember(spec)
		if err != nil {
			return nil, err
		}
		people[i] = person
	}
	return people, nil
}

func quoteFamily(ctx context.Context, a *app, people []quote.Person, out string) (quote.Report, error) {
	fmt.Fprintf(a.out, "Quoting family %s\n", quote.FamilyLabel(people))
	return a.execute(ctx, out, func(run *quote.Run) (quote.Report, error) {
		return run.Family(ctx, people)
	})
}

var familyCmd = &cobra.Command{
	Use:   "family [--member Name:YYYY-MM-DD:role]... [--out family_quotes.json]",
	Short: "Fetches the four plan premiums for a family, quoted at the age of its eldest adult.",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer a.Close()

		var people []quote.Person
		if len(*familyMembers) > 0 {
			people, err = parseMembers(*familyMembers)
		} else {
			people, err = a.cfg.People()
		}
		if err != nil {
			serviceutil.Fatal("invalid family member", err)
		}

		_, err = quoteFamily(cmd.Context(), a, people, *familyOut)
		if err != nil {
			serviceutil.Fatal("failed to quote", err)
		}
	},
}
