package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/casegen/internal/dataset"
	"github.com/lacquerai/casegen/internal/execcontext"
	"github.com/lacquerai/casegen/internal/style"
)

const barWidth = 30

var summaryCmd = &cobra.Command{
	Use:   "summary [--data PATH | file]",
	Short: "Summarize a generated dataset",
	Long: `Print the dashboard's summary cards (total, male, female, top region) for a
dataset, followed by counts per year, region, sex, age group, mode of
transmission and risk category.`,
	Example: `
  casegen summary                       # datasets/data.csv
  casegen summary --data /tmp/cases.csv
  casegen summary /tmp/cases.csv
  casegen summary --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := execcontext.New(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		path := viper.GetString("summary.data")
		if len(args) == 1 {
			path = args[0]
		}
		return runSummary(rc, path)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().String("data", DefaultOutputPath, "dataset CSV to summarize")
	_ = viper.BindPFlag("summary.data", summaryCmd.Flags().Lookup("data"))
}

func runSummary(rc execcontext.RunContext, path string) error {
	table, err := dataset.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	s := dataset.Summarize(table)

	rc.Logger().Debug().Str("path", path).Int("rows", s.Total).Msg("Summarized dataset")

	return render(rc.StdOut, s, func(w io.Writer) {
		printSummary(w, path, s)
	})
}

func printSummary(w io.Writer, path string, s dataset.Summary) {
	top := "-"
	if s.TopRegion != nil {
		top = fmt.Sprintf("%s (%d)", s.TopRegion.Value, s.TopRegion.Count)
	}

	fmt.Fprintln(w, style.FormatFilePath(path))
	fmt.Fprintln(w, style.RenderCards([]style.Card{
		{Title: "Total Cases", Value: fmt.Sprint(s.Total)},
		{Title: "Male", Value: fmt.Sprint(s.Male)},
		{Title: "Female", Value: fmt.Sprint(s.Female)},
		{Title: "Top Region", Value: top},
	}))

	if viper.GetBool("quiet") {
		return
	}

	sections := []struct {
		title  string
		counts []dataset.Count
	}{
		{"By year", s.ByYear},
		{"By region", s.ByRegion},
		{"By sex", s.BySex},
		{"By age group", s.ByAgeGroup},
		{"By mode of transmission", s.ByMode},
		{"By risk category", s.ByRisk},
	}
	for _, sec := range sections {
		bars := make([]style.Bar, len(sec.counts))
		for i, c := range sec.counts {
			bars[i] = style.Bar{Label: c.Value, Count: c.Count}
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, style.RenderBreakdown(sec.title, bars, s.Total, barWidth))
	}
}
