package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"bikestats/adapters/export"
	"bikestats/domain/rental"
	"bikestats/internal/hypothesis"

	"github.com/spf13/cobra"
)

func newDeriveCmd(opts *rootOptions) *cobra.Command {
	var (
		head int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Load and enrich the data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Derived %d records from %s\n", ds.Len(), ds.Source)

			if out != "" {
				return writeFile(out, func(f *os.File) error {
					return export.WriteCSV(f, export.RecordsTable(ds.Records))
				})
			}
			if head > 0 {
				rows := ds.Records[:min(head, ds.Len())]
				return export.WriteCSV(cmd.OutOrStdout(), export.RecordsTable(rows))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&head, "head", 5, "print the first n enriched records as CSV")
	cmd.Flags().StringVar(&out, "out", "", "write the enriched table to this CSV file")
	return cmd
}

func newTestCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "test [name...]",
		Short: "Run hypothesis tests",
		Long:  "Run the named tests, or every test with --all or no names. Tests: " + strings.Join(hypothesis.PresetNames(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			names := args
			if all {
				names = nil
			}
			results, err := c.Service.RunAll(cmd.Context(), nil, names...)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), hypothesis.Report(results))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "run every test")
	return cmd
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var measures []string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print summary statistics of the numeric columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			var selected []rental.Measure
			for _, name := range measures {
				m, err := rental.ParseMeasure(name)
				if err != nil {
					return err
				}
				selected = append(selected, m)
			}
			rows, err := c.Service.Describe(selected...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "measure\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
					r.Measure, r.Count, r.Mean, r.Std, r.Min, r.Q25, r.Median, r.Q75, r.Max)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&measures, "measures", nil, "measures to describe (default all)")
	return cmd
}
