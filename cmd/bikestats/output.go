package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bikestats/adapters/charts"
	"bikestats/app"
	"bikestats/domain/rental"
	"bikestats/internal/testkit"

	"github.com/spf13/cobra"
)

// writeFile creates path and removes it again if write fails
func writeFile(path string, write func(f *os.File) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, out, table string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the enriched table as csv, xlsx or parquet, or one summary table as csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if table != "" {
				if out == "" {
					out = table + ".csv"
				}
				if err := writeFile(out, func(f *os.File) error {
					return c.Service.ExportTable(f, table)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s table to %s\n", table, out)
				return nil
			}

			if out == "" {
				out = "bikestats." + format
			}
			if err := writeFile(out, func(f *os.File) error {
				return c.Service.ExportRecords(cmd.Context(), f, format)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d records to %s\n", ds.Len(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", app.FormatCSV, "csv, xlsx or parquet")
	cmd.Flags().StringVar(&out, "out", "", "output file (default bikestats.<format> or <table>.csv)")
	cmd.Flags().StringVar(&table, "table", "", "summary table: summary, correlation, daily, users, hourly or crosstab")
	return cmd
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	var factorName, out string
	cmd := &cobra.Command{
		Use:       "chart <kind>",
		Short:     "Render a chart as PNG",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"histogram", "boxplot", "hourly", "means", "daily"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := charts.ParseKind(args[0])
			if err != nil {
				return err
			}
			factor, err := rental.ParseFactor(factorName)
			if err != nil {
				return err
			}
			if out == "" {
				out = string(kind) + ".png"
			}
			c, _, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return writeFile(out, func(f *os.File) error {
				return c.Service.RenderChart(f, kind, factor)
			})
		},
	}
	cmd.Flags().StringVar(&factorName, "factor", string(rental.FactorSeason), "grouping factor for boxplot and means")
	cmd.Flags().StringVar(&out, "out", "", "output file (default <kind>.png)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		out   string
		hours int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic rental data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := testkit.DefaultRentalConfig()
			config.Hours = hours
			config.Seed = seed
			records := testkit.NewRentalDataGenerator(config).GenerateRecords()

			var err error
			if filepath.Ext(out) == ".xlsx" {
				err = testkit.WriteXLSXFile(out, records)
			} else {
				err = testkit.WriteCSVFile(out, records)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d records to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "data/train.csv", "output file (.csv or .xlsx)")
	cmd.Flags().IntVar(&hours, "hours", 24*365, "hours of data to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}
