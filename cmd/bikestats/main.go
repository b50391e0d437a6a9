package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bikestats/internal/config"
	"bikestats/internal/container"
	"bikestats/internal/session"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	dataFile   string
	alpha      float64
	sortByTime bool
}

func main() {
	// A missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "bikestats",
		Short:         "Derive, summarise and test hourly bike rental data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "rental data file (.csv or .xlsx); overrides DATA_FILE")
	rootCmd.PersistentFlags().Float64Var(&opts.alpha, "alpha", 0, "significance level; overrides ALPHA")
	rootCmd.PersistentFlags().BoolVar(&opts.sortByTime, "sort", false, "sort records by timestamp after loading")

	rootCmd.AddCommand(
		newDeriveCmd(opts),
		newTestCmd(opts),
		newDescribeCmd(opts),
		newExportCmd(opts),
		newChartCmd(opts),
		newServeCmd(opts),
		newSeedCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration and applies command-line overrides
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dataFile != "" {
		cfg.Data.File = opts.dataFile
	}
	if opts.alpha != 0 {
		cfg.Analysis.Alpha = opts.alpha
	}
	if opts.sortByTime {
		cfg.Data.SortByTime = true
	}
	return cfg, nil
}

// setup builds the container and loads the dataset
func setup(ctx context.Context, opts *rootOptions) (*container.Container, *session.Dataset, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	ds, err := c.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, ds, nil
}
