package main

import (
	"context"
	"fmt"
	"os"

	"cvleak/adapters/excel"
	"cvleak/adapters/postgres"
	"cvleak/app"
	"cvleak/domain/eval"
	"cvleak/internal"
	"cvleak/internal/config"
	"cvleak/internal/report"
	"cvleak/internal/web"
	"cvleak/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for local runs; environment variables win.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "cvleak",
		Short: "Demonstrates feature-selection leakage in cross-validation",
		Long: "Generates signal-free synthetic data and evaluates it twice: once with " +
			"feature selection done before cross-validation (leaky) and once with " +
			"selection repeated inside each training fold (honest). The gap between " +
			"the two reported accuracies is the leakage.",
	}

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newExportCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and wires the service with its optional adapters.
func setup(ctx context.Context) (*config.Config, *app.ExperimentService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := internal.DefaultLogger

	var ledger ports.RunLedger
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, nil, err
		}
		ledger = postgres.NewRunRepository(db)
		logger.Info("run ledger enabled")
	}

	service := app.NewExperimentService(logger, ledger, excel.NewExporter(), cfg.Experiment.ParallelFolds)
	return cfg, service, nil
}

func newRunCommand() *cobra.Command {
	var seed int64
	var samples, variables, classes, folds, selected int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run both procedures once and print the comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, service, err := setup(ctx)
			if err != nil {
				return err
			}

			runCfg := app.ConfigFromExperiment(cfg.Experiment)
			applyFlagOverrides(cmd, &runCfg, seed, samples, variables, classes, folds, selected)

			run, err := service.Run(ctx, runCfg)
			if err != nil {
				return err
			}

			fmt.Print(report.Text(run))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (overrides RANDOM_SEED)")
	cmd.Flags().IntVar(&samples, "samples", 0, "sample count (overrides SAMPLE_COUNT)")
	cmd.Flags().IntVar(&variables, "variables", 0, "variable count (overrides VARIABLE_COUNT)")
	cmd.Flags().IntVar(&classes, "classes", 0, "class count (overrides CLASS_COUNT)")
	cmd.Flags().IntVar(&folds, "folds", 0, "fold count (overrides FOLD_COUNT)")
	cmd.Flags().IntVar(&selected, "top", 0, "selected feature count (overrides SELECTED_FEATURE_COUNT)")

	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run one experiment and serve the report over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, service, err := setup(ctx)
			if err != nil {
				return err
			}

			run, err := service.Run(ctx, app.ConfigFromExperiment(cfg.Experiment))
			if err != nil {
				return err
			}

			server := web.NewServer(service, internal.DefaultLogger, run)
			return server.Start(cfg.Server.Port)
		},
	}
}

func newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run one experiment and export it to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, service, err := setup(ctx)
			if err != nil {
				return err
			}

			run, err := service.Run(ctx, app.ConfigFromExperiment(cfg.Experiment))
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = cfg.Export.OutputFile
			}
			if err := service.Export(run, path); err != nil {
				return err
			}

			fmt.Printf("exported run %s to %s\n", run.RunID, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to XLSX_FILE)")
	return cmd
}

// applyFlagOverrides lets explicit flags win over environment defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *eval.RunConfig, seed int64, samples, variables, classes, folds, selected int) {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("samples") {
		cfg.SampleCount = samples
	}
	if cmd.Flags().Changed("variables") {
		cfg.VariableCount = variables
	}
	if cmd.Flags().Changed("classes") {
		cfg.ClassCount = classes
	}
	if cmd.Flags().Changed("folds") {
		cfg.FoldCount = folds
	}
	if cmd.Flags().Changed("top") {
		cfg.SelectedFeatureCount = selected
	}
}
