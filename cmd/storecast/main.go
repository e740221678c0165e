package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/storecast/storecast"
	"github.com/storecast/storecast/batch"
	"github.com/storecast/storecast/crossval"
	"github.com/storecast/storecast/dataset"
	"github.com/storecast/storecast/series"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "storecast",
		Short: "Forecast store/item demand and evaluate accuracy with rolling-origin backtests",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "storecast.yaml", "Run config file (YAML)")

	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(backtestCmd())
	rootCmd.AddCommand(batchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func forecastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forecast",
		Short: "Fit one (store, item) series and write the horizon forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tbl, s, err := setup()
			if err != nil {
				return err
			}

			res, err := storecast.Run(&cfg.Pipeline, s)
			if err != nil {
				return err
			}
			slog.Info("forecast complete",
				"store", cfg.Store, "item", cfg.Item,
				"points", len(res.Forecast.T))

			if err := writeOutputs(cfg, s, res); err != nil {
				return err
			}

			summary, err := tbl.Summarize()
			if err != nil {
				return err
			}
			return summary.TablePrint(os.Stdout)
		},
	}
}

func backtestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backtest",
		Short: "Cross-validate one (store, item) series and print per-horizon error metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, s, err := setup()
			if err != nil {
				return err
			}

			p, err := storecast.New(&cfg.Pipeline)
			if err != nil {
				return err
			}
			if err := p.Fit(s); err != nil {
				return err
			}
			res, err := p.Backtest()
			if err != nil {
				return err
			}
			for _, skipped := range res.Skipped {
				slog.Warn("skipped fold", "cutoff", skipped.Cutoff, "error", skipped.Err)
			}

			if cfg.Output.PerformanceJSON != "" {
				if err := writeFile(cfg.Output.PerformanceJSON, func(w io.Writer) error {
					return storecast.WritePerformanceJSON(w, res.Performance)
				}); err != nil {
					return err
				}
			}
			return crossval.TablePrint(os.Stdout, res.Performance)
		},
	}
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run the pipeline over many (store, item) pairs in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			tbl, err := dataset.Load(cfg.Input)
			if err != nil {
				return err
			}

			jobs := cfg.Batch.Jobs
			if len(jobs) == 0 {
				jobs = batch.AllJobs(tbl)
			}
			slog.Info("starting batch", "jobs", len(jobs), "parallelism", cfg.Batch.Parallelism)

			outcomes := batch.Run(context.Background(), tbl, &cfg.Pipeline, jobs, cfg.Batch.Parallelism)
			var failed int
			for _, outcome := range outcomes {
				if outcome.Err != nil {
					failed++
					slog.Error("job failed",
						"store", outcome.Job.Store, "item", outcome.Job.Item,
						"error", outcome.Err)
				}
			}
			slog.Info("batch complete", "succeeded", len(outcomes)-failed, "failed", failed)
			return nil
		},
	}
}

func setup() (*Config, dataset.Table, *series.Series, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	tbl, err := dataset.Load(cfg.Input)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := series.Prepare(tbl, cfg.Store, cfg.Item)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Info("prepared series",
		"store", cfg.Store, "item", cfg.Item,
		"points", s.Len(),
		"start", s.StartTime().Format(dataset.DateLayout),
		"end", s.EndTime().Format(dataset.DateLayout))
	return cfg, tbl, s, nil
}

func writeOutputs(cfg *Config, s *series.Series, res *storecast.RunResult) error {
	if cfg.Output.ForecastJSON != "" {
		if err := writeFile(cfg.Output.ForecastJSON, res.Forecast.WriteJSON); err != nil {
			return err
		}
	}
	if cfg.Output.PerformanceJSON != "" {
		if err := writeFile(cfg.Output.PerformanceJSON, func(w io.Writer) error {
			return storecast.WritePerformanceJSON(w, res.Backtest.Performance)
		}); err != nil {
			return err
		}
	}
	if cfg.Output.ChartHTML != "" {
		if err := writeFile(cfg.Output.ChartHTML, func(w io.Writer) error {
			return storecast.WritePlots(w, s, res)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
