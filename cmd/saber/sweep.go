package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	saber "github.com/jamesainslie/go-saber"
	"github.com/jamesainslie/go-saber/inference"
	"github.com/jamesainslie/go-saber/internal/bench"
	"github.com/jamesainslie/go-saber/internal/config"
)

func (c *cli) newSweepCommand() *cobra.Command {
	var configPath string
	var wp, wr float64

	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Evaluate model checkpoints as successive epochs",
		Example: `  saber sweep -c saber.yaml --wp 1 --wr 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c.setupLogging(cfg.Level())
			logger := slog.Default()

			labels, err := saber.LoadLabelMap(cfg.Labels)
			if err != nil {
				return err
			}
			train, err := bench.LoadExamples(cfg.Data.Train, cfg.Data.Limit)
			if err != nil {
				return err
			}
			valid, err := bench.LoadExamples(cfg.Data.Valid, cfg.Data.Limit)
			if err != nil {
				return err
			}
			logger.Info("Loaded data", "labels", labels.Len(), "train", len(train.Inputs), "valid", len(valid.Inputs))

			mode, _ := saber.ParseReportMode(cfg.ReportMode) // checked by config.Validate
			run, err := bench.Sweep(cmd.Context(), cfg.Checkpoints, bench.SweepConfig{
				Labels:    labels,
				Train:     train,
				Valid:     valid,
				OutputDir: cfg.OutputDir,
				Load:      bench.ClassifierLoader(inferenceOptions(cfg, logger)...),
				Options: []saber.Option{
					saber.WithConsole(cmd.OutOrStdout()),
					saber.WithReportMode(mode),
					saber.WithJSONReport(cfg.JSONReport),
				},
				Logger:          logger,
				PrecisionWeight: wp,
				RecallWeight:    wr,
			})
			if err != nil {
				return err
			}

			printRanking(cmd.OutOrStdout(), run, wp, wr)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "saber.yaml", "Path to sweep config")
	cmd.Flags().Float64Var(&wp, "wp", 0, "Precision weight for ranking (0 with --wr 0 ranks by F1)")
	cmd.Flags().Float64Var(&wr, "wr", 0, "Recall weight for ranking")
	return cmd
}

func inferenceOptions(cfg config.Config, logger *slog.Logger) []inference.Option {
	opts := []inference.Option{inference.WithLogger(logger)}
	if cfg.Inference.PoolSize > 0 {
		opts = append(opts, inference.WithPoolSize(cfg.Inference.PoolSize))
	}
	if cfg.Inference.PadID != nil {
		opts = append(opts, inference.WithPadID(*cfg.Inference.PadID))
	}
	return opts
}

func printRanking(w io.Writer, run *bench.Run, wp, wr float64) {
	fmt.Fprintf(w, "Checkpoint Ranking (wp=%.1f, wr=%.1f)\n", wp, wr)
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "%-5s %-32s %-9s %-9s %-9s\n", "Epoch", "Checkpoint", "MacroF1", "MicroF1", "Weighted")
	for _, r := range run.Ranked() {
		fmt.Fprintf(w, "%-5d %-32s %-9.4f %-9.4f %-9.4f\n",
			r.Epoch, trimPath(r.Checkpoint, 32), r.Macro.F1, r.Micro.F1, r.WeightedScore)
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "Best macro epoch: %d  Best micro epoch: %d\n", run.BestMacro, run.BestMicro)
	fmt.Fprintf(w, "Reports: %s\n", run.Dir)
}

// trimPath keeps the tail of long paths.
func trimPath(p string, width int) string {
	if len(p) <= width {
		return p
	}
	return "..." + p[len(p)-width+3:]
}
