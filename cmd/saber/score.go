package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	saber "github.com/jamesainslie/go-saber"
	"github.com/jamesainslie/go-saber/internal/bench"
)

func (c *cli) newScoreCommand() *cobra.Command {
	var file string
	var raw bool

	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score a CoNLL prediction file",
		Example: `  saber score -f preds.conll`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			sentences, err := bench.LoadConll(file)
			if err != nil {
				return err
			}
			slog.Debug("Loaded predictions", "file", file, "sentences", len(sentences))

			table, err := bench.ScoreSentences(sentences)
			if err != nil {
				return fmt.Errorf("scoring %s: %w", file, err)
			}
			slog.Debug("Scoring completed", "duration", time.Since(start))

			out := cmd.OutOrStdout()
			if raw {
				_, err = fmt.Fprintln(out, table.String())
				return err
			}
			_, err = fmt.Fprintln(out, saber.RenderTable(file, table))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CoNLL file with token, gold and predicted tag columns")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the table in report format")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
