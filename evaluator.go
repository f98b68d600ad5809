package saber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-saber/chunk"
	"github.com/jamesainslie/go-saber/metrics"
)

// EpochEndHook is called by a training loop once per completed epoch.
type EpochEndHook interface {
	OnEpochEnd(ctx context.Context, epoch int, train, valid Batch) error
}

var _ EpochEndHook = (*Evaluator)(nil)

// Evaluator scores a model's entity chunks at the end of every epoch,
// keeps the train and validation history, and writes one report per epoch.
// It is safe for concurrent use; epochs are numbered in the order their
// results are recorded.
type Evaluator struct {
	predictor Predictor
	labels    LabelMap
	outputDir string

	logger     *slog.Logger
	console    io.Writer
	reportMode ReportMode
	jsonReport bool

	mu    sync.Mutex
	train History
	valid History
}

// New creates an Evaluator that reports into outputDir.
// The directory must exist by the time the first epoch ends.
func New(predictor Predictor, labels LabelMap, outputDir string, opts ...Option) (*Evaluator, error) {
	if predictor == nil {
		return nil, errors.New("saber: predictor is required")
	}
	if labels.Len() == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidLabelMap)
	}
	if outputDir == "" {
		return nil, errors.New("saber: output directory is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Evaluator{
		predictor:  predictor,
		labels:     labels,
		outputDir:  outputDir,
		logger:     cfg.logger,
		console:    cfg.console,
		reportMode: cfg.reportMode,
		jsonReport: cfg.jsonReport,
	}, nil
}

// OnEpochEnd evaluates the current model on train and valid, records both
// score tables, prints them, and writes the report for this epoch.
//
// The report is named after the Evaluator's own epoch counter; epoch is
// only used for logging. Any error is returned to the caller. Tables are
// recorded before the report is written, so a failed write still advances
// the counter.
func (e *Evaluator) OnEpochEnd(ctx context.Context, epoch int, train, valid Batch) error {
	var trainScores, validScores metrics.Table

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := e.Score(gctx, train)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		trainScores = t
		return nil
	})
	g.Go(func() error {
		t, err := e.Score(gctx, valid)
		if err != nil {
			return fmt.Errorf("valid: %w", err)
		}
		validScores = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := printTable(e.console, "train", trainScores); err != nil {
		return fmt.Errorf("print train scores: %w", err)
	}
	if err := printTable(e.console, "valid", validScores); err != nil {
		return fmt.Errorf("print valid scores: %w", err)
	}

	e.train.append(trainScores)
	e.valid.append(validScores)
	current := e.valid.Len() - 1

	if current != epoch {
		e.logger.Debug("epoch index differs from evaluator counter",
			"caller_epoch", epoch, "report_epoch", current+1)
	}

	path, err := writeReport(e.outputDir, e.reportMode, &e.valid, current)
	if err != nil {
		return err
	}
	if e.jsonReport {
		if _, err := writeJSONReport(e.outputDir, &e.valid, current); err != nil {
			return err
		}
	}

	e.logger.Info("epoch evaluated",
		"epoch", current+1,
		"valid_macro_f1", validScores.Macro().F1,
		"valid_micro_f1", validScores.Micro().F1,
		"train_micro_f1", trainScores.Micro().F1,
		"report", path)

	return nil
}

// Score predicts on b and returns its score table without recording it.
func (e *Evaluator) Score(ctx context.Context, b Batch) (metrics.Table, error) {
	gold, pred, err := predictIndices(ctx, e.predictor, b)
	if err != nil {
		return nil, err
	}

	goldTags, err := e.labels.Tags(gold)
	if err != nil {
		return nil, fmt.Errorf("gold labels: %w", err)
	}
	predTags, err := e.labels.Tags(pred)
	if err != nil {
		return nil, fmt.Errorf("predicted labels: %w", err)
	}

	return ScoreTags(goldTags, predTags)
}

// ScoreTags chunks gold and predicted tag sequences and scores them.
func ScoreTags(gold, pred []string) (metrics.Table, error) {
	if len(gold) != len(pred) {
		return nil, fmt.Errorf("%w: gold %d, predicted %d", ErrShapeMismatch, len(gold), len(pred))
	}
	return metrics.Evaluate(chunk.Entities(gold), chunk.Entities(pred))
}

// Epoch returns the number of epochs recorded so far.
func (e *Evaluator) Epoch() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.valid.Len()
}

// TrainHistory returns a snapshot of the training score history.
func (e *Evaluator) TrainHistory() History {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.train.clone()
}

// ValidHistory returns a snapshot of the validation score history.
func (e *Evaluator) ValidHistory() History {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.valid.clone()
}

// BestEpochs returns the 1-based epochs with the highest validation macro
// and micro F1, or zeros before the first epoch.
func (e *Evaluator) BestEpochs() (macro, micro int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.valid.Best(metrics.MacroAvg) + 1, e.valid.Best(metrics.MicroAvg) + 1
}
