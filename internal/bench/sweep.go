package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	saber "github.com/jamesainslie/go-saber"
	"github.com/jamesainslie/go-saber/inference"
	"github.com/jamesainslie/go-saber/metrics"
)

// Model is a loaded checkpoint.
type Model interface {
	saber.Predictor
	io.Closer
}

// Loader opens a checkpoint.
type Loader func(checkpoint string) (Model, error)

// ClassifierLoader opens checkpoints as ONNX classifiers.
func ClassifierLoader(opts ...inference.Option) Loader {
	return func(checkpoint string) (Model, error) {
		return inference.NewClassifier(checkpoint, opts...)
	}
}

// SweepConfig holds the fixed inputs of a checkpoint sweep.
type SweepConfig struct {
	Labels    saber.LabelMap
	Train     saber.Batch
	Valid     saber.Batch
	OutputDir string
	Load      Loader
	Options   []saber.Option
	Logger    *slog.Logger

	// Weights rank checkpoints by (wp*P + wr*R) / (wp + wr) of the
	// validation micro average. Zero weights rank by micro F1.
	PrecisionWeight float64
	RecallWeight    float64
}

// SweepResult holds validation scores for one checkpoint.
type SweepResult struct {
	Checkpoint    string
	Epoch         int // 1-based
	Macro         metrics.Score
	Micro         metrics.Score
	WeightedScore float64
	Duration      time.Duration
}

// Run is a completed sweep.
type Run struct {
	ID        string
	Dir       string
	Results   []SweepResult // in checkpoint order
	BestMacro int           // 1-based epoch
	BestMicro int           // 1-based epoch
}

// Ranked returns the results sorted by weighted score, best first.
func (r *Run) Ranked() []SweepResult {
	ranked := append([]SweepResult(nil), r.Results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedScore > ranked[j].WeightedScore
	})
	return ranked
}

// Sweep evaluates each checkpoint as a successive epoch. Reports go to a
// fresh run directory under cfg.OutputDir.
func Sweep(ctx context.Context, checkpoints []string, cfg SweepConfig) (*Run, error) {
	if len(checkpoints) == 0 {
		return nil, errors.New("bench: no checkpoints to sweep")
	}
	if cfg.Load == nil {
		cfg.Load = ClassifierLoader()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	dir := filepath.Join(cfg.OutputDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	current := &checkpointPredictor{}
	opts := append([]saber.Option{saber.WithLogger(logger)}, cfg.Options...)
	ev, err := saber.New(current, cfg.Labels, dir, opts...)
	if err != nil {
		return nil, err
	}

	run := &Run{ID: id, Dir: dir}
	logger.Info("sweep started", "run", id, "checkpoints", len(checkpoints), "dir", dir)

	for i, checkpoint := range checkpoints {
		start := time.Now()

		model, err := cfg.Load(checkpoint)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", checkpoint, err)
		}
		current.set(model)

		err = ev.OnEpochEnd(ctx, i, cfg.Train, cfg.Valid)
		current.set(nil)
		if closeErr := model.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", checkpoint, closeErr))
		}
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", checkpoint, err)
		}

		valid := ev.ValidHistory()
		table := valid.At(valid.Len() - 1)
		result := SweepResult{
			Checkpoint: checkpoint,
			Epoch:      valid.Len(),
			Macro:      table.Macro(),
			Micro:      table.Micro(),
			Duration:   time.Since(start),
		}
		result.WeightedScore = weightedScore(result.Micro, cfg.PrecisionWeight, cfg.RecallWeight)
		run.Results = append(run.Results, result)
	}

	run.BestMacro, run.BestMicro = ev.BestEpochs()
	logger.Info("sweep finished", "run", id, "best_macro_epoch", run.BestMacro, "best_micro_epoch", run.BestMicro)

	return run, nil
}

func weightedScore(s metrics.Score, wp, wr float64) float64 {
	if wp+wr <= 0 {
		return s.F1
	}
	return (wp*s.Precision + wr*s.Recall) / (wp + wr)
}

// checkpointPredictor forwards to the checkpoint being evaluated.
type checkpointPredictor struct {
	mu      sync.RWMutex
	current saber.Predictor
}

func (c *checkpointPredictor) set(p saber.Predictor) {
	c.mu.Lock()
	c.current = p
	c.mu.Unlock()
}

func (c *checkpointPredictor) Predict(ctx context.Context, inputs [][]int64) ([]*mat.Dense, error) {
	c.mu.RLock()
	p := c.current
	c.mu.RUnlock()
	if p == nil {
		return nil, errors.New("bench: no checkpoint loaded")
	}
	return p.Predict(ctx, inputs)
}
