package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	saber "github.com/jamesainslie/go-saber"
)

// ErrModelNotFound indicates the model file does not exist.
var ErrModelNotFound = errors.New("inference: model file not found")

// Option configures a Classifier.
type Option func(*config)

type config struct {
	poolSize int
	padID    int64
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{
		poolSize: runtime.NumCPU(),
		padID:    -1,
		logger:   slog.Default(),
	}
}

// WithPoolSize sets the ONNX session pool size (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithPadID masks out tokens with this id (default: -1, nothing masked).
// Padded positions still get a row of scores.
func WithPadID(id int64) Option {
	return func(c *config) {
		c.padID = id
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Classifier is a token-classification model served from a session pool.
// It implements saber.Predictor and is safe for concurrent use.
type Classifier struct {
	pool   *Pool
	logger *slog.Logger
}

var _ saber.Predictor = (*Classifier)(nil)

// NewClassifier loads the ONNX model at modelPath.
func NewClassifier(modelPath string, opts ...Option) (*Classifier, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	pool, err := NewPool(modelPath, cfg.poolSize)
	if err != nil {
		return nil, err
	}

	pool.padID = cfg.padID

	return &Classifier{pool: pool, logger: cfg.logger}, nil
}

// Predict returns a sequence_length x num_classes score matrix per input.
// Sequences are spread over the session pool; the first error cancels the rest.
func (c *Classifier) Predict(ctx context.Context, inputs [][]int64) ([]*mat.Dense, error) {
	start := time.Now()
	out := make([]*mat.Dense, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.pool.Size())
	for i, ids := range inputs {
		g.Go(func() error {
			m, err := c.pool.Infer(gctx, ids)
			if err != nil {
				return fmt.Errorf("example %d: %w", i, err)
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("predicted batch", "examples", len(inputs), "duration", time.Since(start))
	return out, nil
}

// Close releases all sessions.
func (c *Classifier) Close() error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Close()
}
