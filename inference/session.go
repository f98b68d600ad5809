// Package inference provides ONNX Runtime integration for token-classification
// (sequence labeling) model inference.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gonum.org/v1/gonum/mat"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// ErrSessionClosed is returned by Infer after Close.
var ErrSessionClosed = errors.New("inference: session is closed")

// Session wraps an ONNX Runtime session for a token classifier with inputs
// input_ids and attention_mask and a logits output of shape
// (batch, sequence_length, num_classes).
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	// Check file exists
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	// Names follow the HuggingFace token-classification export.
	inputNames := []string{"input_ids", "attention_mask"}
	outputNames := []string{"logits"}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the model on one encoded sequence and returns its per-token
// class scores as a len(inputIDs) x num_classes matrix.
func (s *Session) Infer(ctx context.Context, inputIDs, attentionMask []int64) (*mat.Dense, error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(inputIDs) == 0 {
		return nil, errors.New("inference: empty input sequence")
	}
	if len(attentionMask) != len(inputIDs) {
		return nil, fmt.Errorf("inference: attention mask length %d, input length %d", len(attentionMask), len(inputIDs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	batchSize := int64(1)
	seqLen := int64(len(inputIDs))

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(batchSize, seqLen), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = inputIDsTensor.Destroy() }()

	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(batchSize, seqLen), attentionMask)
	if err != nil {
		return nil, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = attentionMaskTensor.Destroy() }()

	inputs := []ort.Value{inputIDsTensor, attentionMaskTensor}

	// nil entries are allocated by Run
	outputs := []ort.Value{nil}

	if err := s.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}

	if outputs[0] == nil {
		return nil, errors.New("inference: no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("inference: unexpected output tensor type")
	}

	return logitsMatrix(logitsTensor.GetShape(), logitsTensor.GetData(), int(seqLen))
}

// logitsMatrix copies a (1, seqLen, classes) float32 logits buffer into a
// seqLen x classes matrix.
func logitsMatrix(shape ort.Shape, data []float32, seqLen int) (*mat.Dense, error) {
	if len(shape) != 3 || shape[0] != 1 || int(shape[1]) != seqLen || shape[2] <= 0 {
		return nil, fmt.Errorf("inference: unexpected logits shape %v for sequence length %d", shape, seqLen)
	}
	classes := int(shape[2])
	if len(data) < seqLen*classes {
		return nil, fmt.Errorf("inference: logits has %d values, want %d", len(data), seqLen*classes)
	}

	values := make([]float64, seqLen*classes)
	for i := range values {
		values[i] = float64(data[i])
	}
	return mat.NewDense(seqLen, classes, values), nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
