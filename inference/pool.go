package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ErrPoolClosed is returned once the pool has been closed.
var ErrPoolClosed = errors.New("inference: pool is closed")

// Pool holds a fixed set of ONNX sessions of one checkpoint and classifies
// sequences on whichever session is free.
type Pool struct {
	sessions chan *Session
	size     int
	padID    int64

	mu     sync.Mutex
	closed bool
}

// NewPool opens size sessions of the model at modelPath. Sizes below 1
// open a single session. No token is treated as padding.
func NewPool(modelPath string, size int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	sessions := make([]*Session, 0, size)
	for i := 0; i < size; i++ {
		session, err := NewSession(modelPath)
		if err != nil {
			for _, s := range sessions {
				_ = s.Close() // Best-effort cleanup; open error takes precedence
			}
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		sessions = append(sessions, session)
	}

	return newPool(sessions, -1), nil
}

func newPool(sessions []*Session, padID int64) *Pool {
	p := &Pool{
		sessions: make(chan *Session, len(sessions)),
		size:     len(sessions),
		padID:    padID,
	}
	for _, s := range sessions {
		p.sessions <- s
	}
	return p
}

// Acquire takes a free session, blocking until one is released or ctx ends.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case session, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release hands a session back. Sessions released after Close, or beyond
// the pool size, are closed instead.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		select {
		case p.sessions <- s:
			return
		default:
		}
	}
	_ = s.Close() // Not returned to the pool; nothing else owns it
}

// Infer classifies one encoded sequence and returns its
// len(inputIDs) x num_classes logits. Tokens equal to the pool's pad id
// are masked out but still get a row.
func (p *Pool) Infer(ctx context.Context, inputIDs []int64) (*mat.Dense, error) {
	session, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(session)

	return session.Infer(ctx, inputIDs, attentionMask(inputIDs, p.padID))
}

// Close closes every idle session. Sessions still checked out are closed
// when released.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sessions)
	p.mu.Unlock()

	var errs []error
	for session := range p.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Size returns the number of sessions the pool was opened with.
func (p *Pool) Size() int {
	return p.size
}

func attentionMask(ids []int64, padID int64) []int64 {
	mask := make([]int64, len(ids))
	for i, id := range ids {
		if id != padID {
			mask[i] = 1
		}
	}
	return mask
}
