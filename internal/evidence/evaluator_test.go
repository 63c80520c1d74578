package evidence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"authscript/internal/oracle"
	"authscript/internal/policy"
)

// =============================================================================
// Evaluator Test Suite
// =============================================================================
// Justification for unit tests: the evaluator carries the only concurrency
// coordination in the core (shared limiter, per-criterion isolation, ordering
// under unconstrained completion order). These properties cannot be exercised
// through handler tests with a stubbed service.

type EvaluatorSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func (s *EvaluatorSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeOracle drives the evaluator with scripted per-criterion behavior keyed
// on the criterion description embedded in the prompt.
type fakeOracle struct {
	mu sync.Mutex

	// judge computes the response for one request.
	judge func(req oracle.JudgmentRequest) (string, error)

	inFlight    int64
	maxInFlight int64
}

func (f *fakeOracle) Judge(ctx context.Context, req oracle.JudgmentRequest) (string, error) {
	current := atomic.AddInt64(&f.inFlight, 1)
	defer atomic.AddInt64(&f.inFlight, -1)

	f.mu.Lock()
	if current > f.maxInFlight {
		f.maxInFlight = current
	}
	f.mu.Unlock()

	return f.judge(req)
}

func (f *fakeOracle) observedMax() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func criteria(n int) []policy.Criterion {
	out := make([]policy.Criterion, n)
	for i := range out {
		out[i] = policy.Criterion{
			ID:          fmt.Sprintf("c%d", i),
			Description: fmt.Sprintf("criterion %d", i),
			Weight:      1.0 / float64(n),
		}
	}
	return out
}

// =============================================================================
// Ordering
// =============================================================================

func (s *EvaluatorSuite) TestOutputOrderMatchesCriteriaOrder() {
	// Later criteria answer faster than earlier ones; output order must still
	// follow the input list.
	fake := &fakeOracle{judge: func(req oracle.JudgmentRequest) (string, error) {
		for i := 0; i < 8; i++ {
			if strings.Contains(req.Prompt, fmt.Sprintf("criterion %d", i)) {
				time.Sleep(time.Duration(8-i) * 5 * time.Millisecond)
				return fmt.Sprintf("MET for criterion %d", i), nil
			}
		}
		return "UNCLEAR", nil
	}}

	e := New(fake, NewLimiter(8), s.logger)
	items, err := e.Evaluate(context.Background(), criteria(8), "summary")
	s.Require().NoError(err)
	s.Require().Len(items, 8)
	for i, item := range items {
		s.Equal(fmt.Sprintf("c%d", i), item.CriterionID)
		s.Equal(StatusMet, item.Status)
	}
}

// =============================================================================
// Isolation
// =============================================================================

func (s *EvaluatorSuite) TestOrdinaryFailureIsolatedToOneCriterion() {
	fake := &fakeOracle{judge: func(req oracle.JudgmentRequest) (string, error) {
		if strings.Contains(req.Prompt, "criterion 2") {
			return "", fmt.Errorf("connection reset")
		}
		return "MET, high confidence", nil
	}}

	e := New(fake, NewLimiter(4), s.logger)
	items, err := e.Evaluate(context.Background(), criteria(5), "summary")
	s.Require().NoError(err)
	s.Require().Len(items, 5)

	for i, item := range items {
		if i == 2 {
			s.Equal(StatusUnclear, item.Status)
			s.Zero(item.Confidence)
			s.Contains(item.Evidence, "connection reset")
			continue
		}
		s.Equal(StatusMet, item.Status)
		s.InDelta(0.9, item.Confidence, 1e-9)
	}
}

func (s *EvaluatorSuite) TestEmptyResponseIsNoSignal() {
	fake := &fakeOracle{judge: func(oracle.JudgmentRequest) (string, error) {
		return "", nil
	}}

	e := New(fake, NewLimiter(4), s.logger)
	items, err := e.Evaluate(context.Background(), criteria(1), "summary")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(StatusUnclear, items[0].Status)
	// No-signal confidence, distinct from the medium default.
	s.InDelta(0.5, items[0].Confidence, 1e-9)
	s.Contains(items[0].Evidence, "No response")
}

// =============================================================================
// Rate-limit propagation
// =============================================================================

func (s *EvaluatorSuite) TestRateLimitAbortsBatch() {
	fake := &fakeOracle{judge: func(req oracle.JudgmentRequest) (string, error) {
		if strings.Contains(req.Prompt, "criterion 1") {
			return "", oracle.ErrRateLimited
		}
		return "MET", nil
	}}

	e := New(fake, NewLimiter(4), s.logger)
	items, err := e.Evaluate(context.Background(), criteria(4), "summary")
	s.Require().ErrorIs(err, oracle.ErrRateLimited)
	s.Nil(items)
}

// =============================================================================
// Concurrency bound
// =============================================================================

func (s *EvaluatorSuite) TestInFlightNeverExceedsCap() {
	fake := &fakeOracle{judge: func(oracle.JudgmentRequest) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "MET", nil
	}}

	const limit = 3
	e := New(fake, NewLimiter(limit), s.logger)
	items, err := e.Evaluate(context.Background(), criteria(12), "summary")
	s.Require().NoError(err)
	s.Len(items, 12)
	s.LessOrEqual(fake.observedMax(), int64(limit))
}

func (s *EvaluatorSuite) TestLimiterSharedAcrossEvaluations() {
	fake := &fakeOracle{judge: func(oracle.JudgmentRequest) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "MET", nil
	}}

	const limit = 2
	limiter := NewLimiter(limit)
	e1 := New(fake, limiter, s.logger)
	e2 := New(fake, limiter, s.logger)

	var wg sync.WaitGroup
	for _, e := range []*Evaluator{e1, e2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Evaluate(context.Background(), criteria(6), "summary")
			s.NoError(err)
		}()
	}
	wg.Wait()

	// The cap is process-wide: two concurrent evaluations must still respect it.
	s.LessOrEqual(fake.observedMax(), int64(limit))
}

// =============================================================================
// Cancellation
// =============================================================================

func (s *EvaluatorSuite) TestCancelledContextReturnsError() {
	fake := &fakeOracle{judge: func(oracle.JudgmentRequest) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "MET", nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(fake, NewLimiter(1), s.logger)
	_, err := e.Evaluate(ctx, criteria(3), "summary")
	s.Error(err)
}
