package evidence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"authscript/internal/evidence/metrics"
	"authscript/internal/oracle"
	"authscript/internal/policy"
)

// DefaultMaxConcurrent is the default process-wide cap on in-flight oracle calls.
const DefaultMaxConcurrent = 4

// NewLimiter builds the shared judgment limiter. Construct it once at process
// start and pass it to every Evaluator; the cap applies across all concurrent
// evaluation requests, not per request.
func NewLimiter(maxConcurrent int64) *semaphore.Weighted {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return semaphore.NewWeighted(maxConcurrent)
}

// Evaluator turns a policy's ordered criterion list plus an evidence summary
// into an ordered list of classified evidence items.
type Evaluator struct {
	oracle  oracle.Oracle
	limiter *semaphore.Weighted
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMetrics attaches evaluation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// New constructs an Evaluator sharing the given limiter.
func New(o oracle.Oracle, limiter *semaphore.Weighted, logger *slog.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		oracle:  o,
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate dispatches one judgment per criterion, all awaited concurrently
// under the shared limiter, and returns items in criteria order regardless of
// completion order.
//
// A single criterion's ordinary failure never disturbs its siblings: it
// degrades to an UNCLEAR placeholder item so the returned list always has
// exactly one entry per criterion. The one exception is oracle.ErrRateLimited,
// which aborts the batch and propagates so the caller can back off.
func (e *Evaluator) Evaluate(ctx context.Context, criteria []policy.Criterion, summary string) ([]Item, error) {
	items := make([]Item, len(criteria))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range criteria {
		g.Go(func() error {
			item, err := e.judgeCriterion(gctx, c, summary)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if e.metrics != nil {
		for _, item := range items {
			e.metrics.IncrementOutcome(string(item.Status))
		}
	}
	return items, nil
}

func (e *Evaluator) judgeCriterion(ctx context.Context, c policy.Criterion, summary string) (Item, error) {
	if err := e.limiter.Acquire(ctx, 1); err != nil {
		// Context cancelled or batch aborted while queued for a slot.
		return Item{}, err
	}

	e.metrics.JudgmentStarted()
	start := time.Now()
	text, err := e.oracle.Judge(ctx, buildJudgment(c, summary))
	e.metrics.ObserveJudgmentLatency(time.Since(start))
	e.metrics.JudgmentFinished()
	e.limiter.Release(1)

	if err != nil {
		if errors.Is(err, oracle.ErrRateLimited) {
			return Item{}, err
		}
		// Anything else is an ordinary dispatch failure: isolate it to this
		// criterion so the rest of the batch completes.
		e.logger.WarnContext(ctx, "criterion judgment failed",
			"criterion_id", c.ID,
			"error", err,
		)
		return Item{
			CriterionID: c.ID,
			Status:      StatusUnclear,
			Evidence:    "judgment dispatch failed: " + err.Error(),
			Source:      sourceLabel,
			Confidence:  0.0,
		}, nil
	}

	if text == "" {
		// The oracle reported "no signal" (not configured, timeout, transient
		// API error absorbed by the adapter).
		return Item{
			CriterionID: c.ID,
			Status:      StatusUnclear,
			Evidence:    "No response from reasoning backend",
			Source:      sourceLabel,
			Confidence:  confidenceNoSignal,
		}, nil
	}

	return Item{
		CriterionID: c.ID,
		Status:      classifyStatus(text),
		Evidence:    text,
		Source:      sourceLabel,
		Confidence:  classifyConfidence(text),
	}, nil
}
