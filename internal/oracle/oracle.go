// Package oracle abstracts the external reasoning backend that judges whether
// clinical evidence satisfies a policy criterion. The core is written against
// this interface and stays provider-agnostic.
package oracle

import (
	"context"
	"fmt"

	"authscript/pkg/platform/sentinel"
)

//go:generate mockgen -source=oracle.go -destination=mocks/mocks.go -package=mocks Oracle

// ErrRateLimited is returned when the backend signals resource exhaustion.
// This is the only failure class callers must propagate instead of absorbing:
// degrading throttled judgments to UNCLEAR would corrupt aggregate scores en
// masse without indicating the underlying cause.
var ErrRateLimited = fmt.Errorf("oracle: %w", sentinel.ErrRateLimited)

// JudgmentRequest is a single completion request for one criterion judgment.
type JudgmentRequest struct {
	// System is the fixed role instruction.
	System string
	// Prompt carries the criterion description plus the evidence summary.
	Prompt string
	// Temperature should stay low for short structured answers.
	Temperature float32
	// MaxTokens bounds the answer length.
	MaxTokens int
}

// Oracle produces a free-text judgment for a single request.
//
// Contract: ordinary failures (timeouts, malformed responses, transient API
// errors) return ("", nil) so the caller treats them as "no signal". Only the
// distinguished rate-limit condition returns a non-nil error, wrapping
// ErrRateLimited. Implementations must bound each call with their own timeout.
type Oracle interface {
	Judge(ctx context.Context, req JudgmentRequest) (string, error)
}
