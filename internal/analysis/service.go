package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"authscript/internal/analysis/metrics"
	"authscript/internal/audit"
	"authscript/internal/document"
	"authscript/internal/evidence"
	"authscript/internal/oracle"
	"authscript/internal/policy"
	"authscript/internal/scoring"
	dErrors "authscript/pkg/domain-errors"
	"authscript/pkg/requestcontext"
)

// Evaluator judges every policy criterion against the evidence summary.
type Evaluator interface {
	Evaluate(ctx context.Context, criteria []policy.Criterion, summary string) ([]evidence.Item, error)
}

// Auditor records completed analyses. Emission must never block or fail the
// analysis.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

const defaultCacheTTL = time.Hour

// Service runs the full analysis pipeline.
type Service struct {
	registry  *policy.Registry
	evaluator Evaluator
	oracle    oracle.Oracle
	extractor *document.Extractor
	cache     ResultStore
	auditor   Auditor
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	cacheTTL  time.Duration
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCache attaches a result cache.
func WithCache(cache ResultStore) Option {
	return func(s *Service) { s.cache = cache }
}

// WithAuditor attaches an audit sink.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithCacheTTL overrides the default result cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// NewService constructs the analysis service.
func NewService(registry *policy.Registry, evaluator Evaluator, o oracle.Oracle, extractor *document.Extractor, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		registry:  registry,
		evaluator: evaluator,
		oracle:    o,
		extractor: extractor,
		logger:    logger,
		tracer:    otel.Tracer("authscript/analysis"),
		cacheTTL:  defaultCacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Analyze resolves the coverage policy for the requested procedure, evaluates
// every criterion against the clinical evidence, scores the result, and
// returns the populated PA form. A rate-limited reasoning backend aborts the
// analysis with a rate_limited error; every other oracle failure degrades per
// criterion.
func (s *Service) Analyze(ctx context.Context, req Request) (*PAForm, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.Analyze",
		trace.WithAttributes(attribute.String("procedure_code", req.ProcedureCode)),
	)
	defer span.End()

	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	digest := RequestDigest(req)
	if cached := s.cachedResult(ctx, digest); cached != nil {
		s.logger.InfoContext(ctx, "analysis served from cache",
			"request_id", requestID,
			"analysis_id", cached.AnalysisID,
			"procedure_code", req.ProcedureCode,
		)
		return cached, nil
	}

	for _, doc := range req.Documents {
		req.Bundle.DocumentTexts = append(req.Bundle.DocumentTexts, s.extractor.Text(ctx, doc.Name, doc.Data))
	}

	pol := s.registry.Resolve(req.ProcedureCode)
	summary := req.Bundle.Summary()

	evaluateStart := time.Now()
	items, err := s.evaluateCriteria(ctx, pol.Criteria, summary)
	if err != nil {
		if errors.Is(err, oracle.ErrRateLimited) {
			return nil, dErrors.Wrap(dErrors.CodeRateLimited, "reasoning backend rate limited", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "criterion evaluation failed", err)
	}
	s.metrics.ObserveEvaluateLatency(time.Since(evaluateStart))

	result := s.scoreEvidence(ctx, items, pol)

	narrative, err := s.clinicalNarrative(ctx, items, req.Bundle.DiagnosisCodes(), req.ProcedureCode)
	if err != nil {
		if errors.Is(err, oracle.ErrRateLimited) {
			return nil, dErrors.Wrap(dErrors.CodeRateLimited, "reasoning backend rate limited", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "clinical summary generation failed", err)
	}

	form := buildForm(uuid.NewString(), &req.Bundle, pol, items, result, narrative, req.ProcedureCode)

	s.saveResult(ctx, digest, form)
	s.emitAudit(ctx, requestID, req.ProcedureCode, pol, items, result, form.AnalysisID)

	s.metrics.IncrementOutcome(form.Recommendation)
	s.metrics.ObserveAnalysisLatency(time.Since(start))

	s.logger.InfoContext(ctx, "analysis completed",
		"request_id", requestID,
		"analysis_id", form.AnalysisID,
		"procedure_code", req.ProcedureCode,
		"policy_id", pol.ID,
		"score", result.Score,
		"recommendation", form.Recommendation,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return form, nil
}

func (s *Service) evaluateCriteria(ctx context.Context, criteria []policy.Criterion, summary string) ([]evidence.Item, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.Evaluate",
		trace.WithAttributes(attribute.Int("criteria_count", len(criteria))),
	)
	defer span.End()
	return s.evaluator.Evaluate(ctx, criteria, summary)
}

func (s *Service) scoreEvidence(ctx context.Context, items []evidence.Item, pol *policy.Policy) scoring.Result {
	_, span := s.tracer.Start(ctx, "analysis.Score",
		trace.WithAttributes(attribute.String("policy_id", pol.ID)),
	)
	defer span.End()
	return scoring.Score(items, pol)
}

// cachedResult returns the cached form for the digest, absorbing cache
// failures.
func (s *Service) cachedResult(ctx context.Context, digest string) *PAForm {
	if s.cache == nil {
		return nil
	}
	form, err := s.cache.Get(ctx, digest)
	if err != nil {
		s.logger.WarnContext(ctx, "result cache lookup failed", "error", err)
		return nil
	}
	if form == nil {
		s.metrics.CacheMiss()
		return nil
	}
	s.metrics.CacheHit()
	return form
}

func (s *Service) saveResult(ctx context.Context, digest string, form *PAForm) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, digest, form, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "result cache save failed",
			"analysis_id", form.AnalysisID,
			"error", err,
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, requestID, procedureCode string, pol *policy.Policy, items []evidence.Item, result scoring.Result, analysisID string) {
	if s.auditor == nil {
		return
	}
	statuses := make(map[string]string, len(items))
	for _, item := range items {
		statuses[item.CriterionID] = string(item.Status)
	}
	s.auditor.Emit(ctx, audit.Event{
		AnalysisID:        analysisID,
		RequestID:         requestID,
		ProcedureCode:     procedureCode,
		PolicyID:          pol.ID,
		Score:             result.Score,
		Recommendation:    string(result.Recommendation),
		CriterionStatuses: statuses,
	})
}
