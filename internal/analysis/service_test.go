package analysis_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"authscript/internal/analysis"
	"authscript/internal/analysis/store"
	"authscript/internal/audit"
	"authscript/internal/bundle"
	"authscript/internal/document"
	"authscript/internal/evidence"
	"authscript/internal/oracle"
	"authscript/internal/oracle/mocks"
	"authscript/internal/policy"
	dErrors "authscript/pkg/domain-errors"
)

// ServiceSuite tests the analysis orchestration end to end against a mocked
// reasoning oracle.
type ServiceSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	oracle   *mocks.MockOracle
	registry *policy.Registry
	auditor  *audit.Service
	cache    *store.InMemoryStore
	service  *analysis.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.oracle = mocks.NewMockOracle(s.ctrl)
	s.registry = policy.NewRegistry()
	s.Require().NoError(policy.RegisterSeeds(s.registry))
	s.auditor = audit.NewService(slog.Default())
	s.cache = store.NewInMemoryStore()

	evaluator := evidence.New(s.oracle, evidence.NewLimiter(4), slog.Default())
	s.service = analysis.NewService(
		s.registry,
		evaluator,
		s.oracle,
		document.NewExtractor(slog.Default()),
		slog.Default(),
		analysis.WithCache(s.cache),
		analysis.WithAuditor(s.auditor),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) request() analysis.Request {
	return analysis.Request{
		PatientID:     "pat-1",
		ProcedureCode: "72148",
		Bundle: bundle.ClinicalBundle{
			PatientID: "pat-1",
			Patient:   &bundle.Patient{Name: "Jane Doe", BirthDate: "1970-04-02", MemberID: "MBR-9"},
			Conditions: []bundle.Condition{
				{Code: "M54.16", Display: "Radiculopathy, lumbar region"},
			},
		},
	}
}

// expectJudgments answers every criterion judgment with the given text and
// the narrative call with a fixed summary.
func (s *ServiceSuite) expectJudgments(criteria int, answer string) {
	s.oracle.EXPECT().
		Judge(gomock.Any(), gomock.Any()).
		Return(answer, nil).
		Times(criteria)
	s.oracle.EXPECT().
		Judge(gomock.Any(), gomock.Any()).
		Return("Patient meets coverage requirements.", nil)
}

// ============================================================
// Happy path
// ============================================================

func (s *ServiceSuite) TestAnalyzeAllCriteriaMet() {
	pol := s.registry.Resolve("72148")
	s.expectJudgments(len(pol.Criteria), "MET. HIGH CONFIDENCE: documented evidence found.")

	form, err := s.service.Analyze(context.Background(), s.request())
	s.Require().NoError(err)

	s.Equal("APPROVE", form.Recommendation)
	s.InDelta(0.9, form.ConfidenceScore, 0.1)
	s.Len(form.SupportingEvidence, len(pol.Criteria))
	s.Equal("Jane Doe", form.PatientName)
	s.Equal("1970-04-02", form.PatientDOB)
	s.Equal("MBR-9", form.MemberID)
	s.Equal([]string{"M54.16"}, form.DiagnosisCodes)
	s.Equal(pol.ID, form.PolicyID)
	s.Equal("Patient meets coverage requirements.", form.ClinicalSummary)
	s.NotEmpty(form.AnalysisID)
	s.Equal(form.ClinicalSummary, form.FieldMappings["ClinicalJustification"])
}

func (s *ServiceSuite) TestAnalyzeUnknownProcedureUsesGenericPolicy() {
	s.expectJudgments(3, "UNCLEAR, no documentation found.")

	form, err := s.service.Analyze(context.Background(), analysis.Request{
		PatientID:     "pat-1",
		ProcedureCode: "99999",
		Bundle:        bundle.ClinicalBundle{PatientID: "pat-1"},
	})
	s.Require().NoError(err)

	s.Equal("generic-99999", form.PolicyID)
	s.Equal("NEED_INFO", form.Recommendation)
}

// ============================================================
// Oracle degradation
// ============================================================

func (s *ServiceSuite) TestAnalyzeNarrativeSilenceDegrades() {
	pol := s.registry.Resolve("72148")
	s.oracle.EXPECT().
		Judge(gomock.Any(), gomock.Any()).
		Return("MET", nil).
		Times(len(pol.Criteria))
	s.oracle.EXPECT().
		Judge(gomock.Any(), gomock.Any()).
		Return("", nil)

	form, err := s.service.Analyze(context.Background(), s.request())
	s.Require().NoError(err)
	s.Equal("Clinical summary generation pending.", form.ClinicalSummary)
}

func (s *ServiceSuite) TestAnalyzeRateLimitPropagates() {
	s.oracle.EXPECT().
		Judge(gomock.Any(), gomock.Any()).
		Return("", oracle.ErrRateLimited).
		MinTimes(1)
	s.oracle.EXPECT().
		Judge(gomock.Any(), gomock.Any()).
		Return("MET", nil).
		AnyTimes()

	_, err := s.service.Analyze(context.Background(), s.request())
	s.Require().Error(err)
	s.Equal(dErrors.CodeRateLimited, dErrors.CodeOf(err))
	s.ErrorIs(err, oracle.ErrRateLimited)
}

// ============================================================
// Cache and audit
// ============================================================

func (s *ServiceSuite) TestAnalyzeSecondCallServedFromCache() {
	pol := s.registry.Resolve("72148")
	s.expectJudgments(len(pol.Criteria), "MET")

	first, err := s.service.Analyze(context.Background(), s.request())
	s.Require().NoError(err)

	// No further oracle expectations: a repeat request must not judge again.
	second, err := s.service.Analyze(context.Background(), s.request())
	s.Require().NoError(err)
	s.Equal(first.AnalysisID, second.AnalysisID)
}

func (s *ServiceSuite) TestAnalyzeEmitsAuditEvent() {
	pol := s.registry.Resolve("72148")
	s.expectJudgments(len(pol.Criteria), "MET")

	sink := audit.NewInMemoryStore()
	worker := audit.NewWorker(s.auditor.Inbox(), slog.Default(), sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	form, err := s.service.Analyze(context.Background(), s.request())
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	event := sink.Events()[0]
	s.Equal(form.AnalysisID, event.AnalysisID)
	s.Equal("72148", event.ProcedureCode)
	s.Equal(pol.ID, event.PolicyID)
	s.Equal(form.Recommendation, event.Recommendation)
	s.Len(event.CriterionStatuses, len(pol.Criteria))
}

// ============================================================
// Request digest
// ============================================================

func (s *ServiceSuite) TestRequestDigestStability() {
	first := analysis.RequestDigest(s.request())
	second := analysis.RequestDigest(s.request())
	s.Equal(first, second)

	other := s.request()
	other.ProcedureCode = "70551"
	s.NotEqual(first, analysis.RequestDigest(other))
}
